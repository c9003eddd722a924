package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
)

func newAnalyticsFixture() (*mockRepos, *analyticsService) {
	m := newMockRepos()
	svc := NewAnalyticsService(m.repos()).(*analyticsService)
	svc.now = func() time.Time { return fixedNow }
	return m, svc
}

func march(day int) *time.Time {
	t := time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAnalyticsService_Window(t *testing.T) {
	_, svc := newAnalyticsFixture()

	t.Run("Defaults to calendar days ending now", func(t *testing.T) {
		rng, days, err := svc.window(AnalyticsQuery{}, 7)
		require.NoError(t, err)
		assert.Equal(t, int32(7), days)
		assert.Equal(t, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), rng.From)
		assert.Equal(t, fixedNow, rng.To)
	})

	t.Run("Explicit range wins", func(t *testing.T) {
		rng, days, err := svc.window(AnalyticsQuery{Days: 90, From: march(1), To: march(11)}, 7)
		require.NoError(t, err)
		assert.Equal(t, int32(10), days)
		assert.Equal(t, *march(1), rng.From)
	})

	t.Run("End before start", func(t *testing.T) {
		_, _, err := svc.window(AnalyticsQuery{From: march(11), To: march(1)}, 7)
		de, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "end_date", de.Fields[0].Field)
	})

	t.Run("Days out of range", func(t *testing.T) {
		_, _, err := svc.window(AnalyticsQuery{Days: 366}, 7)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})
}

func TestAnalyticsService_BookingAnalytics(t *testing.T) {
	ctx := context.Background()
	m, svc := newAnalyticsFixture()
	rng := domain.DateRange{From: *march(1), To: *march(11)}
	m.analytics.On("BookingTrend", ctx, rng, domain.GrainWeek, []domain.BookingStatus{domain.BookingStatusCompleted}).Return([]domain.TrendPoint{
		{Period: *march(1), Count: 2, Total: decimal.NewFromInt(4000)},
		{Period: *march(8), Count: 1, Total: decimal.NewFromInt(1001)},
	}, nil)

	report, err := svc.BookingAnalytics(ctx, AnalyticsQuery{From: march(1), To: march(11), GroupBy: "week", Status: domain.BookingStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.TotalBookings)
	assert.Equal(t, "5001.00", report.TotalRevenue.StringFixed(2))
	assert.Equal(t, "1667.00", report.AverageBookingValue.StringFixed(2))
	assert.Equal(t, domain.GrainWeek, report.GroupBy)
}

func TestAnalyticsService_RevenueAnalytics(t *testing.T) {
	ctx := context.Background()
	m, svc := newAnalyticsFixture()
	rng := domain.DateRange{From: *march(1), To: *march(11)}
	earning := []domain.BookingStatus{domain.BookingStatusActive, domain.BookingStatusCompleted}
	m.analytics.On("BookingTrend", ctx, rng, domain.GrainDay, earning).Return([]domain.TrendPoint{}, nil)
	m.analytics.On("RevenueByStatus", ctx, rng).Return([]domain.StatusRevenue{}, nil)
	m.analytics.On("TopVehicles", ctx, rng, uint(topListSize)).Return([]domain.VehicleRevenue{{VehicleID: 7}}, nil)

	report, err := svc.RevenueAnalytics(ctx, AnalyticsQuery{From: march(1), To: march(11), GroupBy: "fortnight"})
	require.NoError(t, err)
	assert.True(t, report.TotalRevenue.IsZero())
	assert.True(t, report.AverageRevenue.IsZero())
	assert.Len(t, report.TopVehicles, 1)
	m.assertExpectations(t)
}

func TestAnalyticsService_VehicleUtilization(t *testing.T) {
	ctx := context.Background()
	rng := domain.DateRange{From: *march(1), To: *march(11)}
	fleet := func() []domain.VehicleUtilization {
		return []domain.VehicleUtilization{
			{VehicleID: 1, Status: domain.VehicleStatusRented, RentedDays: 5, Revenue: decimal.NewFromInt(100), BookingCount: 1},
			{VehicleID: 2, Status: domain.VehicleStatusAvailable, RentedDays: 2, Revenue: decimal.NewFromInt(300), BookingCount: 3},
			{VehicleID: 3, Status: domain.VehicleStatusMaintenance, Revenue: decimal.Zero},
		}
	}
	ids := func(vs []domain.VehicleUtilization) []int32 {
		out := make([]int32, len(vs))
		for i, v := range vs {
			out[i] = v.VehicleID
		}
		return out
	}

	t.Run("Busiest first by default", func(t *testing.T) {
		m, svc := newAnalyticsFixture()
		m.analytics.On("VehicleUtilization", ctx, rng).Return(fleet(), nil)

		report, err := svc.VehicleUtilization(ctx, AnalyticsQuery{From: march(1), To: march(11)})
		require.NoError(t, err)
		assert.Equal(t, []int32{1, 2, 3}, ids(report.Vehicles))
		assert.Equal(t, int32(10), report.TotalDays)
		assert.Equal(t, "50.00", report.Vehicles[0].UtilizationPercentage.StringFixed(2))
		assert.Equal(t, "23.33", report.AverageUtilization.StringFixed(2))
		assert.Equal(t, "400.00", report.TotalRevenue.StringFixed(2))
		assert.Equal(t, 1, report.AvailableVehicles)
		assert.Equal(t, 1, report.MaintenanceVehicles)
	})

	t.Run("Revenue ascending", func(t *testing.T) {
		m, svc := newAnalyticsFixture()
		m.analytics.On("VehicleUtilization", ctx, rng).Return(fleet(), nil)

		report, err := svc.VehicleUtilization(ctx, AnalyticsQuery{From: march(1), To: march(11), SortBy: "revenue", Order: "ASC"})
		require.NoError(t, err)
		assert.Equal(t, []int32{3, 1, 2}, ids(report.Vehicles))
	})
}

func TestAnalyticsService_CustomerAnalytics(t *testing.T) {
	ctx := context.Background()
	m, svc := newAnalyticsFixture()
	rng := domain.DateRange{From: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), To: fixedNow}
	prev := domain.DateRange{From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), To: rng.From.Add(-time.Microsecond)}

	m.customers.On("Count", ctx).Return(int64(40), nil)
	m.analytics.On("CountActiveCustomers", ctx, rng).Return(int64(9), nil)
	m.analytics.On("CountNewCustomers", ctx, rng).Return(int64(3), nil)
	m.analytics.On("CountActiveCustomers", ctx, prev).Return(int64(4), nil)
	m.analytics.On("CountRetainedCustomers", ctx, prev, rng).Return(int64(1), nil)
	m.analytics.On("TopCustomers", ctx, rng, uint(topListSize)).Return([]domain.CustomerActivity{{CustomerID: 2}}, nil)

	report, err := svc.CustomerAnalytics(ctx, AnalyticsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(30), report.Days)
	assert.Equal(t, int64(9), report.ActiveCustomers)
	assert.Equal(t, "25.00", report.RetentionRate.StringFixed(2))
	m.assertExpectations(t)
}

func TestAnalyticsService_CustomerAnalytics_NoPreviousActivity(t *testing.T) {
	ctx := context.Background()
	m, svc := newAnalyticsFixture()
	m.customers.On("Count", ctx).Return(int64(40), nil)
	m.analytics.On("CountActiveCustomers", ctx, mock.Anything).Return(int64(0), nil)
	m.analytics.On("CountNewCustomers", ctx, mock.Anything).Return(int64(0), nil)
	m.analytics.On("TopCustomers", ctx, mock.Anything, mock.Anything).Return([]domain.CustomerActivity{}, nil)

	report, err := svc.CustomerAnalytics(ctx, AnalyticsQuery{Days: 7})
	require.NoError(t, err)
	assert.True(t, report.RetentionRate.IsZero())
	m.analytics.AssertNotCalled(t, "CountRetainedCustomers", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_PerformanceMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Derives KPIs", func(t *testing.T) {
		m, svc := newAnalyticsFixture()
		rng := domain.DateRange{From: fixedNow.AddDate(0, 0, -30), To: fixedNow}
		m.analytics.On("RevenueByStatus", ctx, rng).Return([]domain.StatusRevenue{
			{Status: domain.BookingStatusActive, Count: 1, Revenue: decimal.NewFromInt(1000)},
			{Status: domain.BookingStatusCancelled, Count: 1, Revenue: decimal.NewFromInt(500)},
			{Status: domain.BookingStatusCompleted, Count: 3, Revenue: decimal.NewFromInt(9000)},
		}, nil)
		m.vehicles.On("CountByStatus", ctx).Return(map[domain.VehicleStatus]int64{
			domain.VehicleStatusAvailable:   6,
			domain.VehicleStatusRented:      1,
			domain.VehicleStatusMaintenance: 1,
		}, nil)
		m.customers.On("Count", ctx).Return(int64(40), nil)
		m.analytics.On("CountNewCustomers", ctx, rng).Return(int64(3), nil)
		m.maintenance.On("TotalsByType", ctx, rng.From).Return([]domain.MaintenanceTypeTotal{
			{Type: domain.MaintenanceTypeService, Count: 2, Cost: decimal.NewFromInt(800)},
		}, nil)

		kpi, err := svc.PerformanceMetrics(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(30), kpi.PeriodDays)
		assert.Equal(t, int64(5), kpi.Bookings.Total)
		assert.Equal(t, "80.00", kpi.Bookings.SuccessRate.StringFixed(2))
		assert.Equal(t, "10000.00", kpi.Revenue.Total.StringFixed(2))
		assert.Equal(t, "2000.00", kpi.Revenue.Average.StringFixed(2))
		assert.Equal(t, "1250.00", kpi.Revenue.PerVehicle.StringFixed(2))
		assert.Equal(t, int64(8), kpi.Fleet.Total)
		assert.Equal(t, "25.00", kpi.Fleet.Utilization.StringFixed(2))
		assert.Equal(t, int64(3), kpi.Customers.New)
		assert.Equal(t, "100.00", kpi.Maintenance.CostPerVehicle.StringFixed(2))
	})

	t.Run("Period out of range", func(t *testing.T) {
		_, svc := newAnalyticsFixture()

		_, err := svc.PerformanceMetrics(ctx, -1)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})
}
