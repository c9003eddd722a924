package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"

	"github.com/shopspring/decimal"
)

const (
	defaultBookingWindowDays = 7
	defaultReportWindowDays  = 30
	topListSize              = 10
)

type analyticsService struct {
	repos repository.Repos
	now   func() time.Time
}

func NewAnalyticsService(repos repository.Repos) AnalyticsService {
	return &analyticsService{repos: repos, now: time.Now}
}

func (s *analyticsService) GetOverview(ctx context.Context) (*domain.Overview, error) {
	const method = "analyticsService.GetOverview"
	logger.EnterMethod(method)

	vehicles, err := s.repos.Vehicles.CountByStatus(ctx)
	if err != nil {
		return nil, fail(method, err)
	}
	bookings, err := s.repos.Bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fail(method, err)
	}
	customers, err := s.repos.Customers.Count(ctx)
	if err != nil {
		return nil, fail(method, err)
	}
	revenue, err := s.repos.Bookings.CompletedRevenue(ctx)
	if err != nil {
		return nil, fail(method, err)
	}

	overview := &domain.Overview{
		VehiclesByStatus: vehicles,
		BookingsByStatus: bookings,
		TotalCustomers:   customers,
		ActiveRentals:    bookings[domain.BookingStatusActive],
		CompletedRevenue: utils.RoundMoney(revenue),
	}

	logger.ExitMethod(method, "activeRentals", overview.ActiveRentals)
	return overview, nil
}

func validDays(days int32) error {
	if days < 1 || days > 365 {
		return domain.NewValidationError(domain.CodeValidationFailed, "Days must be a number between 1 and 365",
			domain.FieldError{Field: "days", Message: "Days must be a number between 1 and 365"})
	}
	return nil
}

// window resolves the reporting range. An explicit From/To pair wins;
// otherwise the range covers the last days calendar days up to now.
func (s *analyticsService) window(q AnalyticsQuery, defaultDays int32) (domain.DateRange, int32, error) {
	days := q.Days
	if days == 0 {
		days = defaultDays
	}
	if err := validDays(days); err != nil {
		return domain.DateRange{}, 0, err
	}

	if q.From != nil && q.To != nil {
		if q.To.Before(*q.From) {
			return domain.DateRange{}, 0, domain.NewValidationError(domain.CodeValidationFailed, "End date must not be before start date",
				domain.FieldError{Field: "end_date", Message: "End date must not be before start date"})
		}
		r := domain.DateRange{From: *q.From, To: *q.To}
		return r, r.Days(), nil
	}

	now := s.now()
	start := now.AddDate(0, 0, -int(days-1))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return domain.DateRange{From: start, To: now}, days, nil
}

func average(total decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return utils.RoundMoney(total.Div(decimal.NewFromInt(n)))
}

func sumTrend(points []domain.TrendPoint) (int64, decimal.Decimal) {
	var count int64
	total := decimal.Zero
	for _, p := range points {
		count += p.Count
		total = total.Add(p.Total)
	}
	return count, total
}

func (s *analyticsService) BookingAnalytics(ctx context.Context, q AnalyticsQuery) (*domain.BookingAnalytics, error) {
	const method = "analyticsService.BookingAnalytics"
	logger.EnterMethod(method, "days", q.Days, "groupBy", q.GroupBy, "status", q.Status)

	rng, _, err := s.window(q, defaultBookingWindowDays)
	if err != nil {
		return nil, fail(method, err)
	}
	grain := domain.ParseTimeGrain(string(q.GroupBy), domain.GrainDay)

	var statuses []domain.BookingStatus
	if q.Status != "" {
		statuses = []domain.BookingStatus{q.Status}
	}
	trend, err := s.repos.Analytics.BookingTrend(ctx, rng, grain, statuses)
	if err != nil {
		return nil, fail(method, err)
	}

	count, total := sumTrend(trend)
	report := &domain.BookingAnalytics{
		Period:              rng,
		GroupBy:             grain,
		TotalBookings:       count,
		TotalRevenue:        utils.RoundMoney(total),
		AverageBookingValue: average(total, count),
		Trend:               trend,
	}

	logger.ExitMethod(method, "buckets", len(trend), "bookings", count)
	return report, nil
}

// RevenueAnalytics reports revenue from active and completed bookings.
func (s *analyticsService) RevenueAnalytics(ctx context.Context, q AnalyticsQuery) (*domain.RevenueAnalytics, error) {
	const method = "analyticsService.RevenueAnalytics"
	logger.EnterMethod(method, "days", q.Days, "groupBy", q.GroupBy)

	rng, _, err := s.window(q, defaultReportWindowDays)
	if err != nil {
		return nil, fail(method, err)
	}
	grain := domain.ParseTimeGrain(string(q.GroupBy), domain.GrainDay)

	trend, err := s.repos.Analytics.BookingTrend(ctx, rng, grain, []domain.BookingStatus{domain.BookingStatusActive, domain.BookingStatusCompleted})
	if err != nil {
		return nil, fail(method, err)
	}
	breakdown, err := s.repos.Analytics.RevenueByStatus(ctx, rng)
	if err != nil {
		return nil, fail(method, err)
	}
	top, err := s.repos.Analytics.TopVehicles(ctx, rng, topListSize)
	if err != nil {
		return nil, fail(method, err)
	}

	count, total := sumTrend(trend)
	report := &domain.RevenueAnalytics{
		Period:         rng,
		GroupBy:        grain,
		TotalRevenue:   utils.RoundMoney(total),
		TotalBookings:  count,
		AverageRevenue: average(total, count),
		Trend:          trend,
		Breakdown:      breakdown,
		TopVehicles:    top,
	}

	logger.ExitMethod(method, "revenue", report.TotalRevenue)
	return report, nil
}

// VehicleUtilization reports rented days against the window length for every
// vehicle. SortBy is utilization, revenue or bookings; Order is asc or desc.
func (s *analyticsService) VehicleUtilization(ctx context.Context, q AnalyticsQuery) (*domain.UtilizationReport, error) {
	const method = "analyticsService.VehicleUtilization"
	logger.EnterMethod(method, "days", q.Days, "sortBy", q.SortBy, "order", q.Order)

	rng, _, err := s.window(q, defaultReportWindowDays)
	if err != nil {
		return nil, fail(method, err)
	}
	vehicles, err := s.repos.Analytics.VehicleUtilization(ctx, rng)
	if err != nil {
		return nil, fail(method, err)
	}

	totalDays := rng.Days()
	report := &domain.UtilizationReport{
		Period:        rng,
		TotalDays:     totalDays,
		TotalVehicles: len(vehicles),
		TotalRevenue:  decimal.Zero,
		Vehicles:      vehicles,
	}
	utilizationSum := decimal.Zero
	for i := range vehicles {
		v := &vehicles[i]
		v.UtilizationPercentage = domain.Percent(decimal.NewFromInt(v.RentedDays), decimal.NewFromInt(int64(totalDays)))
		v.Revenue = utils.RoundMoney(v.Revenue)
		utilizationSum = utilizationSum.Add(v.UtilizationPercentage)
		report.TotalRevenue = report.TotalRevenue.Add(v.Revenue)
		switch v.Status {
		case domain.VehicleStatusAvailable:
			report.AvailableVehicles++
		case domain.VehicleStatusMaintenance:
			report.MaintenanceVehicles++
		}
	}
	if len(vehicles) > 0 {
		report.AverageUtilization = utilizationSum.Div(decimal.NewFromInt(int64(len(vehicles)))).Round(2)
	}

	key := func(v domain.VehicleUtilization) decimal.Decimal {
		switch strings.ToLower(q.SortBy) {
		case "revenue":
			return v.Revenue
		case "bookings":
			return decimal.NewFromInt(v.BookingCount)
		default:
			return v.UtilizationPercentage
		}
	}
	ascending := strings.EqualFold(q.Order, "asc")
	sort.SliceStable(vehicles, func(i, j int) bool {
		if ascending {
			return key(vehicles[i]).LessThan(key(vehicles[j]))
		}
		return key(vehicles[i]).GreaterThan(key(vehicles[j]))
	})

	logger.ExitMethod(method, "vehicles", len(vehicles), "averageUtilization", report.AverageUtilization)
	return report, nil
}

// CustomerAnalytics compares the window with the one just before it to
// derive retention.
func (s *analyticsService) CustomerAnalytics(ctx context.Context, q AnalyticsQuery) (*domain.CustomerAnalytics, error) {
	const method = "analyticsService.CustomerAnalytics"
	logger.EnterMethod(method, "days", q.Days)

	rng, days, err := s.window(q, defaultReportWindowDays)
	if err != nil {
		return nil, fail(method, err)
	}
	prev := domain.DateRange{From: rng.From.AddDate(0, 0, -int(days)), To: rng.From.Add(-time.Microsecond)}

	report := &domain.CustomerAnalytics{Period: rng, Days: days, RetentionRate: decimal.Zero}
	if report.TotalCustomers, err = s.repos.Customers.Count(ctx); err != nil {
		return nil, fail(method, err)
	}
	if report.ActiveCustomers, err = s.repos.Analytics.CountActiveCustomers(ctx, rng); err != nil {
		return nil, fail(method, err)
	}
	if report.NewCustomers, err = s.repos.Analytics.CountNewCustomers(ctx, rng); err != nil {
		return nil, fail(method, err)
	}
	previous, err := s.repos.Analytics.CountActiveCustomers(ctx, prev)
	if err != nil {
		return nil, fail(method, err)
	}
	if previous > 0 {
		retained, err := s.repos.Analytics.CountRetainedCustomers(ctx, prev, rng)
		if err != nil {
			return nil, fail(method, err)
		}
		report.RetentionRate = domain.Percent(decimal.NewFromInt(retained), decimal.NewFromInt(previous))
	}
	if report.TopCustomers, err = s.repos.Analytics.TopCustomers(ctx, rng, topListSize); err != nil {
		return nil, fail(method, err)
	}

	logger.ExitMethod(method, "active", report.ActiveCustomers, "retentionRate", report.RetentionRate)
	return report, nil
}

// PerformanceMetrics reports fleet KPIs over the last periodDays, 30 when zero.
func (s *analyticsService) PerformanceMetrics(ctx context.Context, periodDays int32) (*domain.PerformanceMetrics, error) {
	const method = "analyticsService.PerformanceMetrics"
	logger.EnterMethod(method, "periodDays", periodDays)

	if periodDays == 0 {
		periodDays = defaultReportWindowDays
	}
	if err := validDays(periodDays); err != nil {
		return nil, fail(method, err)
	}
	now := s.now()
	rng := domain.DateRange{From: now.AddDate(0, 0, -int(periodDays)), To: now}

	byStatus, err := s.repos.Analytics.RevenueByStatus(ctx, rng)
	if err != nil {
		return nil, fail(method, err)
	}
	fleet, err := s.repos.Vehicles.CountByStatus(ctx)
	if err != nil {
		return nil, fail(method, err)
	}
	customers, err := s.repos.Customers.Count(ctx)
	if err != nil {
		return nil, fail(method, err)
	}
	newCustomers, err := s.repos.Analytics.CountNewCustomers(ctx, rng)
	if err != nil {
		return nil, fail(method, err)
	}
	maintenance, err := s.repos.Maintenance.TotalsByType(ctx, rng.From)
	if err != nil {
		return nil, fail(method, err)
	}

	m := &domain.PerformanceMetrics{PeriodDays: periodDays}
	revenue := decimal.Zero
	for _, t := range byStatus {
		m.Bookings.Total += t.Count
		switch t.Status {
		case domain.BookingStatusCompleted:
			m.Bookings.Completed = t.Count
			revenue = revenue.Add(t.Revenue)
		case domain.BookingStatusActive:
			m.Bookings.Active = t.Count
			revenue = revenue.Add(t.Revenue)
		case domain.BookingStatusCancelled:
			m.Bookings.Cancelled = t.Count
		}
	}
	m.Bookings.SuccessRate = domain.Percent(decimal.NewFromInt(m.Bookings.Completed+m.Bookings.Active), decimal.NewFromInt(m.Bookings.Total))

	for _, n := range fleet {
		m.Fleet.Total += n
	}
	m.Fleet.Available = fleet[domain.VehicleStatusAvailable]
	m.Fleet.Rented = fleet[domain.VehicleStatusRented]
	m.Fleet.Maintenance = fleet[domain.VehicleStatusMaintenance]
	m.Fleet.Utilization = domain.Percent(decimal.NewFromInt(m.Fleet.Rented+m.Fleet.Maintenance), decimal.NewFromInt(m.Fleet.Total))

	m.Revenue.Total = utils.RoundMoney(revenue)
	m.Revenue.Average = average(revenue, m.Bookings.Total)
	m.Revenue.PerVehicle = average(revenue, m.Fleet.Total)

	m.Customers.Total = customers
	m.Customers.New = newCustomers

	cost := decimal.Zero
	for _, t := range maintenance {
		m.Maintenance.Records += t.Count
		cost = cost.Add(t.Cost)
	}
	m.Maintenance.Cost = utils.RoundMoney(cost)
	m.Maintenance.CostPerVehicle = average(cost, m.Fleet.Total)

	logger.ExitMethod(method, "bookings", m.Bookings.Total, "revenue", m.Revenue.Total)
	return m, nil
}
