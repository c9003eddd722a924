package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Overview is the dashboard summary returned by analytics.
type Overview struct {
	VehiclesByStatus map[VehicleStatus]int64 `json:"vehicles_by_status"`
	BookingsByStatus map[BookingStatus]int64 `json:"bookings_by_status"`
	TotalCustomers   int64                   `json:"total_customers"`
	ActiveRentals    int64                   `json:"active_rentals"`
	CompletedRevenue decimal.Decimal         `json:"completed_revenue"`
}

// TimeGrain is the bucket width of a trend series.
type TimeGrain string

const (
	GrainHour  TimeGrain = "hour"
	GrainDay   TimeGrain = "day"
	GrainWeek  TimeGrain = "week"
	GrainMonth TimeGrain = "month"
)

// ParseTimeGrain returns fallback for anything that is not a known grain.
func ParseTimeGrain(s string, fallback TimeGrain) TimeGrain {
	switch g := TimeGrain(s); g {
	case GrainHour, GrainDay, GrainWeek, GrainMonth:
		return g
	}
	return fallback
}

// DateRange is an inclusive reporting window.
type DateRange struct {
	From time.Time `json:"start_date"`
	To   time.Time `json:"end_date"`
}

// Days is the length of the window rounded up to whole days.
func (r DateRange) Days() int32 {
	d := r.To.Sub(r.From)
	if d <= 0 {
		return 0
	}
	days := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// TrendPoint is one bucket of a time series.
type TrendPoint struct {
	Period  time.Time       `json:"period"`
	Count   int64           `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}

// StatusRevenue aggregates bookings in one status.
type StatusRevenue struct {
	Status  BookingStatus   `json:"status"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type BookingAnalytics struct {
	Period              DateRange       `json:"period"`
	GroupBy             TimeGrain       `json:"group_by"`
	TotalBookings       int64           `json:"total_bookings"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AverageBookingValue decimal.Decimal `json:"average_booking_value"`
	Trend               []TrendPoint    `json:"analytics"`
}

// VehicleRevenue ranks a vehicle by the revenue its bookings produced.
type VehicleRevenue struct {
	VehicleID     int32           `json:"vehicle_id"`
	VehicleNumber string          `json:"vehicle_number"`
	Make          string          `json:"make"`
	Model         string          `json:"model"`
	Revenue       decimal.Decimal `json:"revenue"`
	BookingCount  int64           `json:"booking_count"`
}

type RevenueAnalytics struct {
	Period         DateRange        `json:"period"`
	GroupBy        TimeGrain        `json:"group_by"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	TotalBookings  int64            `json:"total_bookings"`
	AverageRevenue decimal.Decimal  `json:"average_revenue"`
	Trend          []TrendPoint     `json:"analytics"`
	Breakdown      []StatusRevenue  `json:"breakdown,omitempty"`
	TopVehicles    []VehicleRevenue `json:"top_vehicles"`
}

// VehicleUtilization is one vehicle's rental activity inside a window.
type VehicleUtilization struct {
	VehicleID             int32           `json:"vehicle_id"`
	VehicleNumber         string          `json:"vehicle_number"`
	Make                  string          `json:"make"`
	Model                 string          `json:"model"`
	Status                VehicleStatus   `json:"status"`
	DailyRate             decimal.Decimal `json:"daily_rate"`
	CurrentMileage        int32           `json:"current_mileage"`
	RentedDays            int64           `json:"rented_days"`
	Revenue               decimal.Decimal `json:"revenue"`
	BookingCount          int64           `json:"booking_count"`
	UtilizationPercentage decimal.Decimal `json:"utilization_percentage"`
}

type UtilizationReport struct {
	Period              DateRange            `json:"period"`
	TotalDays           int32                `json:"total_days"`
	TotalVehicles       int                  `json:"total_vehicles"`
	AvailableVehicles   int                  `json:"available_vehicles"`
	MaintenanceVehicles int                  `json:"maintenance_vehicles"`
	AverageUtilization  decimal.Decimal      `json:"average_utilization"`
	TotalRevenue        decimal.Decimal      `json:"total_revenue"`
	Vehicles            []VehicleUtilization `json:"vehicles"`
}

// CustomerActivity is one customer's bookings inside a window.
type CustomerActivity struct {
	CustomerID          int32           `json:"customer_id"`
	FullName            string          `json:"full_name"`
	Email               string          `json:"email"`
	BookingCount        int64           `json:"booking_count"`
	TotalSpent          decimal.Decimal `json:"total_spent"`
	AverageBookingValue decimal.Decimal `json:"average_booking_value"`
}

type CustomerAnalytics struct {
	Period          DateRange          `json:"period"`
	Days            int32              `json:"days"`
	TotalCustomers  int64              `json:"total_customers"`
	ActiveCustomers int64              `json:"active_customers"`
	NewCustomers    int64              `json:"new_customers"`
	RetentionRate   decimal.Decimal    `json:"retention_rate"`
	TopCustomers    []CustomerActivity `json:"top_customers"`
}

// PerformanceMetrics are the fleet KPIs over the last PeriodDays.
type PerformanceMetrics struct {
	PeriodDays int32 `json:"period_days"`
	Bookings   struct {
		Total       int64           `json:"total"`
		Completed   int64           `json:"completed"`
		Active      int64           `json:"active"`
		Cancelled   int64           `json:"cancelled"`
		SuccessRate decimal.Decimal `json:"success_rate"`
	} `json:"bookings"`
	Revenue struct {
		Total      decimal.Decimal `json:"total"`
		Average    decimal.Decimal `json:"average"`
		PerVehicle decimal.Decimal `json:"per_vehicle"`
	} `json:"revenue"`
	Fleet struct {
		Total       int64           `json:"total"`
		Available   int64           `json:"available"`
		Rented      int64           `json:"rented"`
		Maintenance int64           `json:"maintenance"`
		Utilization decimal.Decimal `json:"utilization"`
	} `json:"fleet"`
	Customers struct {
		Total int64 `json:"total"`
		New   int64 `json:"new"`
	} `json:"customers"`
	Maintenance struct {
		Records        int64           `json:"records"`
		Cost           decimal.Decimal `json:"cost"`
		CostPerVehicle decimal.Decimal `json:"cost_per_vehicle"`
	} `json:"maintenance"`
}

// Percent returns part/whole*100 rounded to two places, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(2)
}
