package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "available"
	VehicleStatusRented       VehicleStatus = "rented"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

// IsServiceStatus reports whether an administrator may set the status
// directly. Rented is only ever entered and left through the booking lifecycle.
func (s VehicleStatus) IsServiceStatus() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusMaintenance, VehicleStatusOutOfService:
		return true
	}
	return false
}

type FuelType string

const (
	FuelTypePetrol   FuelType = "petrol"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeElectric FuelType = "electric"
	FuelTypeHybrid   FuelType = "hybrid"
)

type Vehicle struct {
	ID                 int32           `json:"id"`
	VehicleNumber      string          `json:"vehicle_number"`
	Make               string          `json:"make"`
	Model              string          `json:"model"`
	Year               int32           `json:"year"`
	CategoryID         *int32          `json:"category_id,omitempty"`
	FuelType           FuelType        `json:"fuel_type"`
	SeatingCapacity    int32           `json:"seating_capacity"`
	DailyRate          decimal.Decimal `json:"daily_rate"`
	Status             VehicleStatus   `json:"status"`
	CurrentMileage     int32           `json:"current_mileage"`
	LastServiceMileage int32           `json:"last_service_mileage"`
	Location           string          `json:"location"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsAvailable reports whether the vehicle can accept a new booking.
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// VehicleFilter narrows vehicle listings.
type VehicleFilter struct {
	Status     VehicleStatus
	CategoryID *int32
	FuelType   FuelType
	Location   string
}

// VehicleCategory groups vehicles and carries a suggested base daily rate.
type VehicleCategory struct {
	ID            int32           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	BaseDailyRate decimal.Decimal `json:"base_daily_rate"`
	CreatedAt     time.Time       `json:"created_at"`
}
