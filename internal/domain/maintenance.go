package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MaintenanceType string

const (
	MaintenanceTypeService    MaintenanceType = "service"
	MaintenanceTypeRepair     MaintenanceType = "repair"
	MaintenanceTypeInspection MaintenanceType = "inspection"
	MaintenanceTypeCleaning   MaintenanceType = "cleaning"
)

// TakesVehicleOffline reports whether the work puts the vehicle in maintenance.
func (t MaintenanceType) TakesVehicleOffline() bool {
	return t == MaintenanceTypeService || t == MaintenanceTypeRepair
}

type MaintenanceRecord struct {
	ID                    int32           `json:"id"`
	VehicleID             int32           `json:"vehicle_id"`
	MaintenanceType       MaintenanceType `json:"maintenance_type"`
	Description           string          `json:"description"`
	ServiceDate           time.Time       `json:"service_date"`
	MileageAtService      int32           `json:"mileage_at_service"`
	Cost                  decimal.Decimal `json:"cost"`
	ServiceProvider       string          `json:"service_provider"`
	NextServiceDueMileage *int32          `json:"next_service_due_mileage,omitempty"`
	NextServiceDueDate    *time.Time      `json:"next_service_due_date,omitempty"`
	PerformedBy           *int32          `json:"performed_by,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`

	AgentName string `json:"agent_name,omitempty"`
}

// IsValid reports whether t is one of the known maintenance types.
func (t MaintenanceType) IsValid() bool {
	switch t {
	case MaintenanceTypeService, MaintenanceTypeRepair, MaintenanceTypeInspection, MaintenanceTypeCleaning:
		return true
	}
	return false
}

// MaintenanceFilter narrows record listings. From and To bound service_date.
type MaintenanceFilter struct {
	Type        MaintenanceType
	VehicleID   *int32
	PerformedBy *int32
	From        *time.Time
	To          *time.Time
	Page        int32
	Limit       int32
}

// MaintenanceDue is a vehicle approaching its next scheduled service.
type MaintenanceDue struct {
	VehicleID             int32      `json:"vehicle_id"`
	VehicleNumber         string     `json:"vehicle_number"`
	Make                  string     `json:"make"`
	Model                 string     `json:"model"`
	CurrentMileage        int32      `json:"current_mileage"`
	NextServiceDueMileage *int32     `json:"next_service_due_mileage,omitempty"`
	NextServiceDueDate    *time.Time `json:"next_service_due_date,omitempty"`
}

// MaintenanceTypeTotal aggregates records of one type.
type MaintenanceTypeTotal struct {
	Type  MaintenanceType `json:"maintenance_type"`
	Count int64           `json:"count"`
	Cost  decimal.Decimal `json:"cost"`
}

// MaintenanceStats summarises work done over the last PeriodDays.
type MaintenanceStats struct {
	PeriodDays            int32                  `json:"period_days"`
	TotalRecords          int64                  `json:"total_records"`
	TotalCost             decimal.Decimal        `json:"total_cost"`
	AverageCost           decimal.Decimal        `json:"average_cost"`
	ByType                []MaintenanceTypeTotal `json:"maintenance_by_type"`
	VehiclesInMaintenance int64                  `json:"vehicles_in_maintenance"`
	TotalVehicles         int64                  `json:"total_vehicles"`
	MaintenancePercentage decimal.Decimal        `json:"maintenance_percentage"`
}
