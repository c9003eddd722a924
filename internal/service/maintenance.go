package service

import (
	"context"
	"errors"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"

	"github.com/shopspring/decimal"
)

const (
	defaultServiceProvider = "Not specified"
	maintenanceTypeMessage = "Maintenance type must be service, repair, inspection, or cleaning"
	defaultStatsPeriodDays = 30
)

type maintenanceService struct {
	tx               repository.Transactor
	repos            repository.Repos
	window           time.Duration
	mileageThreshold int32
	now              func() time.Time
}

// NewMaintenanceService builds the service. window and mileageThreshold bound
// what UpcomingMaintenance reports.
func NewMaintenanceService(tx repository.Transactor, repos repository.Repos, window time.Duration, mileageThreshold int32) MaintenanceService {
	return &maintenanceService{
		tx:               tx,
		repos:            repos,
		window:           window,
		mileageThreshold: mileageThreshold,
		now:              time.Now,
	}
}

func (s *maintenanceService) RecordMaintenance(ctx context.Context, userID int32, input MaintenanceInput) (*domain.MaintenanceRecord, error) {
	const method = "maintenanceService.RecordMaintenance"
	logger.EnterMethod(method, "userID", userID, "vehicleID", input.VehicleID, "type", input.MaintenanceType)

	if fields := validateMaintenance(input); len(fields) > 0 {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed", fields...))
	}

	agent, err := s.repos.Agents.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeAgentNotFound, "Agent profile not found"), "userID", userID)
	}

	var record *domain.MaintenanceRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		vehicle, err := repos.Vehicles.GetByID(ctx, input.VehicleID)
		if err != nil {
			return notFoundAs(err, domain.CodeVehicleNotFound, "Vehicle not found")
		}

		mileage := vehicle.CurrentMileage
		if input.MileageAtService != nil {
			mileage = *input.MileageAtService
		}
		provider := input.ServiceProvider
		if provider == "" {
			provider = defaultServiceProvider
		}

		if input.MaintenanceType.TakesVehicleOffline() {
			if err := repos.Vehicles.SetServiceStatus(ctx, vehicle.ID, domain.VehicleStatusMaintenance); err != nil {
				if errors.Is(err, repository.ErrStaleState) {
					return domain.NewConflictError(domain.CodeVehicleRented, "Vehicle is currently rented")
				}
				return err
			}
		}

		record = &domain.MaintenanceRecord{
			VehicleID:             vehicle.ID,
			MaintenanceType:       input.MaintenanceType,
			Description:           input.Description,
			ServiceDate:           input.ServiceDate,
			MileageAtService:      mileage,
			Cost:                  input.Cost,
			ServiceProvider:       provider,
			NextServiceDueMileage: input.NextServiceDueMileage,
			NextServiceDueDate:    input.NextServiceDueDate,
			PerformedBy:           &agent.ID,
			AgentName:             agent.FullName,
		}
		if err := repos.Maintenance.Create(ctx, record); err != nil {
			return err
		}

		if input.MileageAtService != nil {
			return repos.Vehicles.RecordService(ctx, vehicle.ID, mileage)
		}
		return nil
	})
	if err != nil {
		return nil, fail(method, err, "vehicleID", input.VehicleID)
	}

	logger.InfoContext(ctx, "Maintenance recorded", "recordID", record.ID, "vehicleID", record.VehicleID, "type", record.MaintenanceType)
	logger.ExitMethod(method, "recordID", record.ID)
	return record, nil
}

func validateMaintenance(input MaintenanceInput) []domain.FieldError {
	var fields []domain.FieldError
	if !input.MaintenanceType.IsValid() {
		fields = append(fields, domain.FieldError{Field: "maintenance_type", Message: maintenanceTypeMessage})
	}
	if input.ServiceDate.IsZero() {
		fields = append(fields, domain.FieldError{Field: "service_date", Message: "Service date is required"})
	}
	if input.Cost.IsNegative() {
		fields = append(fields, domain.FieldError{Field: "cost", Message: "Cost cannot be negative"})
	}
	if input.MileageAtService != nil && *input.MileageAtService < 0 {
		fields = append(fields, domain.FieldError{Field: "mileage_at_service", Message: "Mileage cannot be negative"})
	}
	return fields
}

func (s *maintenanceService) ListVehicleMaintenance(ctx context.Context, vehicleID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error) {
	const method = "maintenanceService.ListVehicleMaintenance"
	logger.EnterMethod(method, "vehicleID", vehicleID)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	records, total, err := s.repos.Maintenance.ListByVehicle(ctx, vehicleID, filter)
	if err != nil {
		return nil, domain.Pagination{}, fail(method, err, "vehicleID", vehicleID)
	}

	logger.ExitMethod(method, "vehicleID", vehicleID, "count", len(records))
	return records, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *maintenanceService) ListMaintenance(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error) {
	const method = "maintenanceService.ListMaintenance"
	logger.EnterMethod(method, "type", filter.Type)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	records, total, err := s.repos.Maintenance.List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, fail(method, err)
	}

	logger.ExitMethod(method, "count", len(records), "total", total)
	return records, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

// UpcomingMaintenance lists vehicles whose next service falls inside the
// configured window or mileage threshold.
func (s *maintenanceService) UpcomingMaintenance(ctx context.Context) ([]domain.MaintenanceDue, error) {
	const method = "maintenanceService.UpcomingMaintenance"
	logger.EnterMethod(method)

	due, err := s.repos.Maintenance.ListDue(ctx, s.now().Add(s.window), s.mileageThreshold)
	if err != nil {
		return nil, fail(method, err)
	}

	logger.ExitMethod(method, "count", len(due))
	return due, nil
}

func (s *maintenanceService) GetMaintenance(ctx context.Context, id int32) (*domain.MaintenanceRecord, error) {
	record, err := s.repos.Maintenance.GetByID(ctx, id)
	if err != nil {
		return nil, fail("maintenanceService.GetMaintenance", notFoundAs(err, domain.CodeMaintenanceNotFound, "Maintenance record not found"), "recordID", id)
	}
	return record, nil
}

// ownedRecord loads the record and checks it was created by the agent
// behind userID.
func (s *maintenanceService) ownedRecord(ctx context.Context, userID, id int32, action string) (*domain.MaintenanceRecord, error) {
	record, err := s.repos.Maintenance.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.CodeMaintenanceNotFound, "Maintenance record not found")
	}
	agent, err := s.repos.Agents.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if agent == nil || record.PerformedBy == nil || *record.PerformedBy != agent.ID {
		return nil, domain.NewForbiddenError(domain.CodeForbidden, "You can only "+action+" maintenance records you created")
	}
	return record, nil
}

func (s *maintenanceService) UpdateMaintenance(ctx context.Context, userID, id int32, input UpdateMaintenanceInput) (*domain.MaintenanceRecord, error) {
	const method = "maintenanceService.UpdateMaintenance"
	logger.EnterMethod(method, "userID", userID, "recordID", id)

	var fields []domain.FieldError
	if t := input.MaintenanceType; t != nil && !t.IsValid() {
		fields = append(fields, domain.FieldError{Field: "maintenance_type", Message: maintenanceTypeMessage})
	}
	if c := input.Cost; c != nil && c.IsNegative() {
		fields = append(fields, domain.FieldError{Field: "cost", Message: "Cost must be a positive number"})
	}
	if m := input.MileageAtService; m != nil && *m < 0 {
		fields = append(fields, domain.FieldError{Field: "mileage_at_service", Message: "Mileage must be a positive number"})
	}
	if len(fields) > 0 {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed", fields...))
	}

	record, err := s.ownedRecord(ctx, userID, id, "update")
	if err != nil {
		return nil, fail(method, err, "recordID", id)
	}

	if input.MaintenanceType != nil {
		record.MaintenanceType = *input.MaintenanceType
	}
	if input.Description != nil {
		record.Description = *input.Description
	}
	if input.ServiceDate != nil {
		record.ServiceDate = *input.ServiceDate
	}
	if input.MileageAtService != nil {
		record.MileageAtService = *input.MileageAtService
	}
	if input.Cost != nil {
		record.Cost = *input.Cost
	}
	if input.ServiceProvider != nil {
		record.ServiceProvider = *input.ServiceProvider
	}
	if input.NextServiceDueMileage != nil {
		record.NextServiceDueMileage = input.NextServiceDueMileage
	}
	if input.NextServiceDueDate != nil {
		record.NextServiceDueDate = input.NextServiceDueDate
	}

	if err := s.repos.Maintenance.Update(ctx, record); err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeMaintenanceNotFound, "Maintenance record not found"), "recordID", id)
	}

	logger.InfoContext(ctx, "Maintenance record updated", "recordID", id, "userID", userID)
	logger.ExitMethod(method, "recordID", id)
	return record, nil
}

func (s *maintenanceService) DeleteMaintenance(ctx context.Context, userID, id int32) error {
	const method = "maintenanceService.DeleteMaintenance"
	logger.EnterMethod(method, "userID", userID, "recordID", id)

	if _, err := s.ownedRecord(ctx, userID, id, "delete"); err != nil {
		return fail(method, err, "recordID", id)
	}
	if err := s.repos.Maintenance.Delete(ctx, id); err != nil {
		return fail(method, notFoundAs(err, domain.CodeMaintenanceNotFound, "Maintenance record not found"), "recordID", id)
	}

	logger.InfoContext(ctx, "Maintenance record deleted", "recordID", id, "userID", userID)
	logger.ExitMethod(method, "recordID", id)
	return nil
}

// ListAgentMaintenance lists the records created by the agent behind userID.
func (s *maintenanceService) ListAgentMaintenance(ctx context.Context, userID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error) {
	const method = "maintenanceService.ListAgentMaintenance"
	logger.EnterMethod(method, "userID", userID)

	agent, err := s.repos.Agents.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Pagination{}, fail(method, notFoundAs(err, domain.CodeAgentNotFound, "Agent not found"), "userID", userID)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	records, total, err := s.repos.Maintenance.ListByAgent(ctx, agent.ID, filter)
	if err != nil {
		return nil, domain.Pagination{}, fail(method, err, "agentID", agent.ID)
	}

	logger.ExitMethod(method, "agentID", agent.ID, "count", len(records))
	return records, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

// MaintenanceStats summarises records serviced in the last periodDays,
// 30 when zero.
func (s *maintenanceService) MaintenanceStats(ctx context.Context, periodDays int32) (*domain.MaintenanceStats, error) {
	const method = "maintenanceService.MaintenanceStats"
	logger.EnterMethod(method, "periodDays", periodDays)

	if periodDays == 0 {
		periodDays = defaultStatsPeriodDays
	}
	if periodDays < 1 || periodDays > 365 {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Period must be between 1 and 365 days",
			domain.FieldError{Field: "period", Message: "Period must be between 1 and 365 days"}))
	}

	since := s.now().AddDate(0, 0, -int(periodDays))
	byType, err := s.repos.Maintenance.TotalsByType(ctx, since)
	if err != nil {
		return nil, fail(method, err)
	}
	vehicles, err := s.repos.Vehicles.CountByStatus(ctx)
	if err != nil {
		return nil, fail(method, err)
	}

	stats := &domain.MaintenanceStats{
		PeriodDays:            periodDays,
		TotalCost:             decimal.Zero,
		AverageCost:           decimal.Zero,
		ByType:                byType,
		VehiclesInMaintenance: vehicles[domain.VehicleStatusMaintenance],
	}
	for _, t := range byType {
		stats.TotalRecords += t.Count
		stats.TotalCost = stats.TotalCost.Add(t.Cost)
	}
	for _, n := range vehicles {
		stats.TotalVehicles += n
	}
	if stats.TotalRecords > 0 {
		stats.AverageCost = utils.RoundMoney(stats.TotalCost.Div(decimal.NewFromInt(stats.TotalRecords)))
	}
	stats.TotalCost = utils.RoundMoney(stats.TotalCost)
	stats.MaintenancePercentage = domain.Percent(decimal.NewFromInt(stats.VehiclesInMaintenance), decimal.NewFromInt(stats.TotalVehicles))

	logger.ExitMethod(method, "records", stats.TotalRecords)
	return stats, nil
}
