package service

import (
	"context"
	"errors"
	"strings"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
)

type vehicleService struct {
	tx    repository.Transactor
	repos repository.Repos
}

func NewVehicleService(tx repository.Transactor, repos repository.Repos) VehicleService {
	return &vehicleService{tx: tx, repos: repos}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	const method = "vehicleService.CreateVehicle"
	logger.EnterMethod(method, "vehicleNumber", vehicle.VehicleNumber)

	if !vehicle.DailyRate.IsPositive() {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "daily_rate", Message: "Daily rate must be greater than zero"}))
	}
	vehicle.Status = domain.VehicleStatusAvailable

	if err := s.repos.Vehicles.Create(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fail(method, domain.NewConflictError(domain.CodeVehicleExists, "Vehicle number already registered"), "vehicleNumber", vehicle.VehicleNumber)
		}
		return nil, fail(method, unknownCategory(err))
	}

	logger.Info("Vehicle registered", "vehicleID", vehicle.ID, "vehicleNumber", vehicle.VehicleNumber)
	logger.ExitMethod(method, "vehicleID", vehicle.ID)
	return vehicle, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	const method = "vehicleService.GetVehicle"
	logger.EnterMethod(method, "vehicleID", id)

	vehicle, err := s.repos.Vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeVehicleNotFound, "Vehicle not found"), "vehicleID", id)
	}

	logger.ExitMethod(method, "vehicleID", id)
	return vehicle, nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	const method = "vehicleService.ListVehicles"
	logger.EnterMethod(method, "status", filter.Status, "location", filter.Location)

	vehicles, err := s.repos.Vehicles.List(ctx, filter)
	if err != nil {
		return nil, fail(method, err)
	}

	logger.ExitMethod(method, "count", len(vehicles))
	return vehicles, nil
}

// UpdateVehicle changes descriptive fields. Existing bookings keep the rate
// they were priced at.
func (s *vehicleService) UpdateVehicle(ctx context.Context, id int32, input UpdateVehicleInput) (*domain.Vehicle, error) {
	const method = "vehicleService.UpdateVehicle"
	logger.EnterMethod(method, "vehicleID", id)

	if input.DailyRate != nil && !input.DailyRate.IsPositive() {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "daily_rate", Message: "Daily rate must be greater than zero"}))
	}

	var updated *domain.Vehicle
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		vehicle, err := repos.Vehicles.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.CodeVehicleNotFound, "Vehicle not found")
		}
		if input.DailyRate != nil {
			vehicle.DailyRate = *input.DailyRate
		}
		if input.Location != nil {
			vehicle.Location = *input.Location
		}
		if input.CurrentMileage != nil {
			vehicle.CurrentMileage = *input.CurrentMileage
		}
		if input.CategoryID != nil {
			vehicle.CategoryID = input.CategoryID
		}
		if err := repos.Vehicles.UpdateDetails(ctx, vehicle); err != nil {
			return notFoundAs(unknownCategory(err), domain.CodeVehicleNotFound, "Vehicle not found")
		}
		if input.LastServiceMileage != nil {
			if err := repos.Vehicles.RecordService(ctx, id, *input.LastServiceMileage); err != nil {
				return err
			}
			vehicle.LastServiceMileage = *input.LastServiceMileage
		}
		updated = vehicle
		return nil
	})
	if err != nil {
		return nil, fail(method, err, "vehicleID", id)
	}

	logger.ExitMethod(method, "vehicleID", id)
	return updated, nil
}

// ChangeVehicleStatus sets a service status. Rented vehicles are left to the
// booking lifecycle.
func (s *vehicleService) ChangeVehicleStatus(ctx context.Context, id int32, status domain.VehicleStatus) (*domain.Vehicle, error) {
	const method = "vehicleService.ChangeVehicleStatus"
	logger.EnterMethod(method, "vehicleID", id, "status", status)

	if !status.IsServiceStatus() {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "status", Message: "Status must be available, maintenance, or out_of_service"}))
	}

	vehicle, err := s.repos.Vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeVehicleNotFound, "Vehicle not found"), "vehicleID", id)
	}

	if err := s.repos.Vehicles.SetServiceStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, fail(method, domain.NewConflictError(domain.CodeVehicleRented, "Vehicle is currently rented"), "vehicleID", id)
		}
		return nil, fail(method, err, "vehicleID", id)
	}
	logger.Info("Vehicle status changed", "vehicleID", id, "from", vehicle.Status, "to", status)
	vehicle.Status = status

	logger.ExitMethod(method, "vehicleID", id)
	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id int32) error {
	const method = "vehicleService.DeleteVehicle"
	logger.EnterMethod(method, "vehicleID", id)

	if _, err := s.repos.Vehicles.GetByID(ctx, id); err != nil {
		return fail(method, notFoundAs(err, domain.CodeVehicleNotFound, "Vehicle not found"), "vehicleID", id)
	}

	if err := s.repos.Vehicles.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleState):
			return fail(method, domain.NewConflictError(domain.CodeVehicleRented, "Vehicle is currently rented"), "vehicleID", id)
		case errors.Is(err, repository.ErrReferenced):
			return fail(method, domain.NewConflictError(domain.CodeVehicleInUse, "Vehicle has booking history"), "vehicleID", id)
		}
		return fail(method, err, "vehicleID", id)
	}

	logger.Info("Vehicle deleted", "vehicleID", id)
	logger.ExitMethod(method, "vehicleID", id)
	return nil
}

// unknownCategory maps a category_id foreign key violation to a field error.
func unknownCategory(err error) error {
	if errors.Is(err, repository.ErrReferenced) && strings.Contains(err.Error(), "category") {
		return domain.NewValidationError(domain.CodeCategoryNotFound, "Vehicle category not found",
			domain.FieldError{Field: "category_id", Message: "Vehicle category does not exist"})
	}
	return err
}
