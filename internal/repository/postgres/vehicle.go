package postgres

import (
	"context"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

var vehicleColumns = []any{
	"id", "vehicle_number", "make", "model", "year", "category_id", "fuel_type", "seating_capacity",
	"daily_rate", "status", "current_mileage", "last_service_mileage", "location", "created_at", "updated_at",
}

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(&v.ID, &v.VehicleNumber, &v.Make, &v.Model, &v.Year, &v.CategoryID, &v.FuelType, &v.SeatingCapacity,
		&v.DailyRate, &v.Status, &v.CurrentMileage, &v.LastServiceMileage, &v.Location, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (vehicle_number, make, model, year, category_id, fuel_type, seating_capacity, daily_rate, status, current_mileage, last_service_mileage, location, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	err := r.db.QueryRowContext(ctx, query, v.VehicleNumber, v.Make, v.Model, v.Year, v.CategoryID, v.FuelType, v.SeatingCapacity,
		v.DailyRate, v.Status, v.CurrentMileage, v.LastServiceMileage, v.Location, now, now).Scan(&v.ID)
	if err != nil {
		return mapError(err)
	}
	v.CreatedAt, v.UpdatedAt = now, now
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	query := `SELECT id, vehicle_number, make, model, year, category_id, fuel_type, seating_capacity, daily_rate, status, current_mileage, last_service_mileage, location, created_at, updated_at FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *vehicleRepository) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	ds := dialect.From("vehicles").Select(vehicleColumns...).Order(goqu.I("created_at").Desc())
	if filter.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(string(filter.Status)))
	}
	if filter.CategoryID != nil {
		ds = ds.Where(goqu.C("category_id").Eq(*filter.CategoryID))
	}
	if filter.FuelType != "" {
		ds = ds.Where(goqu.C("fuel_type").Eq(string(filter.FuelType)))
	}
	if filter.Location != "" {
		ds = ds.Where(goqu.C("location").ILike("%" + filter.Location + "%"))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	logger.DatabaseCall("ListVehicles", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	err = rows.Err()
	logger.DatabaseResult("ListVehicles", int64(len(vehicles)), err)
	return vehicles, err
}

func (r *vehicleRepository) UpdateDetails(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET make=$1, model=$2, year=$3, category_id=$4, fuel_type=$5, seating_capacity=$6, daily_rate=$7, current_mileage=$8, location=$9, updated_at=$10 WHERE id=$11`
	res, err := r.db.ExecContext(ctx, query, v.Make, v.Model, v.Year, v.CategoryID, v.FuelType, v.SeatingCapacity, v.DailyRate, v.CurrentMileage, v.Location, time.Now(), v.ID)
	if err := expectOne(res, mapError(err)); err != nil {
		if err == repository.ErrStaleState {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes a vehicle that is not out on rent.
func (r *vehicleRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM vehicles WHERE id = $1 AND status <> 'rented'`
	res, err := r.db.ExecContext(ctx, query, id)
	return expectOne(res, mapError(err))
}

func (r *vehicleRepository) ReserveForPickup(ctx context.Context, id int32) error {
	query := `UPDATE vehicles SET status = 'rented', updated_at = $1 WHERE id = $2 AND status = 'available'`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return expectOne(res, err)
}

func (r *vehicleRepository) ReleaseOnReturn(ctx context.Context, id int32, mileage int32) error {
	query := `UPDATE vehicles SET status = 'available', current_mileage = $1, updated_at = $2 WHERE id = $3 AND status = 'rented'`
	res, err := r.db.ExecContext(ctx, query, mileage, time.Now(), id)
	return expectOne(res, err)
}

func (r *vehicleRepository) SetServiceStatus(ctx context.Context, id int32, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3 AND status <> 'rented'`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return expectOne(res, err)
}

func (r *vehicleRepository) RecordService(ctx context.Context, id int32, mileage int32) error {
	query := `UPDATE vehicles SET last_service_mileage = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, mileage, time.Now(), id)
	return err
}

func (r *vehicleRepository) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int64, error) {
	query, args, err := dialect.From("vehicles").
		Select(goqu.C("status"), goqu.COUNT("*")).
		GroupBy(goqu.C("status")).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.VehicleStatus]int64)
	for rows.Next() {
		var status domain.VehicleStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
