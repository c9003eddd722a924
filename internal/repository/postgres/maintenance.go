package postgres

import (
	"context"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type maintenanceRepository struct {
	db DBTX
}

func NewMaintenanceRepository(db DBTX) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.MaintenanceRecord) error {
	query := `INSERT INTO maintenance_records (vehicle_id, maintenance_type, description, service_date, mileage_at_service, cost, service_provider,
	          next_service_due_mileage, next_service_due_date, performed_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, m.VehicleID, m.MaintenanceType, m.Description, m.ServiceDate, m.MileageAtService, m.Cost, m.ServiceProvider,
		m.NextServiceDueMileage, m.NextServiceDueDate, m.PerformedBy, now).Scan(&m.ID)
	if err != nil {
		return mapError(err)
	}
	m.CreatedAt = now
	return nil
}

var maintenanceColumns = []any{
	goqu.I("m.id"), goqu.I("m.vehicle_id"), goqu.I("m.maintenance_type"), goqu.I("m.description"), goqu.I("m.service_date"),
	goqu.I("m.mileage_at_service"), goqu.I("m.cost"), goqu.I("m.service_provider"), goqu.I("m.next_service_due_mileage"),
	goqu.I("m.next_service_due_date"), goqu.I("m.performed_by"), goqu.I("m.created_at"), goqu.COALESCE(goqu.I("u.full_name"), ""),
}

// withAgentName joins the performing agent's user for agent_name.
func withAgentName(ds *goqu.SelectDataset) *goqu.SelectDataset {
	return ds.
		LeftJoin(goqu.T("agents").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("m.performed_by")))).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("a.user_id")))).
		Select(maintenanceColumns...)
}

func scanMaintenance(row rowScanner, m *domain.MaintenanceRecord) error {
	return row.Scan(&m.ID, &m.VehicleID, &m.MaintenanceType, &m.Description, &m.ServiceDate, &m.MileageAtService, &m.Cost, &m.ServiceProvider,
		&m.NextServiceDueMileage, &m.NextServiceDueDate, &m.PerformedBy, &m.CreatedAt, &m.AgentName)
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int32) (*domain.MaintenanceRecord, error) {
	query, args, err := withAgentName(dialect.From(goqu.T("maintenance_records").As("m"))).
		Where(goqu.I("m.id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	m := &domain.MaintenanceRecord{}
	if err := scanMaintenance(r.db.QueryRowContext(ctx, query, args...), m); err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, m *domain.MaintenanceRecord) error {
	query := `UPDATE maintenance_records SET maintenance_type=$1, description=$2, service_date=$3, mileage_at_service=$4, cost=$5,
	          service_provider=$6, next_service_due_mileage=$7, next_service_due_date=$8 WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query, m.MaintenanceType, m.Description, m.ServiceDate, m.MileageAtService, m.Cost,
		m.ServiceProvider, m.NextServiceDueMileage, m.NextServiceDueDate, m.ID)
	if err := expectOne(res, mapError(err)); err != nil {
		if err == repository.ErrStaleState {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records WHERE id = $1`, id)
	if err := expectOne(res, err); err != nil {
		if err == repository.ErrStaleState {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// List pages through every record matching filter.
func (r *maintenanceRepository) List(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error) {
	return r.list(ctx, nil, filter)
}

func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error) {
	return r.list(ctx, goqu.I("m.vehicle_id").Eq(vehicleID), filter)
}

func (r *maintenanceRepository) ListByAgent(ctx context.Context, agentID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error) {
	return r.list(ctx, goqu.I("m.performed_by").Eq(agentID), filter)
}

func (r *maintenanceRepository) list(ctx context.Context, owner exp.Expression, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error) {
	_, limit, offset := pageBounds(filter.Page, filter.Limit)

	base := dialect.From(goqu.T("maintenance_records").As("m"))
	if owner != nil {
		base = base.Where(owner)
	}
	if filter.VehicleID != nil {
		base = base.Where(goqu.I("m.vehicle_id").Eq(*filter.VehicleID))
	}
	if filter.PerformedBy != nil {
		base = base.Where(goqu.I("m.performed_by").Eq(*filter.PerformedBy))
	}
	if filter.Type != "" {
		base = base.Where(goqu.I("m.maintenance_type").Eq(string(filter.Type)))
	}
	if filter.From != nil {
		base = base.Where(goqu.I("m.service_date").Gte(*filter.From))
	}
	if filter.To != nil {
		base = base.Where(goqu.I("m.service_date").Lte(*filter.To))
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := withAgentName(base).
		Order(goqu.I("m.service_date").Desc()).
		Limit(uint(limit)).
		Offset(offset).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []domain.MaintenanceRecord{}
	for rows.Next() {
		var m domain.MaintenanceRecord
		if err := scanMaintenance(rows, &m); err != nil {
			return nil, 0, err
		}
		records = append(records, m)
	}
	return records, total, rows.Err()
}

// ListDue returns vehicles whose latest maintenance record schedules the next
// service on or before dueBy, or within mileageThreshold of the odometer.
func (r *maintenanceRepository) ListDue(ctx context.Context, dueBy time.Time, mileageThreshold int32) ([]domain.MaintenanceDue, error) {
	query := `SELECT v.id, v.vehicle_number, v.make, v.model, v.current_mileage, m.next_service_due_mileage, m.next_service_due_date
	          FROM vehicles v
	          JOIN LATERAL (
	              SELECT next_service_due_mileage, next_service_due_date FROM maintenance_records
	              WHERE vehicle_id = v.id ORDER BY service_date DESC, id DESC LIMIT 1
	          ) m ON true
	          WHERE v.status <> 'out_of_service'
	            AND (m.next_service_due_date <= $1 OR m.next_service_due_mileage - v.current_mileage <= $2)
	          ORDER BY m.next_service_due_date NULLS LAST, v.id`
	rows, err := r.db.QueryContext(ctx, query, dueBy, mileageThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []domain.MaintenanceDue
	for rows.Next() {
		var d domain.MaintenanceDue
		if err := rows.Scan(&d.VehicleID, &d.VehicleNumber, &d.Make, &d.Model, &d.CurrentMileage, &d.NextServiceDueMileage, &d.NextServiceDueDate); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func (r *maintenanceRepository) TotalsByType(ctx context.Context, since time.Time) ([]domain.MaintenanceTypeTotal, error) {
	query, args, err := dialect.From("maintenance_records").
		Select(goqu.C("maintenance_type"), goqu.COUNT("*"), goqu.COALESCE(goqu.SUM("cost"), 0)).
		Where(goqu.C("service_date").Gte(since)).
		GroupBy(goqu.C("maintenance_type")).
		Order(goqu.C("maintenance_type").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []domain.MaintenanceTypeTotal{}
	for rows.Next() {
		var t domain.MaintenanceTypeTotal
		if err := rows.Scan(&t.Type, &t.Count, &t.Cost); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
