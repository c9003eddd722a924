package postgres

import (
	"context"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// payment_status is projected from the joined payment row.
const bookingSelect = `SELECT b.id, b.customer_id, b.vehicle_id, b.agent_id, b.pickup_date, b.return_date, b.pickup_location, b.return_location,
	b.total_days, b.daily_rate, b.base_amount, b.tax_amount, b.extras_amount, b.security_deposit, b.total_amount, b.status,
	b.payment_method, b.pickup_mileage, b.return_mileage, b.additional_charges, b.notes, b.created_at, b.updated_at, p.status
	FROM bookings b LEFT JOIN payments p ON p.booking_id = b.id`

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.CustomerID, &b.VehicleID, &b.AgentID, &b.PickupDate, &b.ReturnDate, &b.PickupLocation, &b.ReturnLocation,
		&b.TotalDays, &b.DailyRate, &b.BaseAmount, &b.TaxAmount, &b.ExtrasAmount, &b.SecurityDeposit, &b.TotalAmount, &b.Status,
		&b.PaymentMethod, &b.PickupMileage, &b.ReturnMileage, &b.AdditionalCharges, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &b.LedgerStatus)
	if err != nil {
		return nil, err
	}
	b.ProjectPaymentStatus()
	b.Extras = []domain.BookingExtra{}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (customer_id, vehicle_id, pickup_date, return_date, pickup_location, return_location, total_days, daily_rate,
	          base_amount, tax_amount, extras_amount, security_deposit, total_amount, status, payment_method, additional_charges, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, b.CustomerID, b.VehicleID, b.PickupDate, b.ReturnDate, b.PickupLocation, b.ReturnLocation, b.TotalDays, b.DailyRate,
		b.BaseAmount, b.TaxAmount, b.ExtrasAmount, b.SecurityDeposit, b.TotalAmount, b.Status, b.PaymentMethod, b.AdditionalCharges, b.Notes, now, now).Scan(&b.ID)
	if err != nil {
		return mapError(err)
	}
	b.CreatedAt, b.UpdatedAt = now, now

	extraQuery := `INSERT INTO booking_extras (booking_id, extra_name, daily_cost, total_days, total_cost) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range b.Extras {
		e := &b.Extras[i]
		e.BookingID = b.ID
		if err := r.db.QueryRowContext(ctx, extraQuery, e.BookingID, e.ExtraName, e.DailyCost, e.TotalDays, e.TotalCost).Scan(&e.ID); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	if err := r.attachExtras(ctx, []*domain.Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.customer_id = $1 ORDER BY b.created_at DESC`, customerID)
}

func (r *bookingRepository) ListByAgent(ctx context.Context, agentID int32) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.agent_id = $1 ORDER BY b.created_at DESC`, agentID)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachExtras(ctx, ptrs); err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(ptrs))
	for _, b := range ptrs {
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

func (r *bookingRepository) attachExtras(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(bookings))
	byID := make(map[int32]*domain.Booking, len(bookings))
	for _, b := range bookings {
		ids = append(ids, int64(b.ID))
		byID[b.ID] = b
	}

	query := `SELECT id, booking_id, extra_name, daily_cost, total_days, total_cost FROM booking_extras WHERE booking_id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.BookingExtra
		if err := rows.Scan(&e.ID, &e.BookingID, &e.ExtraName, &e.DailyCost, &e.TotalDays, &e.TotalCost); err != nil {
			return err
		}
		if b, ok := byID[e.BookingID]; ok {
			b.Extras = append(b.Extras, e)
		}
	}
	return rows.Err()
}

func (r *bookingRepository) MarkPickedUp(ctx context.Context, id, agentID, mileage int32) error {
	query := `UPDATE bookings SET status = 'active', agent_id = $1, pickup_mileage = $2, updated_at = $3 WHERE id = $4 AND status = 'confirmed'`
	logger.DatabaseCall("MarkPickedUp", query, "booking_id", id)
	res, err := r.db.ExecContext(ctx, query, agentID, mileage, time.Now(), id)
	logger.DatabaseResult("MarkPickedUp", rowsAffected(res, err), err, "booking_id", id)
	return expectOne(res, err)
}

func (r *bookingRepository) MarkReturned(ctx context.Context, id, mileage int32, additionalCharges decimal.Decimal, notes string) error {
	query := `UPDATE bookings SET status = 'completed', return_mileage = $1, additional_charges = $2, notes = $3, updated_at = $4 WHERE id = $5 AND status = 'active'`
	logger.DatabaseCall("MarkReturned", query, "booking_id", id)
	res, err := r.db.ExecContext(ctx, query, mileage, additionalCharges, notes, time.Now(), id)
	logger.DatabaseResult("MarkReturned", rowsAffected(res, err), err, "booking_id", id)
	return expectOne(res, err)
}

func (r *bookingRepository) MarkCancelled(ctx context.Context, id int32) error {
	query := `UPDATE bookings SET status = 'cancelled', updated_at = $1 WHERE id = $2 AND status = 'confirmed'`
	logger.DatabaseCall("MarkCancelled", query, "booking_id", id)
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	logger.DatabaseResult("MarkCancelled", rowsAffected(res, err), err, "booking_id", id)
	return expectOne(res, err)
}

func (r *bookingRepository) Reconfirm(ctx context.Context, id int32) error {
	query := `UPDATE bookings SET status = 'confirmed', updated_at = $1 WHERE id = $2 AND status IN ('confirmed', 'overdue')`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	logger.DatabaseResult("Reconfirm", rowsAffected(res, err), err, "booking_id", id)
	return expectOne(res, err)
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	query, args, err := dialect.From("bookings").
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

	counts := make(map[domain.BookingStatus]int64)
	for rows.Next() {
		var status domain.BookingStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *bookingRepository) CompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	query, args, err := dialect.From("bookings").
		Select(goqu.COALESCE(goqu.SUM("total_amount"), 0)).
		Where(goqu.C("status").Eq(string(domain.BookingStatusCompleted))).
		Prepared(true).ToSQL()
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
