package postgres

import (
	"context"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/shopspring/decimal"
)

var paymentColumns = []any{
	"id", "booking_id", "payment_method", "amount", "tax", "security_deposit", "extras_total", "penalties", "status",
	"payment_date", "notes", "refund_amount", "refund_reason", "refund_notes", "refund_date", "created_at", "updated_at",
}

const paymentSelect = `SELECT id, booking_id, payment_method, amount, tax, security_deposit, extras_total, penalties, status,
	payment_date, notes, refund_amount, refund_reason, refund_notes, refund_date, created_at, updated_at FROM payments`

var paymentSortColumns = map[string]string{
	"payment_date": "payment_date",
	"amount":       "amount",
	"status":       "status",
	"created_at":   "created_at",
}

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(&p.ID, &p.BookingID, &p.PaymentMethod, &p.Amount, &p.Tax, &p.SecurityDeposit, &p.ExtrasTotal, &p.Penalties, &p.Status,
		&p.PaymentDate, &p.Notes, &p.RefundAmount, &p.RefundReason, &p.RefundNotes, &p.RefundDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (booking_id, payment_method, amount, tax, security_deposit, extras_total, penalties, status, payment_date, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, p.BookingID, p.PaymentMethod, p.Amount, p.Tax, p.SecurityDeposit, p.ExtrasTotal, p.Penalties, p.Status,
		p.PaymentDate, p.Notes, now, now).Scan(&p.ID)
	if err != nil {
		return mapError(err)
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, paymentSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, paymentSelect+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, paymentSelect+` WHERE booking_id = $1`, bookingID))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func paymentFilterExpressions(filter domain.PaymentFilter) []exp.Expression {
	var where []exp.Expression
	if filter.Status != "" {
		where = append(where, goqu.C("status").Eq(string(filter.Status)))
	}
	if filter.Method != "" {
		where = append(where, goqu.C("payment_method").Eq(string(filter.Method)))
	}
	if filter.From != nil {
		where = append(where, goqu.C("payment_date").Gte(*filter.From))
	}
	if filter.To != nil {
		where = append(where, goqu.C("payment_date").Lte(*filter.To))
	}
	return where
}

func (r *paymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, int64, error) {
	_, limit, offset := pageBounds(filter.Page, filter.Limit)
	where := paymentFilterExpressions(filter)

	countSQL, countArgs, err := dialect.From("payments").Select(goqu.COUNT("*")).Where(where...).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := paymentSortColumns[filter.SortBy]
	if !ok {
		sortCol = "payment_date"
	}
	order := goqu.I(sortCol).Desc()
	if filter.SortOrder == "asc" {
		order = goqu.I(sortCol).Asc()
	}

	query, args, err := dialect.From("payments").
		Select(paymentColumns...).
		Where(where...).
		Order(order).
		Limit(uint(limit)).
		Offset(offset).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}

	logger.DatabaseCall("ListPayments", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	err = rows.Err()
	logger.DatabaseResult("ListPayments", int64(len(payments)), err, "total", total)
	return payments, total, err
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id int32, status domain.PaymentRecordStatus, notes string) error {
	query := `UPDATE payments SET status = $1, notes = COALESCE(NULLIF($2, ''), notes), updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, status, notes, time.Now(), id)
	return expectOne(res, err)
}

func (r *paymentRepository) Settle(ctx context.Context, id int32, penalties decimal.Decimal) error {
	query := `UPDATE payments SET status = 'Paid', penalties = $1, payment_date = $2, updated_at = $2 WHERE id = $3 AND status IN ('Pending', 'Failed')`
	res, err := r.db.ExecContext(ctx, query, penalties, time.Now(), id)
	return expectOne(res, err)
}

func (r *paymentRepository) Refund(ctx context.Context, id int32, amount decimal.Decimal, reason, notes string, at time.Time) error {
	query := `UPDATE payments SET status = 'Refunded', refund_amount = $1, refund_reason = $2, refund_notes = $3, refund_date = $4, updated_at = $4
	          WHERE id = $5 AND status = 'Paid'`
	res, err := r.db.ExecContext(ctx, query, amount, reason, notes, at, id)
	return expectOne(res, err)
}

func (r *paymentRepository) Stats(ctx context.Context, from, to *time.Time) (*domain.PaymentStats, error) {
	where := paymentFilterExpressions(domain.PaymentFilter{From: from, To: to})
	stats := &domain.PaymentStats{
		ByStatus:     []domain.PaymentStatusTotal{},
		ByMethod:     []domain.PaymentMethodTotal{},
		TotalRevenue: decimal.Zero,
		TotalRefunds: decimal.Zero,
	}

	statusSQL, statusArgs, err := dialect.From("payments").
		Select(goqu.C("status"), goqu.COUNT("*"), goqu.COALESCE(goqu.SUM("amount"), 0)).
		Where(where...).
		GroupBy(goqu.C("status")).
		Order(goqu.C("status").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, statusSQL, statusArgs...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t domain.PaymentStatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.Amount); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TotalPayments += t.Count
		stats.ByStatus = append(stats.ByStatus, t)
	}
	rows.Close()

	methodSQL, methodArgs, err := dialect.From("payments").
		Select(goqu.C("payment_method"), goqu.COUNT("*"), goqu.COALESCE(goqu.SUM("amount"), 0)).
		Where(where...).
		GroupBy(goqu.C("payment_method")).
		Order(goqu.C("payment_method").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err = r.db.QueryContext(ctx, methodSQL, methodArgs...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t domain.PaymentMethodTotal
		if err := rows.Scan(&t.Method, &t.Count, &t.Amount); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByMethod = append(stats.ByMethod, t)
	}
	rows.Close()

	totalsSQL, totalsArgs, err := dialect.From("payments").
		Select(
			goqu.COALESCE(goqu.SUM(goqu.Case().When(goqu.C("status").Eq("Paid"), goqu.L("amount + tax + extras_total + penalties")).Else(0)), 0),
			goqu.COALESCE(goqu.SUM(goqu.Case().When(goqu.C("status").Eq("Refunded"), goqu.C("refund_amount")).Else(0)), 0),
		).
		Where(where...).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, totalsSQL, totalsArgs...).Scan(&stats.TotalRevenue, &stats.TotalRefunds); err != nil {
		return nil, err
	}
	stats.NetRevenue = stats.TotalRevenue.Sub(stats.TotalRefunds)
	return stats, nil
}

func (r *paymentRepository) Trend(ctx context.Context, from, to *time.Time, grain domain.TimeGrain) ([]domain.TrendPoint, error) {
	period := dateTrunc(grain, "payment_date")
	query, args, err := dialect.From("payments").
		Select(period.As("period"), goqu.COUNT("*"), goqu.COALESCE(goqu.SUM("amount"), 0), goqu.COALESCE(goqu.AVG("amount"), 0)).
		Where(paymentFilterExpressions(domain.PaymentFilter{From: from, To: to})...).
		GroupBy(period).
		Order(period.Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	points, err := queryTrend(ctx, r.db, query, args)
	logger.DatabaseResult("PaymentTrend", int64(len(points)), err, "group_by", grain)
	return points, err
}
