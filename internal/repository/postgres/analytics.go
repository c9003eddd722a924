package postgres

import (
	"context"
	"fmt"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// revenueStatuses are the booking states that count as earned revenue.
var revenueStatuses = []string{string(domain.BookingStatusActive), string(domain.BookingStatusCompleted)}

// dateTrunc buckets column by grain. The grain is a closed enum, so it is
// inlined rather than bound.
func dateTrunc(grain domain.TimeGrain, column string) exp.LiteralExpression {
	grain = domain.ParseTimeGrain(string(grain), domain.GrainDay)
	return goqu.L(fmt.Sprintf("DATE_TRUNC('%s', %s)", grain, column))
}

func queryTrend(ctx context.Context, db DBTX, query string, args []any) ([]domain.TrendPoint, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []domain.TrendPoint{}
	for rows.Next() {
		var p domain.TrendPoint
		if err := rows.Scan(&p.Period, &p.Count, &p.Total, &p.Average); err != nil {
			return nil, err
		}
		p.Average = p.Average.Round(2)
		points = append(points, p)
	}
	return points, rows.Err()
}

type analyticsRepository struct {
	db DBTX
}

func NewAnalyticsRepository(db DBTX) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func createdWithin(column string, r domain.DateRange) exp.Expression {
	return goqu.I(column).Between(goqu.Range(r.From, r.To))
}

func (r *analyticsRepository) count(ctx context.Context, op string, ds *goqu.SelectDataset) (int64, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	logger.DatabaseResult(op, n, err)
	return n, err
}

func (r *analyticsRepository) BookingTrend(ctx context.Context, rng domain.DateRange, grain domain.TimeGrain, statuses []domain.BookingStatus) ([]domain.TrendPoint, error) {
	period := dateTrunc(grain, "created_at")
	ds := dialect.From("bookings").
		Select(period.As("period"), goqu.COUNT("*"), goqu.COALESCE(goqu.SUM("total_amount"), 0), goqu.COALESCE(goqu.AVG("total_amount"), 0)).
		Where(createdWithin("created_at", rng))
	if len(statuses) > 0 {
		in := make([]string, len(statuses))
		for i, s := range statuses {
			in[i] = string(s)
		}
		ds = ds.Where(goqu.C("status").In(in))
	}
	query, args, err := ds.GroupBy(period).Order(period.Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	points, err := queryTrend(ctx, r.db, query, args)
	logger.DatabaseResult("BookingTrend", int64(len(points)), err, "group_by", grain)
	return points, err
}

func (r *analyticsRepository) RevenueByStatus(ctx context.Context, rng domain.DateRange) ([]domain.StatusRevenue, error) {
	query, args, err := dialect.From("bookings").
		Select(goqu.C("status"), goqu.COUNT("*"), goqu.COALESCE(goqu.SUM("total_amount"), 0)).
		Where(createdWithin("created_at", rng)).
		GroupBy(goqu.C("status")).
		Order(goqu.C("status").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []domain.StatusRevenue{}
	for rows.Next() {
		var t domain.StatusRevenue
		if err := rows.Scan(&t.Status, &t.Count, &t.Revenue); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *analyticsRepository) TopVehicles(ctx context.Context, rng domain.DateRange, limit uint) ([]domain.VehicleRevenue, error) {
	revenue := goqu.COALESCE(goqu.SUM(goqu.I("b.total_amount")), 0)
	query, args, err := dialect.From(goqu.T("bookings").As("b")).
		Join(goqu.T("vehicles").As("v"), goqu.On(goqu.I("v.id").Eq(goqu.I("b.vehicle_id")))).
		Select(goqu.I("v.id"), goqu.I("v.vehicle_number"), goqu.I("v.make"), goqu.I("v.model"), revenue, goqu.COUNT(goqu.I("b.id"))).
		Where(createdWithin("b.created_at", rng), goqu.I("b.status").In(revenueStatuses)).
		GroupBy(goqu.I("v.id"), goqu.I("v.vehicle_number"), goqu.I("v.make"), goqu.I("v.model")).
		Order(revenue.Desc(), goqu.I("v.id").Asc()).
		Limit(limit).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []domain.VehicleRevenue{}
	for rows.Next() {
		var v domain.VehicleRevenue
		if err := rows.Scan(&v.VehicleID, &v.VehicleNumber, &v.Make, &v.Model, &v.Revenue, &v.BookingCount); err != nil {
			return nil, err
		}
		top = append(top, v)
	}
	return top, rows.Err()
}

func (r *analyticsRepository) VehicleUtilization(ctx context.Context, rng domain.DateRange) ([]domain.VehicleUtilization, error) {
	query, args, err := dialect.From(goqu.T("vehicles").As("v")).
		LeftJoin(goqu.T("bookings").As("b"), goqu.On(
			goqu.I("b.vehicle_id").Eq(goqu.I("v.id")),
			createdWithin("b.created_at", rng),
			goqu.I("b.status").In(revenueStatuses),
		)).
		Select(
			goqu.I("v.id"), goqu.I("v.vehicle_number"), goqu.I("v.make"), goqu.I("v.model"), goqu.I("v.status"), goqu.I("v.daily_rate"),
			goqu.I("v.current_mileage"), goqu.COALESCE(goqu.SUM(goqu.I("b.total_days")), 0), goqu.COALESCE(goqu.SUM(goqu.I("b.total_amount")), 0),
			goqu.COUNT(goqu.I("b.id")),
		).
		GroupBy(goqu.I("v.id")).
		Order(goqu.I("v.id").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []domain.VehicleUtilization{}
	for rows.Next() {
		var v domain.VehicleUtilization
		if err := rows.Scan(&v.VehicleID, &v.VehicleNumber, &v.Make, &v.Model, &v.Status, &v.DailyRate,
			&v.CurrentMileage, &v.RentedDays, &v.Revenue, &v.BookingCount); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	err = rows.Err()
	logger.DatabaseResult("VehicleUtilization", int64(len(vehicles)), err)
	return vehicles, err
}

func (r *analyticsRepository) TopCustomers(ctx context.Context, rng domain.DateRange, limit uint) ([]domain.CustomerActivity, error) {
	spent := goqu.COALESCE(goqu.SUM(goqu.I("b.total_amount")), 0)
	query, args, err := dialect.From(goqu.T("bookings").As("b")).
		Join(goqu.T("customers").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.customer_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.user_id")))).
		Select(goqu.I("c.id"), goqu.I("u.full_name"), goqu.I("u.email"), goqu.COUNT(goqu.I("b.id")), spent,
			goqu.COALESCE(goqu.AVG(goqu.I("b.total_amount")), 0)).
		Where(createdWithin("b.created_at", rng)).
		GroupBy(goqu.I("c.id"), goqu.I("u.full_name"), goqu.I("u.email")).
		Order(spent.Desc(), goqu.I("c.id").Asc()).
		Limit(limit).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []domain.CustomerActivity{}
	for rows.Next() {
		var c domain.CustomerActivity
		if err := rows.Scan(&c.CustomerID, &c.FullName, &c.Email, &c.BookingCount, &c.TotalSpent, &c.AverageBookingValue); err != nil {
			return nil, err
		}
		c.AverageBookingValue = c.AverageBookingValue.Round(2)
		top = append(top, c)
	}
	return top, rows.Err()
}

func (r *analyticsRepository) CountActiveCustomers(ctx context.Context, rng domain.DateRange) (int64, error) {
	return r.count(ctx, "CountActiveCustomers", dialect.From("bookings").
		Select(goqu.COUNT(goqu.DISTINCT("customer_id"))).
		Where(createdWithin("created_at", rng)))
}

func (r *analyticsRepository) CountNewCustomers(ctx context.Context, rng domain.DateRange) (int64, error) {
	return r.count(ctx, "CountNewCustomers", dialect.From("customers").
		Select(goqu.COUNT("*")).
		Where(createdWithin("created_at", rng)))
}

func (r *analyticsRepository) CountRetainedCustomers(ctx context.Context, prev, cur domain.DateRange) (int64, error) {
	earlier := dialect.From("bookings").
		Select(goqu.C("customer_id")).
		Where(createdWithin("created_at", prev))
	return r.count(ctx, "CountRetainedCustomers", dialect.From("bookings").
		Select(goqu.COUNT(goqu.DISTINCT("customer_id"))).
		Where(createdWithin("created_at", cur), goqu.C("customer_id").In(earlier)))
}
