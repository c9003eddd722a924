package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var dialect = goqu.Dialect("postgres")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CustomerRepository
	repository.AgentRepository
	repository.VehicleRepository
	repository.BookingRepository
	repository.PaymentRepository
	repository.MaintenanceRepository
	repository.CategoryRepository
	repository.AnalyticsRepository
}

func NewStore(db *sql.DB) *Store {
	r := newRepos(db)
	return &Store{
		db:                    db,
		UserRepository:        r.Users,
		CustomerRepository:    r.Customers,
		AgentRepository:       r.Agents,
		VehicleRepository:     r.Vehicles,
		BookingRepository:     r.Bookings,
		PaymentRepository:     r.Payments,
		MaintenanceRepository: r.Maintenance,
		CategoryRepository:    r.Categories,
		AnalyticsRepository:   r.Analytics,
	}
}

func newRepos(db DBTX) repository.Repos {
	return repository.Repos{
		Users:       NewUserRepository(db),
		Customers:   NewCustomerRepository(db),
		Agents:      NewAgentRepository(db),
		Vehicles:    NewVehicleRepository(db),
		Bookings:    NewBookingRepository(db),
		Payments:    NewPaymentRepository(db),
		Maintenance: NewMaintenanceRepository(db),
		Categories:  NewCategoryRepository(db),
		Analytics:   NewAnalyticsRepository(db),
	}
}

// Repos returns repositories bound to the connection pool.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:       s.UserRepository,
		Customers:   s.CustomerRepository,
		Agents:      s.AgentRepository,
		Vehicles:    s.VehicleRepository,
		Bookings:    s.BookingRepository,
		Payments:    s.PaymentRepository,
		Maintenance: s.MaintenanceRepository,
		Categories:  s.CategoryRepository,
		Analytics:   s.AnalyticsRepository,
	}
}

// WithinTx runs fn in a read-committed transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrReferenced, pqErr.Constraint)
		}
	}
	return err
}

// expectOne turns a zero-row guarded update into ErrStaleState.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrStaleState
	}
	return nil
}

// rowsAffected reads the affected row count of a successful exec, 0 otherwise.
func rowsAffected(res sql.Result, err error) int64 {
	if err != nil || res == nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}

// pageBounds normalises page and limit and returns the row offset.
func pageBounds(page, limit int32) (int32, int32, uint) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, uint((page - 1) * limit)
}
