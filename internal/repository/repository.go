package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a delete would orphan dependent rows.
	ErrReferenced = errors.New("record is still referenced")
	// ErrStaleState is returned when a guarded update finds the row in an
	// unexpected state.
	ErrStaleState = errors.New("record is not in the expected state")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListActiveByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Customer, error)
	Exists(ctx context.Context, id int32) (bool, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, page, limit int32) ([]domain.Customer, int64, error)
	// Update writes the renter profile columns.
	Update(ctx context.Context, customer *domain.Customer) error
	// Delete removes the customer together with its user account.
	Delete(ctx context.Context, id int32) error
}

type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id int32) (*domain.Agent, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Agent, error)
	List(ctx context.Context) ([]domain.Agent, error)
	// Update writes the staff columns and the owning user's full name.
	Update(ctx context.Context, agent *domain.Agent) error
	// Delete removes the agent together with its user account.
	Delete(ctx context.Context, id int32) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.VehicleCategory) error
	GetByID(ctx context.Context, id int32) (*domain.VehicleCategory, error)
	List(ctx context.Context) ([]domain.VehicleCategory, error)
}

// VehicleRepository owns the vehicles table. Status is only written through
// ReserveForPickup, ReleaseOnReturn and SetServiceStatus.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error)
	UpdateDetails(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id int32) error

	// ReserveForPickup moves an available vehicle to rented.
	ReserveForPickup(ctx context.Context, id int32) error
	// ReleaseOnReturn moves a rented vehicle back to available and records
	// the odometer reading.
	ReleaseOnReturn(ctx context.Context, id int32, mileage int32) error
	// SetServiceStatus changes the status of a vehicle that is not rented.
	SetServiceStatus(ctx context.Context, id int32, status domain.VehicleStatus) error
	RecordService(ctx context.Context, id int32, mileage int32) error

	CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int64, error)
}

type BookingRepository interface {
	// Create inserts the booking and its extras.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// GetForUpdate loads the booking row and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id int32) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Booking, error)
	ListByAgent(ctx context.Context, agentID int32) ([]domain.Booking, error)

	MarkPickedUp(ctx context.Context, id, agentID, mileage int32) error
	MarkReturned(ctx context.Context, id, mileage int32, additionalCharges decimal.Decimal, notes string) error
	MarkCancelled(ctx context.Context, id int32) error
	Reconfirm(ctx context.Context, id int32) error

	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
	CompletedRevenue(ctx context.Context) (decimal.Decimal, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	GetForUpdate(ctx context.Context, id int32) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int32) (*domain.Payment, error)
	List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, int64, error)

	UpdateStatus(ctx context.Context, id int32, status domain.PaymentRecordStatus, notes string) error
	// Settle marks a pending or failed payment as paid and records penalties.
	Settle(ctx context.Context, id int32, penalties decimal.Decimal) error
	Refund(ctx context.Context, id int32, amount decimal.Decimal, reason, notes string, at time.Time) error

	Stats(ctx context.Context, from, to *time.Time) (*domain.PaymentStats, error)
	Trend(ctx context.Context, from, to *time.Time, grain domain.TimeGrain) ([]domain.TrendPoint, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, record *domain.MaintenanceRecord) error
	GetByID(ctx context.Context, id int32) (*domain.MaintenanceRecord, error)
	Update(ctx context.Context, record *domain.MaintenanceRecord) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error)
	ListByVehicle(ctx context.Context, vehicleID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error)
	ListByAgent(ctx context.Context, agentID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error)
	ListDue(ctx context.Context, dueBy time.Time, mileageThreshold int32) ([]domain.MaintenanceDue, error)
	// TotalsByType aggregates records serviced on or after since.
	TotalsByType(ctx context.Context, since time.Time) ([]domain.MaintenanceTypeTotal, error)
}

// AnalyticsRepository runs the read-only reporting queries. Booking windows
// are matched on created_at.
type AnalyticsRepository interface {
	// BookingTrend buckets bookings by grain. An empty statuses slice matches
	// every status.
	BookingTrend(ctx context.Context, r domain.DateRange, grain domain.TimeGrain, statuses []domain.BookingStatus) ([]domain.TrendPoint, error)
	RevenueByStatus(ctx context.Context, r domain.DateRange) ([]domain.StatusRevenue, error)
	TopVehicles(ctx context.Context, r domain.DateRange, limit uint) ([]domain.VehicleRevenue, error)
	// VehicleUtilization returns every vehicle with its active and completed
	// bookings in the window, including vehicles with none.
	VehicleUtilization(ctx context.Context, r domain.DateRange) ([]domain.VehicleUtilization, error)
	TopCustomers(ctx context.Context, r domain.DateRange, limit uint) ([]domain.CustomerActivity, error)
	CountActiveCustomers(ctx context.Context, r domain.DateRange) (int64, error)
	CountNewCustomers(ctx context.Context, r domain.DateRange) (int64, error)
	// CountRetainedCustomers counts customers who booked in both prev and cur.
	CountRetainedCustomers(ctx context.Context, prev, cur domain.DateRange) (int64, error)
}

// Repos bundles repositories that share one connection or transaction.
type Repos struct {
	Users       UserRepository
	Customers   CustomerRepository
	Agents      AgentRepository
	Vehicles    VehicleRepository
	Bookings    BookingRepository
	Payments    PaymentRepository
	Maintenance MaintenanceRepository
	Categories  CategoryRepository
	Analytics   AnalyticsRepository
}

// Transactor runs fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
