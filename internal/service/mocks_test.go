package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/security"
)

// mockRepos bundles one mock per repository.
type mockRepos struct {
	users       *MockUserRepo
	customers   *MockCustomerRepo
	agents      *MockAgentRepo
	vehicles    *MockVehicleRepo
	bookings    *MockBookingRepo
	payments    *MockPaymentRepo
	maintenance *MockMaintenanceRepo
	categories  *MockCategoryRepo
	analytics   *MockAnalyticsRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		users:       new(MockUserRepo),
		customers:   new(MockCustomerRepo),
		agents:      new(MockAgentRepo),
		vehicles:    new(MockVehicleRepo),
		bookings:    new(MockBookingRepo),
		payments:    new(MockPaymentRepo),
		maintenance: new(MockMaintenanceRepo),
		categories:  new(MockCategoryRepo),
		analytics:   new(MockAnalyticsRepo),
	}
}

func (m *mockRepos) repos() repository.Repos {
	return repository.Repos{
		Users:       m.users,
		Customers:   m.customers,
		Agents:      m.agents,
		Vehicles:    m.vehicles,
		Bookings:    m.bookings,
		Payments:    m.payments,
		Maintenance: m.maintenance,
		Categories:  m.categories,
		Analytics:   m.analytics,
	}
}

func (m *mockRepos) assertExpectations(t mock.TestingT) {
	m.users.AssertExpectations(t)
	m.customers.AssertExpectations(t)
	m.agents.AssertExpectations(t)
	m.vehicles.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.maintenance.AssertExpectations(t)
	m.categories.AssertExpectations(t)
	m.analytics.AssertExpectations(t)
}

// fakeTx runs fn against the mock repositories and counts calls.
type fakeTx struct {
	repos repository.Repos
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	f.calls++
	return fn(ctx, f.repos)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListActiveByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Exists(ctx context.Context, id int32) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockCustomerRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCustomerRepo) List(ctx context.Context, page, limit int32) ([]domain.Customer, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]domain.Customer), args.Get(1).(int64), args.Error(2)
}
func (m *MockCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAgentRepo
type MockAgentRepo struct {
	mock.Mock
}

func (m *MockAgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}
func (m *MockAgentRepo) GetByID(ctx context.Context, id int32) (*domain.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}
func (m *MockAgentRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Agent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}
func (m *MockAgentRepo) List(ctx context.Context) ([]domain.Agent, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Agent), args.Error(1)
}
func (m *MockAgentRepo) Update(ctx context.Context, agent *domain.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}
func (m *MockAgentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) UpdateDetails(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVehicleRepo) ReserveForPickup(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVehicleRepo) ReleaseOnReturn(ctx context.Context, id int32, mileage int32) error {
	args := m.Called(ctx, id, mileage)
	return args.Error(0)
}
func (m *MockVehicleRepo) SetServiceStatus(ctx context.Context, id int32, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockVehicleRepo) RecordService(ctx context.Context, id int32, mileage int32) error {
	args := m.Called(ctx, id, mileage)
	return args.Error(0)
}
func (m *MockVehicleRepo) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.VehicleStatus]int64), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByAgent(ctx context.Context, agentID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) MarkPickedUp(ctx context.Context, id, agentID, mileage int32) error {
	args := m.Called(ctx, id, agentID, mileage)
	return args.Error(0)
}
func (m *MockBookingRepo) MarkReturned(ctx context.Context, id, mileage int32, additionalCharges decimal.Decimal, notes string) error {
	args := m.Called(ctx, id, mileage, additionalCharges, notes)
	return args.Error(0)
}
func (m *MockBookingRepo) MarkCancelled(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) Reconfirm(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.BookingStatus]int64), args.Error(1)
}
func (m *MockBookingRepo) CompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Payment), args.Get(1).(int64), args.Error(2)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id int32, status domain.PaymentRecordStatus, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}
func (m *MockPaymentRepo) Settle(ctx context.Context, id int32, penalties decimal.Decimal) error {
	args := m.Called(ctx, id, penalties)
	return args.Error(0)
}
func (m *MockPaymentRepo) Refund(ctx context.Context, id int32, amount decimal.Decimal, reason, notes string, at time.Time) error {
	args := m.Called(ctx, id, amount, reason, notes, at)
	return args.Error(0)
}
func (m *MockPaymentRepo) Stats(ctx context.Context, from, to *time.Time) (*domain.PaymentStats, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentStats), args.Error(1)
}
func (m *MockPaymentRepo) Trend(ctx context.Context, from, to *time.Time, grain domain.TimeGrain) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, from, to, grain)
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

// MockMaintenanceRepo
type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) Create(ctx context.Context, record *domain.MaintenanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error) {
	args := m.Called(ctx, vehicleID, filter)
	return args.Get(0).([]domain.MaintenanceRecord), args.Get(1).(int64), args.Error(2)
}
func (m *MockMaintenanceRepo) ListDue(ctx context.Context, dueBy time.Time, mileageThreshold int32) ([]domain.MaintenanceDue, error) {
	args := m.Called(ctx, dueBy, mileageThreshold)
	return args.Get(0).([]domain.MaintenanceDue), args.Error(1)
}
func (m *MockMaintenanceRepo) List(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.MaintenanceRecord), args.Get(1).(int64), args.Error(2)
}
func (m *MockMaintenanceRepo) GetByID(ctx context.Context, id int32) (*domain.MaintenanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceRecord), args.Error(1)
}
func (m *MockMaintenanceRepo) Update(ctx context.Context, record *domain.MaintenanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) ListByAgent(ctx context.Context, agentID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, int64, error) {
	args := m.Called(ctx, agentID, filter)
	return args.Get(0).([]domain.MaintenanceRecord), args.Get(1).(int64), args.Error(2)
}
func (m *MockMaintenanceRepo) TotalsByType(ctx context.Context, since time.Time) ([]domain.MaintenanceTypeTotal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.MaintenanceTypeTotal), args.Error(1)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, category *domain.VehicleCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}
func (m *MockCategoryRepo) GetByID(ctx context.Context, id int32) (*domain.VehicleCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCategory), args.Error(1)
}
func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.VehicleCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VehicleCategory), args.Error(1)
}

// MockAnalyticsRepo
type MockAnalyticsRepo struct {
	mock.Mock
}

func (m *MockAnalyticsRepo) BookingTrend(ctx context.Context, r domain.DateRange, grain domain.TimeGrain, statuses []domain.BookingStatus) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, r, grain, statuses)
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}
func (m *MockAnalyticsRepo) RevenueByStatus(ctx context.Context, r domain.DateRange) ([]domain.StatusRevenue, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]domain.StatusRevenue), args.Error(1)
}
func (m *MockAnalyticsRepo) TopVehicles(ctx context.Context, r domain.DateRange, limit uint) ([]domain.VehicleRevenue, error) {
	args := m.Called(ctx, r, limit)
	return args.Get(0).([]domain.VehicleRevenue), args.Error(1)
}
func (m *MockAnalyticsRepo) VehicleUtilization(ctx context.Context, r domain.DateRange) ([]domain.VehicleUtilization, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]domain.VehicleUtilization), args.Error(1)
}
func (m *MockAnalyticsRepo) TopCustomers(ctx context.Context, r domain.DateRange, limit uint) ([]domain.CustomerActivity, error) {
	args := m.Called(ctx, r, limit)
	return args.Get(0).([]domain.CustomerActivity), args.Error(1)
}
func (m *MockAnalyticsRepo) CountActiveCustomers(ctx context.Context, r domain.DateRange) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAnalyticsRepo) CountNewCustomers(ctx context.Context, r domain.DateRange) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAnalyticsRepo) CountRetainedCustomers(ctx context.Context, prev, cur domain.DateRange) (int64, error) {
	args := m.Called(ctx, prev, cur)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	args := m.Called(ctx, customer, booking)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancellation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	args := m.Called(ctx, customer, booking)
	return args.Error(0)
}
func (m *MockEmailService) SendMaintenanceDigest(ctx context.Context, to []string, due []domain.MaintenanceDue) error {
	args := m.Called(ctx, to, due)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data any) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID int32, email string, role domain.Role) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(token string) (*security.UserClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}
