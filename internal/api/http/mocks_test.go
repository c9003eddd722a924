package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/security"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type MockTokenManager struct{ mock.Mock }

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

type MockUserGetter struct{ mock.Mock }

func (m *MockUserGetter) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID int32) (*service.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) booking(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input service.CreateBookingInput) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, input))
}

func (m *MockBookingService) GetBooking(ctx context.Context, id int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id))
}

func (m *MockBookingService) PickupBooking(ctx context.Context, id, agentID int32, pickupMileage *int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, agentID, pickupMileage))
}

func (m *MockBookingService) ReturnBooking(ctx context.Context, id int32, input service.ReturnBookingInput) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, input))
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id))
}

func (m *MockBookingService) ListCustomerBookings(ctx context.Context, customerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	bookings, _ := args.Get(0).([]domain.Booking)
	return bookings, args.Error(1)
}

func (m *MockBookingService) ListAgentBookings(ctx context.Context, agentID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, agentID)
	bookings, _ := args.Get(0).([]domain.Booking)
	return bookings, args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) payment(args mock.Arguments) (*domain.Payment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, input service.CreatePaymentInput) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, input))
}

func (m *MockPaymentService) GetPayment(ctx context.Context, id int32) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, id))
}

func (m *MockPaymentService) GetPaymentByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, bookingID))
}

func (m *MockPaymentService) ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, domain.Pagination, error) {
	args := m.Called(ctx, filter)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *MockPaymentService) UpdatePaymentStatus(ctx context.Context, id int32, status domain.PaymentRecordStatus, notes string) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, id, status, notes))
}

func (m *MockPaymentService) IssueRefund(ctx context.Context, id int32, input service.RefundInput) (*domain.Payment, error) {
	return m.payment(m.Called(ctx, id, input))
}

func (m *MockPaymentService) GetPaymentStats(ctx context.Context, from, to *time.Time) (*domain.PaymentStats, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentStats), args.Error(1)
}

func (m *MockPaymentService) GetPaymentAnalytics(ctx context.Context, from, to *time.Time, grain domain.TimeGrain) (*domain.PaymentAnalytics, error) {
	args := m.Called(ctx, from, to, grain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAnalytics), args.Error(1)
}

type MockVehicleService struct{ mock.Mock }

func (m *MockVehicleService) vehicle(args mock.Arguments) (*domain.Vehicle, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicle))
}

func (m *MockVehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, id))
}

func (m *MockVehicleService) ListVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	args := m.Called(ctx, filter)
	vehicles, _ := args.Get(0).([]domain.Vehicle)
	return vehicles, args.Error(1)
}

func (m *MockVehicleService) UpdateVehicle(ctx context.Context, id int32, input service.UpdateVehicleInput) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, id, input))
}

func (m *MockVehicleService) ChangeVehicleStatus(ctx context.Context, id int32, status domain.VehicleStatus) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, id, status))
}

func (m *MockVehicleService) DeleteVehicle(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

type MockMaintenanceService struct{ mock.Mock }

func (m *MockMaintenanceService) RecordMaintenance(ctx context.Context, userID int32, input service.MaintenanceInput) (*domain.MaintenanceRecord, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceRecord), args.Error(1)
}

func (m *MockMaintenanceService) ListVehicleMaintenance(ctx context.Context, vehicleID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error) {
	args := m.Called(ctx, vehicleID, filter)
	records, _ := args.Get(0).([]domain.MaintenanceRecord)
	return records, args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *MockMaintenanceService) UpcomingMaintenance(ctx context.Context) ([]domain.MaintenanceDue, error) {
	args := m.Called(ctx)
	due, _ := args.Get(0).([]domain.MaintenanceDue)
	return due, args.Error(1)
}

func (m *MockMaintenanceService) record(args mock.Arguments) (*domain.MaintenanceRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceRecord), args.Error(1)
}

func (m *MockMaintenanceService) GetMaintenance(ctx context.Context, id int32) (*domain.MaintenanceRecord, error) {
	return m.record(m.Called(ctx, id))
}

func (m *MockMaintenanceService) UpdateMaintenance(ctx context.Context, userID, id int32, input service.UpdateMaintenanceInput) (*domain.MaintenanceRecord, error) {
	return m.record(m.Called(ctx, userID, id, input))
}

func (m *MockMaintenanceService) DeleteMaintenance(ctx context.Context, userID, id int32) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockMaintenanceService) ListMaintenance(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]domain.MaintenanceRecord)
	return records, args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *MockMaintenanceService) ListAgentMaintenance(ctx context.Context, userID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error) {
	args := m.Called(ctx, userID, filter)
	records, _ := args.Get(0).([]domain.MaintenanceRecord)
	return records, args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *MockMaintenanceService) MaintenanceStats(ctx context.Context, periodDays int32) (*domain.MaintenanceStats, error) {
	args := m.Called(ctx, periodDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceStats), args.Error(1)
}

type MockCustomerService struct{ mock.Mock }

func (m *MockCustomerService) GetCustomer(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, page, limit int32) ([]domain.Customer, domain.Pagination, error) {
	args := m.Called(ctx, page, limit)
	customers, _ := args.Get(0).([]domain.Customer)
	return customers, args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, actor service.Actor, id int32, input service.UpdateCustomerInput) (*domain.Customer, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, actor service.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockAgentService struct{ mock.Mock }

func (m *MockAgentService) agent(args mock.Arguments) (*domain.Agent, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockAgentService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	args := m.Called(ctx)
	agents, _ := args.Get(0).([]domain.Agent)
	return agents, args.Error(1)
}

func (m *MockAgentService) GetAgent(ctx context.Context, id int32) (*domain.Agent, error) {
	return m.agent(m.Called(ctx, id))
}

func (m *MockAgentService) UpdateAgent(ctx context.Context, actor service.Actor, id int32, input service.UpdateAgentInput) (*domain.Agent, error) {
	return m.agent(m.Called(ctx, actor, id, input))
}

func (m *MockAgentService) DeleteAgent(ctx context.Context, actor service.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) category(args mock.Arguments) (*domain.VehicleCategory, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCategory), args.Error(1)
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, input service.CategoryInput) (*domain.VehicleCategory, error) {
	return m.category(m.Called(ctx, input))
}

func (m *MockCategoryService) GetCategory(ctx context.Context, id int32) (*domain.VehicleCategory, error) {
	return m.category(m.Called(ctx, id))
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]domain.VehicleCategory, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]domain.VehicleCategory)
	return categories, args.Error(1)
}

type MockAnalyticsService struct{ mock.Mock }

func (m *MockAnalyticsService) GetOverview(ctx context.Context) (*domain.Overview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Overview), args.Error(1)
}

func (m *MockAnalyticsService) BookingAnalytics(ctx context.Context, q service.AnalyticsQuery) (*domain.BookingAnalytics, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingAnalytics), args.Error(1)
}

func (m *MockAnalyticsService) RevenueAnalytics(ctx context.Context, q service.AnalyticsQuery) (*domain.RevenueAnalytics, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueAnalytics), args.Error(1)
}

func (m *MockAnalyticsService) VehicleUtilization(ctx context.Context, q service.AnalyticsQuery) (*domain.UtilizationReport, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UtilizationReport), args.Error(1)
}

func (m *MockAnalyticsService) CustomerAnalytics(ctx context.Context, q service.AnalyticsQuery) (*domain.CustomerAnalytics, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerAnalytics), args.Error(1)
}

func (m *MockAnalyticsService) PerformanceMetrics(ctx context.Context, periodDays int32) (*domain.PerformanceMetrics, error) {
	args := m.Called(ctx, periodDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PerformanceMetrics), args.Error(1)
}

type MockPinger struct{ mock.Mock }

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
