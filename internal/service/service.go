package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"
)

type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int32) (*domain.Booking, error)
	PickupBooking(ctx context.Context, id, agentID int32, pickupMileage *int32) (*domain.Booking, error)
	ReturnBooking(ctx context.Context, id int32, input ReturnBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int32) (*domain.Booking, error)
	ListCustomerBookings(ctx context.Context, customerID int32) ([]domain.Booking, error)
	ListAgentBookings(ctx context.Context, agentID int32) ([]domain.Booking, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int32) (*domain.Payment, error)
	GetPaymentByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error)
	ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, domain.Pagination, error)
	UpdatePaymentStatus(ctx context.Context, id int32, status domain.PaymentRecordStatus, notes string) (*domain.Payment, error)
	IssueRefund(ctx context.Context, id int32, input RefundInput) (*domain.Payment, error)
	GetPaymentStats(ctx context.Context, from, to *time.Time) (*domain.PaymentStats, error)
	GetPaymentAnalytics(ctx context.Context, from, to *time.Time, grain domain.TimeGrain) (*domain.PaymentAnalytics, error)
}

type VehicleService interface {
	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, id int32, input UpdateVehicleInput) (*domain.Vehicle, error)
	ChangeVehicleStatus(ctx context.Context, id int32, status domain.VehicleStatus) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int32) error
}

type CategoryService interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*domain.VehicleCategory, error)
	GetCategory(ctx context.Context, id int32) (*domain.VehicleCategory, error)
	ListCategories(ctx context.Context) ([]domain.VehicleCategory, error)
}

type CustomerService interface {
	GetCustomer(ctx context.Context, id int32) (*domain.Customer, error)
	ListCustomers(ctx context.Context, page, limit int32) ([]domain.Customer, domain.Pagination, error)
	UpdateCustomer(ctx context.Context, actor Actor, id int32, input UpdateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, actor Actor, id int32) error
}

type AgentService interface {
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	GetAgent(ctx context.Context, id int32) (*domain.Agent, error)
	UpdateAgent(ctx context.Context, actor Actor, id int32, input UpdateAgentInput) (*domain.Agent, error)
	DeleteAgent(ctx context.Context, actor Actor, id int32) error
}

type MaintenanceService interface {
	RecordMaintenance(ctx context.Context, userID int32, input MaintenanceInput) (*domain.MaintenanceRecord, error)
	GetMaintenance(ctx context.Context, id int32) (*domain.MaintenanceRecord, error)
	UpdateMaintenance(ctx context.Context, userID, id int32, input UpdateMaintenanceInput) (*domain.MaintenanceRecord, error)
	DeleteMaintenance(ctx context.Context, userID, id int32) error
	ListVehicleMaintenance(ctx context.Context, vehicleID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error)
	ListMaintenance(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error)
	ListAgentMaintenance(ctx context.Context, userID int32, filter domain.MaintenanceFilter) ([]domain.MaintenanceRecord, domain.Pagination, error)
	UpcomingMaintenance(ctx context.Context) ([]domain.MaintenanceDue, error)
	MaintenanceStats(ctx context.Context, periodDays int32) (*domain.MaintenanceStats, error)
}

type AnalyticsService interface {
	GetOverview(ctx context.Context) (*domain.Overview, error)
	BookingAnalytics(ctx context.Context, query AnalyticsQuery) (*domain.BookingAnalytics, error)
	RevenueAnalytics(ctx context.Context, query AnalyticsQuery) (*domain.RevenueAnalytics, error)
	VehicleUtilization(ctx context.Context, query AnalyticsQuery) (*domain.UtilizationReport, error)
	CustomerAnalytics(ctx context.Context, query AnalyticsQuery) (*domain.CustomerAnalytics, error)
	PerformanceMetrics(ctx context.Context, periodDays int32) (*domain.PerformanceMetrics, error)
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetProfile(ctx context.Context, userID int32) (*Profile, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error
	SendBookingCancellation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error
	SendMaintenanceDigest(ctx context.Context, to []string, due []domain.MaintenanceDue) error
}

// CreateBookingInput carries a reservation request. Dates are already parsed.
type CreateBookingInput struct {
	CustomerID     int32
	VehicleID      int32
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupLocation string
	ReturnLocation string
	PaymentMethod  string
	Extras         []utils.ExtraInput
}

// ReturnBookingInput carries the optional values recorded at return.
type ReturnBookingInput struct {
	ReturnMileage     *int32
	AdditionalCharges *decimal.Decimal
	Notes             *string
}

type CreatePaymentInput struct {
	BookingID     int32
	PaymentMethod domain.PaymentMethod
	PaymentDate   *time.Time
	Notes         string
}

type RefundInput struct {
	Amount decimal.Decimal
	Reason string
	Notes  string
}

type UpdateVehicleInput struct {
	DailyRate          *decimal.Decimal
	Location           *string
	CurrentMileage     *int32
	LastServiceMileage *int32
	CategoryID         *int32
}

// UpdateMaintenanceInput changes only the fields that are set.
type UpdateMaintenanceInput struct {
	MaintenanceType       *domain.MaintenanceType
	Description           *string
	ServiceDate           *time.Time
	MileageAtService      *int32
	Cost                  *decimal.Decimal
	ServiceProvider       *string
	NextServiceDueMileage *int32
	NextServiceDueDate    *time.Time
}

type MaintenanceInput struct {
	VehicleID             int32
	MaintenanceType       domain.MaintenanceType
	Description           string
	ServiceDate           time.Time
	MileageAtService      *int32
	Cost                  decimal.Decimal
	ServiceProvider       string
	NextServiceDueMileage *int32
	NextServiceDueDate    *time.Time
}

// RegisterInput carries a sign-up. Customer and agent fields apply to their role only.
type RegisterInput struct {
	Role     domain.Role
	Email    string
	Password string
	FullName string
	Phone    string

	// Customer profile
	DateOfBirth           *time.Time
	Address               string
	DrivingLicenseNumber  string
	LicenseExpiryDate     *time.Time
	EmergencyContactName  string
	EmergencyContactPhone string

	// Agent profile
	EmployeeID     string
	BranchLocation string
	AgentRole      domain.AgentRole
	HireDate       *time.Time
	CommissionRate *decimal.Decimal
}

// Profile is a user with the role-specific record attached.
type Profile struct {
	User     *domain.User     `json:"user"`
	Customer *domain.Customer `json:"customer,omitempty"`
	Agent    *domain.Agent    `json:"agent,omitempty"`
}

// Actor is the authenticated caller of an operation guarded by ownership.
type Actor struct {
	UserID int32
	Role   domain.Role
}

type CategoryInput struct {
	Name          string
	Description   string
	BaseDailyRate decimal.Decimal
}

// UpdateCustomerInput changes only the fields that are set.
type UpdateCustomerInput struct {
	DateOfBirth           *time.Time
	Address               *string
	DrivingLicenseNumber  *string
	LicenseExpiryDate     *time.Time
	EmergencyContactName  *string
	EmergencyContactPhone *string
}

// UpdateAgentInput changes only the fields that are set.
type UpdateAgentInput struct {
	EmployeeID     *string
	BranchLocation *string
	Role           *domain.AgentRole
	HireDate       *time.Time
	CommissionRate *decimal.Decimal
	FullName       *string
}

// AnalyticsQuery selects a reporting window. From and To win over Days when
// both are set. GroupBy, Status, SortBy and Order apply to the reports that
// use them.
type AnalyticsQuery struct {
	Days    int32
	From    *time.Time
	To      *time.Time
	GroupBy domain.TimeGrain
	Status  domain.BookingStatus
	SortBy  string
	Order   string
}
