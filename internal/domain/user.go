package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the user type carried in access tokens.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int32     `json:"id"`
	Role         Role      `json:"user_type"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Customer is the renter profile attached to a customer user.
type Customer struct {
	ID                    int32     `json:"id"`
	UserID                int32     `json:"user_id"`
	DateOfBirth           time.Time `json:"date_of_birth"`
	Address               string    `json:"address"`
	DrivingLicenseNumber  string    `json:"driving_license_number"`
	LicenseExpiryDate     time.Time `json:"license_expiry_date"`
	EmergencyContactName  string    `json:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergency_contact_phone"`
	CreatedAt             time.Time `json:"created_at"`

	// Populated from the owning user.
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type AgentRole string

const (
	AgentRoleManager     AgentRole = "manager"
	AgentRoleSupervisor  AgentRole = "supervisor"
	AgentRoleAgent       AgentRole = "agent"
	AgentRoleSeniorAgent AgentRole = "senior_agent"
)

// Agent is the staff profile attached to an agent user.
type Agent struct {
	ID             int32           `json:"id"`
	UserID         int32           `json:"user_id"`
	EmployeeID     string          `json:"employee_id"`
	BranchLocation string          `json:"branch_location"`
	Role           AgentRole       `json:"role"`
	HireDate       time.Time       `json:"hire_date"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`

	FullName string `json:"full_name,omitempty"`
}
