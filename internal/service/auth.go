package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/security"
)

const (
	minRenterAge = 18
	maxRenterAge = 80
)

var (
	fullNamePattern   = regexp.MustCompile(`^[A-Za-z\s]{2,100}$`)
	employeeIDPattern = regexp.MustCompile(`^[A-Z]{2,3}[0-9]{4,6}$`)
	phonePattern      = regexp.MustCompile(`^[0-9]{10}$`)

	disposableDomains = map[string]struct{}{
		"mailinator.com":   {},
		"tempmail.com":     {},
		"10minutemail.com": {},
	}

	defaultCommissionRate = decimal.RequireFromString("5.00")
	maxCommissionRate     = decimal.NewFromInt(50)
)

type authService struct {
	tx           repository.Transactor
	repos        repository.Repos
	tokenManager security.TokenManager
	now          func() time.Time
}

func NewAuthService(tx repository.Transactor, repos repository.Repos, tokenManager security.TokenManager) AuthService {
	return &authService{
		tx:           tx,
		repos:        repos,
		tokenManager: tokenManager,
		now:          time.Now,
	}
}

// Register creates the user and its customer or agent profile in one transaction.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	const method = "authService.Register"
	logger.EnterMethod(method, "email", input.Email, "role", input.Role)

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if fields := s.validateRegistration(input); len(fields) > 0 {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed", fields...))
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fail(method, err)
	}

	user := &domain.User{
		Role:         input.Role,
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Phone:        input.Phone,
		IsActive:     true,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		switch input.Role {
		case domain.RoleCustomer:
			return repos.Customers.Create(ctx, &domain.Customer{
				UserID:                user.ID,
				DateOfBirth:           *input.DateOfBirth,
				Address:               input.Address,
				DrivingLicenseNumber:  input.DrivingLicenseNumber,
				LicenseExpiryDate:     *input.LicenseExpiryDate,
				EmergencyContactName:  input.EmergencyContactName,
				EmergencyContactPhone: input.EmergencyContactPhone,
			})
		case domain.RoleAgent:
			rate := defaultCommissionRate
			if input.CommissionRate != nil {
				rate = *input.CommissionRate
			}
			return repos.Agents.Create(ctx, &domain.Agent{
				UserID:         user.ID,
				EmployeeID:     input.EmployeeID,
				BranchLocation: input.BranchLocation,
				Role:           input.AgentRole,
				HireDate:       *input.HireDate,
				CommissionRate: rate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fail(method, duplicateRegistration(err), "email", input.Email)
	}

	logger.Info("User registered", "userID", user.ID, "role", user.Role)
	logger.ExitMethod(method, "userID", user.ID)
	return user, nil
}

// duplicateRegistration maps unique violations to the field that collided.
func duplicateRegistration(err error) error {
	if !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "driving_license_number"):
		return domain.NewConflictError(domain.CodeLicenseTaken, "Driving license already registered")
	case strings.Contains(msg, "employee_id"):
		return domain.NewConflictError(domain.CodeEmployeeIDTaken, "Employee ID already exists")
	default:
		return domain.NewConflictError(domain.CodeEmailTaken, "User already exists")
	}
}

func (s *authService) validateRegistration(input RegisterInput) []domain.FieldError {
	var fields []domain.FieldError
	add := func(field, message string) {
		fields = append(fields, domain.FieldError{Field: field, Message: message})
	}

	switch input.Role {
	case domain.RoleCustomer, domain.RoleAgent, domain.RoleAdmin:
	default:
		add("user_type", "User type must be customer, agent, or admin")
	}
	if at := strings.LastIndex(input.Email, "@"); at >= 0 {
		if _, blocked := disposableDomains[input.Email[at+1:]]; blocked {
			add("email", "Disposable email addresses are not allowed")
		}
	}
	for _, problem := range security.PasswordProblems(input.Password) {
		add("password", problem)
	}
	if !fullNamePattern.MatchString(input.FullName) {
		add("full_name", "Name must be 2-100 characters, letters only")
	}
	if !phonePattern.MatchString(input.Phone) {
		add("phone", "Please enter a valid 10-digit phone number")
	}

	now := s.now()
	switch input.Role {
	case domain.RoleCustomer:
		if input.DateOfBirth == nil {
			add("date_of_birth", "Date of birth is required")
		} else if age := ageOn(*input.DateOfBirth, now); age < minRenterAge || age > maxRenterAge {
			add("date_of_birth", "Must be 18-80 years old to rent vehicles")
		}
		if input.Address == "" || len(input.Address) > 300 {
			add("address", "Address is required (max 300 characters)")
		}
		if input.DrivingLicenseNumber == "" || input.LicenseExpiryDate == nil {
			add("driving_license_number", "Valid driving license required")
		}
		if input.EmergencyContactName == "" || input.EmergencyContactPhone == "" {
			add("emergency_contact_name", "Emergency contact details required")
		}
	case domain.RoleAgent:
		if !employeeIDPattern.MatchString(input.EmployeeID) {
			add("employee_id", "Employee ID must be 2-3 letters followed by 4-6 numbers (e.g., AG0001, EMP12345)")
		}
		if n := len(input.BranchLocation); n < 2 || n > 100 {
			add("branch_location", "Branch location must be 2-100 characters")
		}
		switch input.AgentRole {
		case domain.AgentRoleManager, domain.AgentRoleSupervisor, domain.AgentRoleAgent, domain.AgentRoleSeniorAgent:
		default:
			add("role", "Role must be manager, supervisor, agent, or senior_agent")
		}
		if input.HireDate == nil {
			add("hire_date", "Hire date is required")
		} else if input.HireDate.After(now) {
			add("hire_date", "Hire date cannot be in the future")
		}
		if r := input.CommissionRate; r != nil && (r.IsNegative() || r.GreaterThan(maxCommissionRate)) {
			add("commission_rate", "Commission rate must be between 0% and 50%")
		}
	}
	return fields
}

// ageOn returns whole years elapsed between dob and now.
func ageOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	const method = "authService.Login"
	logger.EnterMethod(method, "email", email)

	invalid := domain.NewUnauthorizedError(domain.CodeInvalidCredentials, "Invalid email or password")

	user, err := s.repos.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fail(method, invalid, "email", email)
		}
		return "", nil, fail(method, err)
	}

	if err := security.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return "", nil, fail(method, invalid, "userID", user.ID)
		}
		return "", nil, fail(method, err)
	}
	if !user.IsActive {
		return "", nil, fail(method, domain.NewForbiddenError(domain.CodeUserInactive, "User is deactivated"), "userID", user.ID)
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fail(method, err)
	}

	logger.InfoContext(ctx, "User logged in", "userID", user.ID, "role", user.Role)
	logger.ExitMethod(method, "userID", user.ID)
	return token, user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID int32) (*Profile, error) {
	const method = "authService.GetProfile"
	logger.EnterMethod(method, "userID", userID)

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeUserNotFound, "User not found"), "userID", userID)
	}

	profile := &Profile{User: user}
	switch user.Role {
	case domain.RoleCustomer:
		profile.Customer, err = s.repos.Customers.GetByUserID(ctx, userID)
	case domain.RoleAgent:
		profile.Agent, err = s.repos.Agents.GetByUserID(ctx, userID)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fail(method, err, "userID", userID)
	}

	logger.ExitMethod(method, "userID", userID)
	return profile, nil
}
