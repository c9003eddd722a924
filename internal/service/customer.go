package service

import (
	"context"
	"errors"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
)

// owns reports whether the actor may change a profile belonging to userID.
func (a Actor) owns(userID int32) bool {
	return a.Role == domain.RoleAdmin || a.UserID == userID
}

type customerService struct {
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo, now: time.Now}
}

func (s *customerService) GetCustomer(ctx context.Context, id int32) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail("customerService.GetCustomer", notFoundAs(err, domain.CodeCustomerNotFound, "Customer not found"), "customerID", id)
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, limit int32) ([]domain.Customer, domain.Pagination, error) {
	const method = "customerService.ListCustomers"
	logger.EnterMethod(method, "page", page, "limit", limit)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	customers, total, err := s.customerRepo.List(ctx, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, fail(method, err)
	}

	logger.ExitMethod(method, "count", len(customers), "total", total)
	return customers, domain.NewPagination(page, limit, total), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, actor Actor, id int32, input UpdateCustomerInput) (*domain.Customer, error) {
	const method = "customerService.UpdateCustomer"
	logger.EnterMethod(method, "customerID", id, "actorID", actor.UserID)

	if fields := s.validateUpdate(input); len(fields) > 0 {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed", fields...))
	}
	if input == (UpdateCustomerInput{}) {
		return nil, fail(method, domain.NewValidationError(domain.CodeNoUpdateFields, "No valid fields provided for update"))
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeCustomerNotFound, "Customer not found"), "customerID", id)
	}
	if !actor.owns(customer.UserID) {
		return nil, fail(method, domain.NewForbiddenError(domain.CodeForbidden, "You can only update your own customer profile"), "customerID", id)
	}

	if input.DateOfBirth != nil {
		customer.DateOfBirth = *input.DateOfBirth
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.DrivingLicenseNumber != nil {
		customer.DrivingLicenseNumber = *input.DrivingLicenseNumber
	}
	if input.LicenseExpiryDate != nil {
		customer.LicenseExpiryDate = *input.LicenseExpiryDate
	}
	if input.EmergencyContactName != nil {
		customer.EmergencyContactName = *input.EmergencyContactName
	}
	if input.EmergencyContactPhone != nil {
		customer.EmergencyContactPhone = *input.EmergencyContactPhone
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		err = notFoundAs(duplicateRegistration(err), domain.CodeCustomerNotFound, "Customer not found")
		return nil, fail(method, err, "customerID", id)
	}

	logger.InfoContext(ctx, "Customer updated", "customerID", id, "actorID", actor.UserID)
	logger.ExitMethod(method, "customerID", id)
	return customer, nil
}

func (s *customerService) validateUpdate(input UpdateCustomerInput) []domain.FieldError {
	var fields []domain.FieldError
	add := func(field, message string) {
		fields = append(fields, domain.FieldError{Field: field, Message: message})
	}

	now := s.now()
	if dob := input.DateOfBirth; dob != nil {
		if age := ageOn(*dob, now); age < minRenterAge || age > maxRenterAge {
			add("date_of_birth", "Age must be between 18 and 80 years")
		}
	}
	if a := input.Address; a != nil && len(*a) > 300 {
		add("address", "Address must not exceed 300 characters")
	}
	if l := input.DrivingLicenseNumber; l != nil && (len(*l) < 5 || len(*l) > 50) {
		add("driving_license_number", "Driving license number must be 5-50 characters")
	}
	if e := input.LicenseExpiryDate; e != nil && !e.After(now) {
		add("license_expiry_date", "License expiry date must be in the future")
	}
	if n := input.EmergencyContactName; n != nil && (len(*n) < 2 || len(*n) > 100) {
		add("emergency_contact_name", "Emergency contact name must be 2-100 characters")
	}
	if p := input.EmergencyContactPhone; p != nil && !phonePattern.MatchString(*p) {
		add("emergency_contact_phone", "Emergency contact phone must be a valid 10-digit number")
	}
	return fields
}

// DeleteCustomer removes the customer and its user account. Customers with
// bookings are kept.
func (s *customerService) DeleteCustomer(ctx context.Context, actor Actor, id int32) error {
	const method = "customerService.DeleteCustomer"
	logger.EnterMethod(method, "customerID", id, "actorID", actor.UserID)

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return fail(method, notFoundAs(err, domain.CodeCustomerNotFound, "Customer not found"), "customerID", id)
	}
	if !actor.owns(customer.UserID) {
		return fail(method, domain.NewForbiddenError(domain.CodeForbidden, "You can only delete your own customer profile"), "customerID", id)
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			err = domain.NewConflictError(domain.CodeCustomerInUse, "Customer has bookings and cannot be deleted")
		}
		return fail(method, notFoundAs(err, domain.CodeCustomerNotFound, "Customer not found"), "customerID", id)
	}

	logger.InfoContext(ctx, "Customer deleted", "customerID", id, "actorID", actor.UserID)
	logger.ExitMethod(method, "customerID", id)
	return nil
}
