package http

import (
	"net/http"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type CustomerHandler struct {
	customers service.CustomerService
}

func NewCustomerHandler(customers service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type updateCustomerRequest struct {
	DateOfBirth           string  `json:"date_of_birth"`
	Address               *string `json:"address" validate:"omitempty,max=300"`
	DrivingLicenseNumber  *string `json:"driving_license_number" validate:"omitempty,min=5,max=50"`
	LicenseExpiryDate     string  `json:"license_expiry_date"`
	EmergencyContactName  *string `json:"emergency_contact_name" validate:"omitempty,min=2,max=100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

type customerResponse struct {
	Message  string           `json:"message"`
	Customer *domain.Customer `json:"customer"`
}

type customersResponse struct {
	Customers  []domain.Customer `json:"customers"`
	Pagination domain.Pagination `json:"pagination"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var problems fieldErrors
	page := problems.queryInt(q, "page")
	limit := problems.queryInt(q, "limit")
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	customers, pagination, err := h.customers.ListCustomers(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customersResponse{Customers: nonNil(customers), Pagination: pagination})
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	customer, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customerResponse{Message: "Customer retrieved successfully", Customer: customer})
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateCustomerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	dob := problems.date("date_of_birth", req.DateOfBirth)
	expiry := problems.date("license_expiry_date", req.LicenseExpiryDate)
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	customer, err := h.customers.UpdateCustomer(r.Context(), actorFrom(r.Context()), id, service.UpdateCustomerInput{
		DateOfBirth:           dob,
		Address:               req.Address,
		DrivingLicenseNumber:  req.DrivingLicenseNumber,
		LicenseExpiryDate:     expiry,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customerResponse{Message: "Customer updated successfully", Customer: customer})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.customers.DeleteCustomer(r.Context(), actorFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}
