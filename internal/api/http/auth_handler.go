package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	UserType string `json:"user_type" validate:"required,oneof=customer agent admin"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`

	DateOfBirth           string `json:"date_of_birth"`
	Address               string `json:"address"`
	DrivingLicenseNumber  string `json:"driving_license_number"`
	LicenseExpiryDate     string `json:"license_expiry_date"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`

	EmployeeID     string           `json:"employee_id"`
	BranchLocation string           `json:"branch_location"`
	Role           string           `json:"role"`
	HireDate       string           `json:"hire_date"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	input := service.RegisterInput{
		Role:                  domain.Role(req.UserType),
		Email:                 req.Email,
		Password:              req.Password,
		FullName:              req.FullName,
		Phone:                 req.Phone,
		DateOfBirth:           problems.date("date_of_birth", req.DateOfBirth),
		Address:               req.Address,
		DrivingLicenseNumber:  req.DrivingLicenseNumber,
		LicenseExpiryDate:     problems.date("license_expiry_date", req.LicenseExpiryDate),
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		EmployeeID:            req.EmployeeID,
		BranchLocation:        req.BranchLocation,
		AgentRole:             domain.AgentRole(req.Role),
		HireDate:              problems.date("hire_date", req.HireDate),
		CommissionRate:        req.CommissionRate,
	}
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully", User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", Token: token, User: user})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.auth.GetProfile(r.Context(), ClaimsFromContext(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
