package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type VehicleHandler struct {
	vehicles service.VehicleService
	now      func() time.Time
}

func NewVehicleHandler(vehicles service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, now: time.Now}
}

type createVehicleRequest struct {
	VehicleNumber      string          `json:"vehicle_number" validate:"required,alphanum,min=5,max=20"`
	Make               string          `json:"make" validate:"required,min=2,max=50"`
	Model              string          `json:"model" validate:"required,max=50"`
	Year               int32           `json:"year" validate:"required,min=1980"`
	CategoryID         *int32          `json:"category_id" validate:"omitempty,gt=0"`
	FuelType           string          `json:"fuel_type" validate:"required,oneof=petrol diesel electric hybrid"`
	SeatingCapacity    int32           `json:"seating_capacity" validate:"required,min=1,max=100"`
	DailyRate          decimal.Decimal `json:"daily_rate" validate:"required,gt=0"`
	CurrentMileage     int32           `json:"current_mileage" validate:"gte=0"`
	LastServiceMileage int32           `json:"last_service_mileage" validate:"gte=0"`
	Location           string          `json:"location" validate:"required,min=2,max=100"`
}

type updateVehicleRequest struct {
	DailyRate          *decimal.Decimal `json:"daily_rate" validate:"omitempty,gt=0"`
	Location           *string          `json:"location" validate:"omitempty,min=2,max=100"`
	CurrentMileage     *int32           `json:"current_mileage" validate:"omitempty,gte=0"`
	LastServiceMileage *int32           `json:"last_service_mileage" validate:"omitempty,gte=0"`
	CategoryID         *int32           `json:"category_id" validate:"omitempty,gt=0"`
}

type vehicleStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type vehicleResponse struct {
	Message string          `json:"message"`
	Vehicle *domain.Vehicle `json:"vehicle"`
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var problems fieldErrors
	filter := domain.VehicleFilter{
		Status:   domain.VehicleStatus(q.Get("status")),
		FuelType: domain.FuelType(q.Get("fuel_type")),
		Location: q.Get("location"),
	}
	if q.Get("available") == "true" {
		filter.Status = domain.VehicleStatusAvailable
	}
	if category := problems.queryInt(q, "category"); category > 0 {
		filter.CategoryID = &category
	}
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	vehicles, err := h.vehicles.ListVehicles(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(vehicles))
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	vehicle, err := h.vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{Message: "Vehicle retrieved successfully", Vehicle: vehicle})
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	if year := int32(h.now().Year()); req.Year > year {
		problems.add("year", fmt.Sprintf("year must be at most %d", year))
	}
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	vehicle, err := h.vehicles.CreateVehicle(r.Context(), &domain.Vehicle{
		VehicleNumber:      req.VehicleNumber,
		Make:               req.Make,
		Model:              req.Model,
		Year:               req.Year,
		CategoryID:         req.CategoryID,
		FuelType:           domain.FuelType(req.FuelType),
		SeatingCapacity:    req.SeatingCapacity,
		DailyRate:          req.DailyRate,
		CurrentMileage:     req.CurrentMileage,
		LastServiceMileage: req.LastServiceMileage,
		Location:           req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicleResponse{Message: "Vehicle created successfully", Vehicle: vehicle})
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateVehicleRequest
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

	vehicle, err := h.vehicles.UpdateVehicle(r.Context(), id, service.UpdateVehicleInput{
		DailyRate:          req.DailyRate,
		Location:           req.Location,
		CurrentMileage:     req.CurrentMileage,
		LastServiceMileage: req.LastServiceMileage,
		CategoryID:         req.CategoryID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{Message: "Vehicle updated successfully", Vehicle: vehicle})
}

func (h *VehicleHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req vehicleStatusRequest
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

	vehicle, err := h.vehicles.ChangeVehicleStatus(r.Context(), id, domain.VehicleStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{Message: "Vehicle status updated successfully", Vehicle: vehicle})
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted successfully"})
}
