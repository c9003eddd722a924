package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type MaintenanceHandler struct {
	maintenance service.MaintenanceService
}

func NewMaintenanceHandler(maintenance service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

type maintenanceRequest struct {
	VehicleID             int32           `json:"vehicle_id" validate:"required,gt=0"`
	MaintenanceType       string          `json:"maintenance_type"`
	Description           string          `json:"description" validate:"max=1000"`
	ServiceDate           string          `json:"service_date"`
	MileageAtService      *int32          `json:"mileage_at_service"`
	Cost                  decimal.Decimal `json:"cost"`
	ServiceProvider       string          `json:"service_provider" validate:"max=100"`
	NextServiceDueMileage *int32          `json:"next_service_due_mileage" validate:"omitempty,gte=0"`
	NextServiceDueDate    string          `json:"next_service_due_date"`
}

type updateMaintenanceRequest struct {
	MaintenanceType       *string          `json:"maintenance_type" validate:"omitempty,oneof=service repair inspection cleaning"`
	Description           *string          `json:"description" validate:"omitempty,max=1000"`
	ServiceDate           string           `json:"service_date"`
	MileageAtService      *int32           `json:"mileage_at_service" validate:"omitempty,gte=0"`
	Cost                  *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
	ServiceProvider       *string          `json:"service_provider" validate:"omitempty,max=100"`
	NextServiceDueMileage *int32           `json:"next_service_due_mileage" validate:"omitempty,gte=0"`
	NextServiceDueDate    string           `json:"next_service_due_date"`
}

type maintenanceResponse struct {
	Message string                    `json:"message"`
	Record  *domain.MaintenanceRecord `json:"maintenance"`
}

type maintenanceListResponse struct {
	Records    []domain.MaintenanceRecord `json:"maintenance"`
	Pagination domain.Pagination          `json:"pagination"`
}

type upcomingResponse struct {
	Vehicles []domain.MaintenanceDue `json:"vehicles"`
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	serviceDate := problems.date("service_date", req.ServiceDate)
	nextDue := problems.date("next_service_due_date", req.NextServiceDueDate)
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	input := service.MaintenanceInput{
		VehicleID:             req.VehicleID,
		MaintenanceType:       domain.MaintenanceType(req.MaintenanceType),
		Description:           req.Description,
		MileageAtService:      req.MileageAtService,
		Cost:                  req.Cost,
		ServiceProvider:       req.ServiceProvider,
		NextServiceDueMileage: req.NextServiceDueMileage,
		NextServiceDueDate:    nextDue,
	}
	if serviceDate != nil {
		input.ServiceDate = *serviceDate
	}

	record, err := h.maintenance.RecordMaintenance(r.Context(), ClaimsFromContext(r.Context()).UserID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, maintenanceResponse{Message: "Maintenance record created successfully", Record: record})
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var problems fieldErrors
	filter := domain.MaintenanceFilter{
		Type:  domain.MaintenanceType(q.Get("maintenance_type")),
		From:  problems.date("start_date", q.Get("start_date")),
		To:    problems.date("end_date", q.Get("end_date")),
		Page:  problems.queryInt(q, "page"),
		Limit: problems.queryInt(q, "limit"),
	}
	if id := problems.queryInt(q, "vehicle_id"); id > 0 {
		filter.VehicleID = &id
	}
	if id := problems.queryInt(q, "performed_by"); id > 0 {
		filter.PerformedBy = &id
	}
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	records, pagination, err := h.maintenance.ListMaintenance(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, maintenanceListResponse{Records: nonNil(records), Pagination: pagination})
}

func (h *MaintenanceHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "vehicleId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	var problems fieldErrors
	filter := domain.MaintenanceFilter{
		Type:  domain.MaintenanceType(q.Get("maintenance_type")),
		Page:  problems.queryInt(q, "page"),
		Limit: problems.queryInt(q, "limit"),
	}
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	records, pagination, err := h.maintenance.ListVehicleMaintenance(r.Context(), id, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, maintenanceListResponse{Records: nonNil(records), Pagination: pagination})
}

func (h *MaintenanceHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	due, err := h.maintenance.UpcomingMaintenance(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upcomingResponse{Vehicles: nonNil(due)})
}

func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	record, err := h.maintenance.GetMaintenance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, maintenanceResponse{Message: "Maintenance record retrieved successfully", Record: record})
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateMaintenanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	serviceDate := problems.date("service_date", req.ServiceDate)
	nextDue := problems.date("next_service_due_date", req.NextServiceDueDate)
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	input := service.UpdateMaintenanceInput{
		Description:           req.Description,
		ServiceDate:           serviceDate,
		MileageAtService:      req.MileageAtService,
		Cost:                  req.Cost,
		ServiceProvider:       req.ServiceProvider,
		NextServiceDueMileage: req.NextServiceDueMileage,
		NextServiceDueDate:    nextDue,
	}
	if req.MaintenanceType != nil {
		kind := domain.MaintenanceType(*req.MaintenanceType)
		input.MaintenanceType = &kind
	}

	record, err := h.maintenance.UpdateMaintenance(r.Context(), ClaimsFromContext(r.Context()).UserID, id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, maintenanceResponse{Message: "Maintenance record updated successfully", Record: record})
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.maintenance.DeleteMaintenance(r.Context(), ClaimsFromContext(r.Context()).UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Maintenance record deleted successfully"})
}

// AgentRecords lists the caller's own maintenance records.
func (h *MaintenanceHandler) AgentRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var problems fieldErrors
	filter := domain.MaintenanceFilter{
		Type:  domain.MaintenanceType(q.Get("maintenance_type")),
		From:  problems.date("start_date", q.Get("start_date")),
		To:    problems.date("end_date", q.Get("end_date")),
		Page:  problems.queryInt(q, "page"),
		Limit: problems.queryInt(q, "limit"),
	}
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	records, pagination, err := h.maintenance.ListAgentMaintenance(r.Context(), ClaimsFromContext(r.Context()).UserID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, maintenanceListResponse{Records: nonNil(records), Pagination: pagination})
}

func (h *MaintenanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var problems fieldErrors
	period := problems.queryInt(r.URL.Query(), "period")
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.maintenance.MaintenanceStats(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
