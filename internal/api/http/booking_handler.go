package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type extraRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	DailyCost decimal.Decimal `json:"dailyCost" validate:"required,gt=0"`
}

type createBookingRequest struct {
	CustomerID     int32          `json:"customer_id" validate:"required,gt=0"`
	VehicleID      int32          `json:"vehicle_id" validate:"required,gt=0"`
	PickupDate     string         `json:"pickup_date" validate:"required"`
	ReturnDate     string         `json:"return_date" validate:"required"`
	PickupLocation string         `json:"pickup_location" validate:"max=100"`
	ReturnLocation string         `json:"return_location" validate:"max=100"`
	PaymentMethod  string         `json:"payment_method" validate:"max=50"`
	Extras         []extraRequest `json:"extras" validate:"dive"`
}

func (req createBookingRequest) toInput() (service.CreateBookingInput, error) {
	var problems fieldErrors
	problems.check(req)
	pickup := problems.date("pickup_date", req.PickupDate)
	ret := problems.date("return_date", req.ReturnDate)
	if err := problems.err(); err != nil {
		return service.CreateBookingInput{}, err
	}

	input := service.CreateBookingInput{
		CustomerID:     req.CustomerID,
		VehicleID:      req.VehicleID,
		PickupDate:     *pickup,
		ReturnDate:     *ret,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		PaymentMethod:  req.PaymentMethod,
	}
	for _, e := range req.Extras {
		input.Extras = append(input.Extras, utils.ExtraInput{Name: e.Name, DailyCost: e.DailyCost})
	}
	return input, nil
}

type pickupRequest struct {
	AgentID       int32  `json:"agent_id" validate:"required,gt=0"`
	PickupMileage *int32 `json:"pickup_mileage" validate:"omitempty,gte=0"`
}

type returnRequest struct {
	ReturnMileage     *int32           `json:"return_mileage" validate:"omitempty,gte=0"`
	AdditionalCharges *decimal.Decimal `json:"additional_charges"`
	Notes             *string          `json:"notes" validate:"omitempty,max=1000"`
}

type bookingResponse struct {
	Message string          `json:"message"`
	Booking *domain.Booking `json:"booking"`
}

type bookingsResponse struct {
	Message  string           `json:"message"`
	Bookings []domain.Booking `json:"bookings"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorWith(w, r, err, createBookingStatus)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeErrorWith(w, r, err, createBookingStatus)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), input)
	if err != nil {
		writeErrorWith(w, r, err, createBookingStatus)
		return
	}
	writeJSON(w, http.StatusCreated, bookingResponse{Message: "Booking created successfully", Booking: booking})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingResponse{Message: "Booking retrieved successfully", Booking: booking})
}

func (h *BookingHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customerId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookings.ListCustomerBookings(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Message: "Customer bookings retrieved successfully", Bookings: nonNil(bookings)})
}

func (h *BookingHandler) ListByAgent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "agentId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookings.ListAgentBookings(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Message: "Agent bookings retrieved successfully", Bookings: nonNil(bookings)})
}

func (h *BookingHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	var req pickupRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	var problems fieldErrors
	problems.check(req)
	if err := problems.err(); err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}

	booking, err := h.bookings.PickupBooking(r.Context(), id, req.AgentID, req.PickupMileage)
	if err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	writeJSON(w, http.StatusOK, bookingResponse{Message: "Vehicle picked up successfully", Booking: booking})
}

func (h *BookingHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	var req returnRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	var problems fieldErrors
	problems.check(req)
	if err := problems.err(); err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}

	booking, err := h.bookings.ReturnBooking(r.Context(), id, service.ReturnBookingInput{
		ReturnMileage:     req.ReturnMileage,
		AdditionalCharges: req.AdditionalCharges,
		Notes:             req.Notes,
	})
	if err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	writeJSON(w, http.StatusOK, bookingResponse{Message: "Vehicle returned successfully", Booking: booking})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	booking, err := h.bookings.CancelBooking(r.Context(), id)
	if err != nil {
		writeErrorWith(w, r, err, transitionStatus)
		return
	}
	writeJSON(w, http.StatusOK, bookingResponse{Message: "Booking cancelled successfully", Booking: booking})
}

// nonNil keeps empty listings as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
