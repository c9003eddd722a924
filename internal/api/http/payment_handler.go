package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentRequest struct {
	BookingID     int32  `json:"booking_id" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash credit_card debit_card upi net_banking wallet"`
	PaymentDate   string `json:"payment_date"`
	Notes         string `json:"notes" validate:"max=1000"`
}

type updatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type refundRequest struct {
	RefundAmount decimal.Decimal `json:"refund_amount"`
	RefundReason string          `json:"refund_reason" validate:"max=255"`
	Notes        string          `json:"notes" validate:"max=1000"`
}

type paymentResponse struct {
	Message string          `json:"message"`
	Payment *domain.Payment `json:"payment"`
}

type paymentsResponse struct {
	Payments   []domain.Payment  `json:"payments"`
	Pagination domain.Pagination `json:"pagination"`
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	paidAt := problems.date("payment_date", req.PaymentDate)
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.payments.CreatePayment(r.Context(), service.CreatePaymentInput{
		BookingID:     req.BookingID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		PaymentDate:   paidAt,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentResponse{Message: "Payment created successfully", Payment: payment})
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.payments.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{Message: "Payment retrieved successfully", Payment: payment})
}

func (h *PaymentHandler) GetByBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookingId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.payments.GetPaymentByBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{Message: "Payment retrieved successfully", Payment: payment})
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var problems fieldErrors
	filter := domain.PaymentFilter{
		Status:    domain.PaymentRecordStatus(q.Get("status")),
		Method:    domain.PaymentMethod(q.Get("payment_method")),
		From:      problems.date("start_date", q.Get("start_date")),
		To:        problems.date("end_date", q.Get("end_date")),
		Page:      problems.queryInt(q, "page"),
		Limit:     problems.queryInt(q, "limit"),
		SortBy:    q.Get("sort_by"),
		SortOrder: strings.ToLower(q.Get("sort_order")),
	}
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	payments, pagination, err := h.payments.ListPayments(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentsResponse{Payments: nonNil(payments), Pagination: pagination})
}

func (h *PaymentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var problems fieldErrors
	from := problems.date("start_date", q.Get("start_date"))
	to := problems.date("end_date", q.Get("end_date"))
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.payments.GetPaymentStats(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AnalyticsOverview is the stats summary plus a trend bucketed by group_by.
func (h *PaymentHandler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var problems fieldErrors
	from := problems.date("start_date", q.Get("start_date"))
	to := problems.date("end_date", q.Get("end_date"))
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.payments.GetPaymentAnalytics(r.Context(), from, to, domain.TimeGrain(q.Get("group_by")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updatePaymentStatusRequest
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

	payment, err := h.payments.UpdatePaymentStatus(r.Context(), id, domain.PaymentRecordStatus(req.Status), req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{Message: "Payment status updated successfully", Payment: payment})
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req refundRequest
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

	payment, err := h.payments.IssueRefund(r.Context(), id, service.RefundInput{
		Amount: req.RefundAmount,
		Reason: req.RefundReason,
		Notes:  req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{Message: "Refund processed successfully", Payment: payment})
}
