package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "net_banking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

// PaymentRecordStatus is the status of a ledger entry.
type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "Pending"
	PaymentRecordPaid      PaymentRecordStatus = "Paid"
	PaymentRecordFailed    PaymentRecordStatus = "Failed"
	PaymentRecordRefunded  PaymentRecordStatus = "Refunded"
	PaymentRecordCancelled PaymentRecordStatus = "Cancelled"
)

func (s PaymentRecordStatus) Valid() bool {
	switch s {
	case PaymentRecordPending, PaymentRecordPaid, PaymentRecordFailed, PaymentRecordRefunded, PaymentRecordCancelled:
		return true
	}
	return false
}

type Payment struct {
	ID              int32               `json:"id"`
	BookingID       int32               `json:"booking_id"`
	PaymentMethod   PaymentMethod       `json:"payment_method"`
	Amount          decimal.Decimal     `json:"amount"`
	Tax             decimal.Decimal     `json:"tax"`
	SecurityDeposit decimal.Decimal     `json:"security_deposit"`
	ExtrasTotal     decimal.Decimal     `json:"extras_total"`
	Penalties       decimal.Decimal     `json:"penalties"`
	Status          PaymentRecordStatus `json:"status"`
	PaymentDate     time.Time           `json:"payment_date"`
	Notes           string              `json:"notes"`
	RefundAmount    decimal.Decimal     `json:"refund_amount"`
	RefundReason    string              `json:"refund_reason"`
	RefundNotes     string              `json:"refund_notes"`
	RefundDate      *time.Time          `json:"refund_date,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// MaxRefund is the ceiling for a refund: the rental amount plus the deposit.
func (p *Payment) MaxRefund() decimal.Decimal {
	return p.SecurityDeposit.Add(p.Amount)
}

// CanTransitionTo enforces the ledger state machine. Paid may only move to
// Refunded, and only Paid may become Refunded.
func (p *Payment) CanTransitionTo(next PaymentRecordStatus) error {
	if p.Status == PaymentRecordPaid {
		if next != PaymentRecordRefunded {
			return NewConflictError(CodePaymentLocked, "Cannot change status of completed payment")
		}
		return nil
	}
	if next == PaymentRecordRefunded {
		return NewConflictError(CodeRefundNotAllowed, "Only paid payments can be refunded")
	}
	return nil
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	Status    PaymentRecordStatus
	Method    PaymentMethod
	From      *time.Time
	To        *time.Time
	Page      int32
	Limit     int32
	SortBy    string
	SortOrder string
}

// Pagination is returned alongside paged listings.
type Pagination struct {
	CurrentPage  int32 `json:"currentPage"`
	TotalPages   int32 `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPagination computes page metadata for a result of total rows.
func NewPagination(page, limit int32, total int64) Pagination {
	if limit <= 0 {
		limit = 1
	}
	pages := int32((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalRecords: total,
		HasNextPage:  page < pages,
		HasPrevPage:  page > 1,
	}
}

// PaymentStatusTotal aggregates payments in one status.
type PaymentStatusTotal struct {
	Status PaymentRecordStatus `json:"status"`
	Count  int64               `json:"count"`
	Amount decimal.Decimal     `json:"amount"`
}

// PaymentMethodTotal aggregates payments made with one method.
type PaymentMethodTotal struct {
	Method PaymentMethod   `json:"method"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentStats struct {
	ByStatus      []PaymentStatusTotal `json:"by_status"`
	ByMethod      []PaymentMethodTotal `json:"by_method"`
	TotalPayments int64                `json:"total_payments"`
	TotalRevenue  decimal.Decimal      `json:"total_revenue"`
	TotalRefunds  decimal.Decimal      `json:"total_refunds"`
	NetRevenue    decimal.Decimal      `json:"net_revenue"`
}

// PaymentAnalytics is the stats summary plus a payment trend series.
type PaymentAnalytics struct {
	Summary PaymentStats `json:"summary"`
	GroupBy TimeGrain    `json:"group_by"`
	Trends  []TrendPoint `json:"trends"`
}
