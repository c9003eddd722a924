package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	// BookingStatusOverdue is reserved. No transition leads to it.
	BookingStatusOverdue BookingStatus = "overdue"
)

// IsTerminal reports whether no further lifecycle transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// PaymentStatus is the payment state shown on a booking. It is derived from
// the payment ledger and never stored on the booking row.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID                int32           `json:"id"`
	CustomerID        int32           `json:"customer_id"`
	VehicleID         int32           `json:"vehicle_id"`
	AgentID           *int32          `json:"agent_id,omitempty"`
	PickupDate        time.Time       `json:"pickup_date"`
	ReturnDate        time.Time       `json:"return_date"`
	PickupLocation    string          `json:"pickup_location"`
	ReturnLocation    string          `json:"return_location"`
	TotalDays         int32           `json:"total_days"`
	DailyRate         decimal.Decimal `json:"daily_rate"`
	BaseAmount        decimal.Decimal `json:"base_amount"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	ExtrasAmount      decimal.Decimal `json:"extras_amount"`
	SecurityDeposit   decimal.Decimal `json:"security_deposit"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            BookingStatus   `json:"status"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	PaymentMethod     string          `json:"payment_method"`
	PickupMileage     *int32          `json:"pickup_mileage,omitempty"`
	ReturnMileage     *int32          `json:"return_mileage,omitempty"`
	AdditionalCharges decimal.Decimal `json:"additional_charges"`
	Notes             string          `json:"notes"`
	Extras            []BookingExtra  `json:"extras"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// LedgerStatus is the status of the booking's payment record, if any.
	LedgerStatus *PaymentRecordStatus `json:"-"`
}

type BookingExtra struct {
	ID        int32           `json:"id"`
	BookingID int32           `json:"booking_id"`
	ExtraName string          `json:"extra_name"`
	DailyCost decimal.Decimal `json:"daily_cost"`
	TotalDays int32           `json:"total_days"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// CanPickup checks the confirmed -> active transition.
func (b *Booking) CanPickup() error {
	if b.Status != BookingStatusConfirmed {
		return NewConflictError(CodeInvalidTransition, "Booking not ready for pickup")
	}
	return nil
}

// CanReturn checks the active -> completed transition.
func (b *Booking) CanReturn() error {
	if b.Status != BookingStatusActive {
		return NewConflictError(CodeInvalidTransition, "Booking not active")
	}
	return nil
}

// CanCancel checks the confirmed -> cancelled transition.
func (b *Booking) CanCancel() error {
	if b.Status != BookingStatusConfirmed {
		return NewConflictError(CodeInvalidTransition, "Cannot cancel this booking")
	}
	return nil
}

// ProjectPaymentStatus fills PaymentStatus from the ledger status, falling
// back to the booking status when no payment has been recorded.
func (b *Booking) ProjectPaymentStatus() {
	b.PaymentStatus = DerivePaymentStatus(b.Status, b.LedgerStatus)
}

// DerivePaymentStatus maps the ledger state onto the booking-level view.
func DerivePaymentStatus(status BookingStatus, ledger *PaymentRecordStatus) PaymentStatus {
	if ledger != nil {
		switch *ledger {
		case PaymentRecordPaid:
			return PaymentStatusPaid
		case PaymentRecordFailed:
			return PaymentStatusFailed
		case PaymentRecordRefunded, PaymentRecordCancelled:
			return PaymentStatusRefunded
		default:
			return PaymentStatusPending
		}
	}
	switch status {
	case BookingStatusCompleted:
		return PaymentStatusPaid
	case BookingStatusCancelled:
		return PaymentStatusRefunded
	}
	return PaymentStatusPending
}
