package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can map it to a status code.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindServer       Kind = "server"
)

// Machine-readable error codes returned to clients.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeNoUpdateFields      = "NO_UPDATE_FIELDS"
	CodeInvalidDuration     = "INVALID_DURATION"
	CodePickupInPast        = "PICKUP_IN_PAST"
	CodeVehicleUnavailable  = "VEHICLE_UNAVAILABLE"
	CodeVehicleNotFound     = "VEHICLE_NOT_FOUND"
	CodeVehicleRented       = "VEHICLE_RENTED"
	CodeVehicleExists       = "VEHICLE_EXISTS"
	CodeVehicleInUse        = "VEHICLE_IN_USE"
	CodeCategoryNotFound    = "CATEGORY_NOT_FOUND"
	CodeCategoryExists      = "CATEGORY_EXISTS"
	CodeCustomerNotFound    = "CUSTOMER_NOT_FOUND"
	CodeCustomerInUse       = "CUSTOMER_IN_USE"
	CodeAgentNotFound       = "AGENT_NOT_FOUND"
	CodeAgentInUse          = "AGENT_IN_USE"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	CodePaymentExists       = "PAYMENT_EXISTS"
	CodePaymentLocked       = "PAYMENT_LOCKED"
	CodeBookingCancelled    = "BOOKING_CANCELLED"
	CodeRefundNotAllowed    = "REFUND_NOT_ALLOWED"
	CodeRefundExceedsLimit  = "REFUND_EXCEEDS_LIMIT"
	CodeMaintenanceNotFound = "MAINTENANCE_NOT_FOUND"
	CodeEmailTaken          = "EMAIL_TAKEN"
	CodeLicenseTaken        = "LICENSE_TAKEN"
	CodeEmployeeIDTaken     = "EMPLOYEE_ID_TAKEN"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUserInactive        = "USER_INACTIVE"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type returned by services.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError returns a validation error listing every offending field.
func NewValidationError(code, message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Fields: fields}
}

func NewNotFoundError(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func NewConflictError(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func NewUnauthorizedError(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func NewForbiddenError(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

// NewServerError wraps an unexpected failure. The cause is kept for logging
// and never shown to clients.
func NewServerError(message string, err error) *Error {
	return &Error{Kind: KindServer, Code: CodeInternal, Message: message, Err: err}
}

// AsError extracts a *Error from the chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf reports the kind of err, treating anything unclassified as a server error.
func KindOf(err error) Kind {
	if de, ok := AsError(err); ok {
		return de.Kind
	}
	return KindServer
}

// CodeOf reports the code of err, or CodeInternal when unclassified.
func CodeOf(err error) string {
	if de, ok := AsError(err); ok {
		return de.Code
	}
	return CodeInternal
}
