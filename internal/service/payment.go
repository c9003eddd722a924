package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/events"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"
)

type paymentService struct {
	tx        repository.Transactor
	repos     repository.Repos
	publisher events.Publisher
	now       func() time.Time
}

func NewPaymentService(tx repository.Transactor, repos repository.Repos, publisher events.Publisher) PaymentService {
	return &paymentService{
		tx:        tx,
		repos:     repos,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error) {
	const method = "paymentService.CreatePayment"
	logger.EnterMethod(method, "bookingID", input.BookingID, "method", input.PaymentMethod)

	booking, err := s.repos.Bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeBookingNotFound, "Booking not found"), "bookingID", input.BookingID)
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, fail(method, domain.NewConflictError(domain.CodeBookingCancelled, "Cannot create payment for cancelled booking"), "bookingID", input.BookingID)
	}

	_, err = s.repos.Payments.GetByBookingID(ctx, input.BookingID)
	if err == nil {
		return nil, fail(method, paymentExists(), "bookingID", input.BookingID)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fail(method, err, "bookingID", input.BookingID)
	}

	paymentDate := s.now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}
	payment := &domain.Payment{
		BookingID:       booking.ID,
		PaymentMethod:   input.PaymentMethod,
		Amount:          booking.BaseAmount,
		Tax:             booking.TaxAmount,
		SecurityDeposit: booking.SecurityDeposit,
		ExtrasTotal:     booking.ExtrasAmount,
		Penalties:       decimal.Zero,
		Status:          domain.PaymentRecordPending,
		PaymentDate:     paymentDate,
		Notes:           input.Notes,
		RefundAmount:    decimal.Zero,
	}

	if err := s.repos.Payments.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fail(method, paymentExists(), "bookingID", input.BookingID)
		}
		return nil, fail(method, err, "bookingID", input.BookingID)
	}

	logger.InfoContext(ctx, "Payment created", "paymentID", payment.ID, "bookingID", payment.BookingID)
	publish(ctx, s.publisher, events.TopicPaymentCreated, payment)

	logger.ExitMethod(method, "paymentID", payment.ID)
	return payment, nil
}

func paymentExists() error {
	return domain.NewConflictError(domain.CodePaymentExists, "Payment already exists for this booking")
}

func (s *paymentService) GetPayment(ctx context.Context, id int32) (*domain.Payment, error) {
	const method = "paymentService.GetPayment"
	logger.EnterMethod(method, "paymentID", id)

	payment, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodePaymentNotFound, "Payment not found"), "paymentID", id)
	}

	logger.ExitMethod(method, "paymentID", id)
	return payment, nil
}

func (s *paymentService) GetPaymentByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	const method = "paymentService.GetPaymentByBooking"
	logger.EnterMethod(method, "bookingID", bookingID)

	payment, err := s.repos.Payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodePaymentNotFound, "Payment not found for this booking"), "bookingID", bookingID)
	}

	logger.ExitMethod(method, "bookingID", bookingID, "paymentID", payment.ID)
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, domain.Pagination, error) {
	const method = "paymentService.ListPayments"
	logger.EnterMethod(method, "status", filter.Status, "page", filter.Page)

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Pagination{}, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "status", Message: "Invalid payment status"}))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	payments, total, err := s.repos.Payments.List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, fail(method, err)
	}

	logger.ExitMethod(method, "count", len(payments), "total", total)
	return payments, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *paymentService) UpdatePaymentStatus(ctx context.Context, id int32, status domain.PaymentRecordStatus, notes string) (*domain.Payment, error) {
	const method = "paymentService.UpdatePaymentStatus"
	logger.EnterMethod(method, "paymentID", id, "status", status)

	if !status.Valid() {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "status", Message: "Invalid payment status"}))
	}
	var previous domain.PaymentRecordStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		payment, err := repos.Payments.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.CodePaymentNotFound, "Payment not found")
		}
		if err := payment.CanTransitionTo(status); err != nil {
			return err
		}
		previous = payment.Status

		if status == domain.PaymentRecordPaid {
			booking, err := repos.Bookings.GetForUpdate(ctx, payment.BookingID)
			if err != nil {
				return notFoundAs(err, domain.CodeBookingNotFound, "Booking not found")
			}
			switch booking.Status {
			case domain.BookingStatusCancelled:
				return domain.NewConflictError(domain.CodeBookingCancelled, "Cannot mark payment paid for cancelled booking")
			case domain.BookingStatusConfirmed, domain.BookingStatusOverdue:
				if err := repos.Bookings.Reconfirm(ctx, booking.ID); err != nil {
					return err
				}
			}
		}

		if err := repos.Payments.UpdateStatus(ctx, id, status, notes); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return domain.NewConflictError(domain.CodePaymentLocked, "Payment changed concurrently")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fail(method, err, "paymentID", id)
	}

	logger.InfoContext(ctx, "Payment status changed", "paymentID", id, "from", previous, "to", status)
	payment, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, err, "paymentID", id)
	}
	publish(ctx, s.publisher, events.TopicPaymentStatusChanged, payment)

	logger.ExitMethod(method, "paymentID", id)
	return payment, nil
}

func (s *paymentService) IssueRefund(ctx context.Context, id int32, input RefundInput) (*domain.Payment, error) {
	const method = "paymentService.IssueRefund"
	logger.EnterMethod(method, "paymentID", id, "amount", input.Amount.String())

	if !input.Amount.IsPositive() {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "refund_amount", Message: "Valid refund amount is required"}))
	}

	var bookingCancelled bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		payment, err := repos.Payments.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.CodePaymentNotFound, "Payment not found")
		}
		if payment.Status != domain.PaymentRecordPaid {
			return domain.NewConflictError(domain.CodeRefundNotAllowed, "Only paid payments can be refunded")
		}
		if input.Amount.GreaterThan(payment.MaxRefund()) {
			return domain.NewValidationError(domain.CodeRefundExceedsLimit, "Refund amount cannot exceed the payment amount plus security deposit",
				domain.FieldError{Field: "refund_amount", Message: "Maximum refund is " + utils.RoundMoney(payment.MaxRefund()).StringFixed(2)})
		}

		if err := repos.Payments.Refund(ctx, id, input.Amount, input.Reason, input.Notes, s.now()); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return domain.NewConflictError(domain.CodeRefundNotAllowed, "Only paid payments can be refunded")
			}
			return err
		}

		if input.Amount.GreaterThanOrEqual(payment.Amount) {
			booking, err := repos.Bookings.GetForUpdate(ctx, payment.BookingID)
			if err != nil {
				return err
			}
			if booking.Status == domain.BookingStatusConfirmed {
				if err := repos.Bookings.MarkCancelled(ctx, booking.ID); err != nil {
					return err
				}
				bookingCancelled = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, fail(method, err, "paymentID", id)
	}

	logger.InfoContext(ctx, "Refund issued", "paymentID", id, "amount", utils.RoundMoney(input.Amount).StringFixed(2), "bookingCancelled", bookingCancelled)
	payment, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, err, "paymentID", id)
	}
	publish(ctx, s.publisher, events.TopicPaymentRefunded, payment)

	logger.ExitMethod(method, "paymentID", id)
	return payment, nil
}

func (s *paymentService) GetPaymentStats(ctx context.Context, from, to *time.Time) (*domain.PaymentStats, error) {
	const method = "paymentService.GetPaymentStats"
	logger.EnterMethod(method)

	if from != nil && to != nil && to.Before(*from) {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "end_date", Message: "End date must not be before start date"}))
	}

	stats, err := s.repos.Payments.Stats(ctx, from, to)
	if err != nil {
		return nil, fail(method, err)
	}

	for i := range stats.ByStatus {
		stats.ByStatus[i].Amount = utils.RoundMoney(stats.ByStatus[i].Amount)
	}
	for i := range stats.ByMethod {
		stats.ByMethod[i].Amount = utils.RoundMoney(stats.ByMethod[i].Amount)
	}
	stats.TotalRevenue = utils.RoundMoney(stats.TotalRevenue)
	stats.TotalRefunds = utils.RoundMoney(stats.TotalRefunds)
	stats.NetRevenue = utils.RoundMoney(stats.NetRevenue)

	logger.ExitMethod(method, "totalPayments", stats.TotalPayments)
	return stats, nil
}

// GetPaymentAnalytics is the stats summary plus a payment trend bucketed by
// grain, monthly when grain is unknown.
func (s *paymentService) GetPaymentAnalytics(ctx context.Context, from, to *time.Time, grain domain.TimeGrain) (*domain.PaymentAnalytics, error) {
	const method = "paymentService.GetPaymentAnalytics"
	logger.EnterMethod(method, "groupBy", grain)

	stats, err := s.GetPaymentStats(ctx, from, to)
	if err != nil {
		return nil, fail(method, err)
	}

	grain = domain.ParseTimeGrain(string(grain), domain.GrainMonth)
	trends, err := s.repos.Payments.Trend(ctx, from, to, grain)
	if err != nil {
		return nil, fail(method, err)
	}
	for i := range trends {
		trends[i].Total = utils.RoundMoney(trends[i].Total)
	}

	logger.ExitMethod(method, "buckets", len(trends))
	return &domain.PaymentAnalytics{Summary: *stats, GroupBy: grain, Trends: trends}, nil
}
