package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/events"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"
)

type bookingService struct {
	tx        repository.Transactor
	repos     repository.Repos
	pricing   utils.PricingPolicy
	emailSvc  EmailService
	publisher events.Publisher
	now       func() time.Time
}

func NewBookingService(
	tx repository.Transactor,
	repos repository.Repos,
	pricing utils.PricingPolicy,
	emailSvc EmailService,
	publisher events.Publisher,
) BookingService {
	return &bookingService{
		tx:        tx,
		repos:     repos,
		pricing:   pricing,
		emailSvc:  emailSvc,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	const method = "bookingService.CreateBooking"
	logger.EnterMethod(method, "customerID", input.CustomerID, "vehicleID", input.VehicleID)

	vehicle, err := s.repos.Vehicles.GetByID(ctx, input.VehicleID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fail(method, err)
	}
	if vehicle == nil || !vehicle.IsAvailable() {
		return nil, fail(method, domain.NewConflictError(domain.CodeVehicleUnavailable, "Vehicle not available"), "vehicleID", input.VehicleID)
	}

	customer, err := s.repos.Customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeCustomerNotFound, "Customer not found"), "customerID", input.CustomerID)
	}

	days := utils.RentalDays(input.PickupDate, input.ReturnDate)
	if !s.pricing.ValidDuration(days) {
		return nil, fail(method, domain.NewValidationError(domain.CodeInvalidDuration,
			fmt.Sprintf("Rental duration must be between %d and %d days", utils.MinRentalDays, s.pricing.MaxRentalDays)), "days", days)
	}
	if input.PickupDate.Before(s.now()) {
		return nil, fail(method, domain.NewValidationError(domain.CodePickupInPast, "Pickup date cannot be in the past"))
	}

	quote := s.pricing.Quote(vehicle.DailyRate, days, input.Extras)
	booking := &domain.Booking{
		CustomerID:        input.CustomerID,
		VehicleID:         input.VehicleID,
		PickupDate:        input.PickupDate,
		ReturnDate:        input.ReturnDate,
		PickupLocation:    input.PickupLocation,
		ReturnLocation:    input.ReturnLocation,
		TotalDays:         quote.TotalDays,
		DailyRate:         quote.DailyRate,
		BaseAmount:        quote.BaseAmount,
		TaxAmount:         quote.TaxAmount,
		ExtrasAmount:      quote.ExtrasAmount,
		SecurityDeposit:   quote.SecurityDeposit,
		TotalAmount:       quote.TotalAmount,
		Status:            domain.BookingStatusConfirmed,
		PaymentStatus:     domain.PaymentStatusPending,
		PaymentMethod:     input.PaymentMethod,
		AdditionalCharges: decimal.Zero,
		Extras:            make([]domain.BookingExtra, 0, len(quote.Extras)),
	}
	for _, line := range quote.Extras {
		booking.Extras = append(booking.Extras, domain.BookingExtra{
			ExtraName: line.Name,
			DailyCost: line.DailyCost,
			TotalDays: line.TotalDays,
			TotalCost: line.TotalCost,
		})
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		return repos.Bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, fail(method, err)
	}

	logger.InfoContext(ctx, "Booking created", "bookingID", booking.ID, "vehicleID", booking.VehicleID, "total", utils.RoundMoney(booking.TotalAmount).StringFixed(2))
	publish(ctx, s.publisher, events.TopicBookingCreated, booking)
	if err := s.emailSvc.SendBookingConfirmation(ctx, customer, booking); err != nil {
		logger.WarnContext(ctx, "Failed to send booking confirmation", "bookingID", booking.ID, "error", err)
	}

	logger.ExitMethod(method, "bookingID", booking.ID)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int32) (*domain.Booking, error) {
	const method = "bookingService.GetBooking"
	logger.EnterMethod(method, "bookingID", id)

	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeBookingNotFound, "Booking not found"), "bookingID", id)
	}

	logger.ExitMethod(method, "bookingID", id)
	return booking, nil
}

func (s *bookingService) PickupBooking(ctx context.Context, id, agentID int32, pickupMileage *int32) (*domain.Booking, error) {
	const method = "bookingService.PickupBooking"
	logger.EnterMethod(method, "bookingID", id, "agentID", agentID)

	var mileage int32
	if pickupMileage != nil {
		mileage = *pickupMileage
	}

	var vehicleID int32
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		booking, err := repos.Bookings.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.CodeBookingNotFound, "Booking not found")
		}
		if err := booking.CanPickup(); err != nil {
			return err
		}
		if _, err := repos.Agents.GetByID(ctx, agentID); err != nil {
			return notFoundAs(err, domain.CodeAgentNotFound, "Agent not found")
		}

		if err := repos.Bookings.MarkPickedUp(ctx, id, agentID, mileage); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return domain.NewConflictError(domain.CodeInvalidTransition, "Booking not ready for pickup")
			}
			return err
		}
		if err := repos.Vehicles.ReserveForPickup(ctx, booking.VehicleID); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return domain.NewConflictError(domain.CodeVehicleUnavailable, "Vehicle not available")
			}
			return err
		}
		vehicleID = booking.VehicleID
		return nil
	})
	if err != nil {
		return nil, fail(method, err, "bookingID", id)
	}

	logger.InfoContext(ctx, "Booking picked up", "bookingID", id, "agentID", agentID, "vehicleID", vehicleID, "mileage", mileage)
	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, err, "bookingID", id)
	}
	publish(ctx, s.publisher, events.TopicBookingPickedUp, booking)

	logger.ExitMethod(method, "bookingID", id)
	return booking, nil
}

func (s *bookingService) ReturnBooking(ctx context.Context, id int32, input ReturnBookingInput) (*domain.Booking, error) {
	const method = "bookingService.ReturnBooking"
	logger.EnterMethod(method, "bookingID", id)

	charges := decimal.Zero
	if input.AdditionalCharges != nil {
		charges = *input.AdditionalCharges
	}
	if charges.IsNegative() {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
			domain.FieldError{Field: "additional_charges", Message: "Additional charges cannot be negative"}))
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		booking, err := repos.Bookings.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.CodeBookingNotFound, "Booking not found")
		}
		if err := booking.CanReturn(); err != nil {
			return err
		}

		var pickupMileage int32
		if booking.PickupMileage != nil {
			pickupMileage = *booking.PickupMileage
		}
		mileage := pickupMileage
		if input.ReturnMileage != nil {
			mileage = *input.ReturnMileage
		}
		if mileage < pickupMileage {
			return domain.NewValidationError(domain.CodeValidationFailed, "Validation failed",
				domain.FieldError{Field: "return_mileage", Message: "Return mileage cannot be lower than pickup mileage"})
		}

		notes := booking.Notes
		if input.Notes != nil {
			notes = *input.Notes
		}

		if err := repos.Bookings.MarkReturned(ctx, id, mileage, charges, notes); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return domain.NewConflictError(domain.CodeInvalidTransition, "Booking not active")
			}
			return err
		}
		if err := repos.Vehicles.ReleaseOnReturn(ctx, booking.VehicleID, mileage); err != nil {
			return err
		}

		payment, err := repos.Payments.GetByBookingID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		switch payment.Status {
		case domain.PaymentRecordPending, domain.PaymentRecordFailed:
			return repos.Payments.Settle(ctx, payment.ID, charges)
		}
		return nil
	})
	if err != nil {
		return nil, fail(method, err, "bookingID", id)
	}

	logger.InfoContext(ctx, "Booking returned", "bookingID", id, "additionalCharges", charges.String())
	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, err, "bookingID", id)
	}
	publish(ctx, s.publisher, events.TopicBookingReturned, booking)

	logger.ExitMethod(method, "bookingID", id)
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id int32) (*domain.Booking, error) {
	const method = "bookingService.CancelBooking"
	logger.EnterMethod(method, "bookingID", id)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		booking, err := repos.Bookings.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.CodeBookingNotFound, "Booking not found")
		}
		if err := booking.CanCancel(); err != nil {
			return err
		}
		if err := repos.Bookings.MarkCancelled(ctx, id); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return domain.NewConflictError(domain.CodeInvalidTransition, "Cannot cancel this booking")
			}
			return err
		}

		payment, err := repos.Payments.GetByBookingID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		switch payment.Status {
		case domain.PaymentRecordPending, domain.PaymentRecordFailed:
			return repos.Payments.UpdateStatus(ctx, payment.ID, domain.PaymentRecordCancelled, "Booking cancelled")
		case domain.PaymentRecordPaid:
			return repos.Payments.Refund(ctx, payment.ID, payment.MaxRefund(), "Booking cancelled", "", s.now())
		}
		return nil
	})
	if err != nil {
		return nil, fail(method, err, "bookingID", id)
	}

	logger.InfoContext(ctx, "Booking cancelled", "bookingID", id)
	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, err, "bookingID", id)
	}
	publish(ctx, s.publisher, events.TopicBookingCancelled, booking)

	if customer, err := s.repos.Customers.GetByID(ctx, booking.CustomerID); err == nil {
		if err := s.emailSvc.SendBookingCancellation(ctx, customer, booking); err != nil {
			logger.WarnContext(ctx, "Failed to send cancellation email", "bookingID", id, "error", err)
		}
	}

	logger.ExitMethod(method, "bookingID", id)
	return booking, nil
}

func (s *bookingService) ListCustomerBookings(ctx context.Context, customerID int32) ([]domain.Booking, error) {
	const method = "bookingService.ListCustomerBookings"
	logger.EnterMethod(method, "customerID", customerID)

	exists, err := s.repos.Customers.Exists(ctx, customerID)
	if err != nil {
		return nil, fail(method, err, "customerID", customerID)
	}
	if !exists {
		return nil, fail(method, domain.NewNotFoundError(domain.CodeCustomerNotFound, "Customer not found"), "customerID", customerID)
	}

	bookings, err := s.repos.Bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fail(method, err, "customerID", customerID)
	}

	logger.ExitMethod(method, "customerID", customerID, "count", len(bookings))
	return bookings, nil
}

func (s *bookingService) ListAgentBookings(ctx context.Context, agentID int32) ([]domain.Booking, error) {
	const method = "bookingService.ListAgentBookings"
	logger.EnterMethod(method, "agentID", agentID)

	bookings, err := s.repos.Bookings.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, fail(method, err, "agentID", agentID)
	}

	logger.ExitMethod(method, "agentID", agentID, "count", len(bookings))
	return bookings, nil
}
