package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/config"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"
)

// deliverFunc hands a message to the mail provider and returns its HTTP status.
type deliverFunc func(ctx context.Context, message *mail.SGMailV3) (int, string, error)

type emailService struct {
	from    *mail.Email
	deliver deliverFunc
}

// NewEmailService returns a SendGrid-backed sender, or one that only logs
// messages when email is disabled.
func NewEmailService(cfg config.EmailConfig) EmailService {
	s := &emailService{from: mail.NewEmail(cfg.FromName, cfg.FromEmail)}
	if !cfg.Enabled {
		s.deliver = logOnly
		return s
	}

	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	s.deliver = func(ctx context.Context, message *mail.SGMailV3) (int, string, error) {
		resp, err := client.SendWithContext(ctx, message)
		if err != nil {
			return 0, "", err
		}
		return resp.StatusCode, resp.Body, nil
	}
	return s
}

func logOnly(ctx context.Context, message *mail.SGMailV3) (int, string, error) {
	var to []string
	for _, p := range message.Personalizations {
		for _, addr := range p.To {
			to = append(to, addr.Address)
		}
	}
	logger.InfoContext(ctx, "Email disabled, not sending", "to", strings.Join(to, ","), "subject", message.Subject)
	return 202, "", nil
}

func (s *emailService) send(ctx context.Context, subject, plainText string, to ...*mail.Email) error {
	message := mail.NewV3Mail()
	message.SetFrom(s.from)
	message.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(to...)
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/plain", plainText))

	logger.ExternalServiceCall("sendgrid", "send", "subject", subject, "recipients", len(to))
	status, body, err := s.deliver(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if status >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", status, body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil, "status", status)
	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	subject := fmt.Sprintf("Booking #%d confirmed", booking.ID)
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d is confirmed.\n\nPickup: %s at %s\nReturn: %s at %s\nDays: %d\nTotal: %s\n\nPlease bring your driving license to the pickup.\n",
		customer.FullName, booking.ID,
		booking.PickupDate.Format(dateLayout), booking.PickupLocation,
		booking.ReturnDate.Format(dateLayout), booking.ReturnLocation,
		booking.TotalDays, utils.RoundMoney(booking.TotalAmount).StringFixed(2))

	return s.send(ctx, subject, body, mail.NewEmail(customer.FullName, customer.Email))
}

func (s *emailService) SendBookingCancellation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	subject := fmt.Sprintf("Booking #%d cancelled", booking.ID)
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d for %s has been cancelled. Any captured payment is refunded to the original method.\n",
		customer.FullName, booking.ID, booking.PickupDate.Format(dateLayout))

	return s.send(ctx, subject, body, mail.NewEmail(customer.FullName, customer.Email))
}

// SendMaintenanceDigest mails the list of vehicles due for service. Nothing is
// sent when the list or the recipients are empty.
func (s *emailService) SendMaintenanceDigest(ctx context.Context, to []string, due []domain.MaintenanceDue) error {
	if len(due) == 0 || len(to) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d vehicle(s) are due for service:\n\n", len(due))
	for _, d := range due {
		fmt.Fprintf(&b, "- %s %s %s, odometer %d", d.VehicleNumber, d.Make, d.Model, d.CurrentMileage)
		if d.NextServiceDueMileage != nil {
			fmt.Fprintf(&b, ", due at %d", *d.NextServiceDueMileage)
		}
		if d.NextServiceDueDate != nil {
			fmt.Fprintf(&b, ", due by %s", d.NextServiceDueDate.Format(dateLayout))
		}
		b.WriteString("\n")
	}

	recipients := make([]*mail.Email, 0, len(to))
	for _, addr := range to {
		recipients = append(recipients, mail.NewEmail("", addr))
	}
	return s.send(ctx, "Upcoming vehicle maintenance", b.String(), recipients...)
}

const dateLayout = "2006-01-02"
