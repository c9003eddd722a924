package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
)

// Lifecycle topics, before the configured prefix is applied.
const (
	TopicBookingCreated       = "booking.created"
	TopicBookingPickedUp      = "booking.picked_up"
	TopicBookingReturned      = "booking.returned"
	TopicBookingCancelled     = "booking.cancelled"
	TopicPaymentCreated       = "payment.created"
	TopicPaymentStatusChanged = "payment.status_changed"
	TopicPaymentRefunded      = "payment.refunded"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the envelope written to every topic.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh id.
func NewEvent(topic string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       topic,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Encode serializes an event envelope.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends lifecycle events after the owning transaction commits.
type Publisher interface {
	Publish(ctx context.Context, topic string, data any) error
}

// NopPublisher drops events. Used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, topic string, data any) error {
	logger.FromContext(ctx).Debug("Event publishing disabled, dropping event", "topic", topic)
	return nil
}
