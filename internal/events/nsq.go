package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/nsqio/go-nsq"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
)

// producer is the subset of *nsq.Producer used here.
type producer interface {
	Publish(topic string, body []byte) error
	Stop()
}

// NSQPublisher publishes event envelopes to nsqd.
type NSQPublisher struct {
	producer producer
	prefix   string
}

// NewNSQPublisher connects to nsqd at address and pings it.
func NewNSQPublisher(address, topicPrefix string) (*NSQPublisher, error) {
	cfg := nsq.NewConfig()
	p, err := nsq.NewProducer(address, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelWarning)

	if err := p.Ping(); err != nil {
		p.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}

	return &NSQPublisher{producer: p, prefix: topicPrefix}, nil
}

// Topic returns the prefixed NSQ topic for an event type, with underscores as separators.
func (p *NSQPublisher) Topic(eventType string) string {
	name := strings.ReplaceAll(eventType, ".", "_")
	if p.prefix == "" {
		return name
	}
	return p.prefix + "_" + name
}

func (p *NSQPublisher) Publish(ctx context.Context, eventType string, data any) error {
	body, err := Encode(NewEvent(eventType, data))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	topic := p.Topic(eventType)
	logger.ExternalServiceCall("nsq", "Publish", "topic", topic)
	err = p.producer.Publish(topic, body)
	logger.ExternalServiceResult("nsq", "Publish", err, "topic", topic)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Stop gracefully stops the producer
func (p *NSQPublisher) Stop() {
	p.producer.Stop()
}
