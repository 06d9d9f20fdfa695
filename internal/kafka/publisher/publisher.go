package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/example/twilio-notifier/internal/models"
)

var errProducerNotInitialised = errors.New("kafka publisher: producer not initialised")

// SyncProducer captures the subset of producer behaviour required by the Kafka publishers.
type SyncProducer interface {
	PublishSync(topic string, key []byte, headers map[string][]byte, payload []byte) error
}

// ErrProducerNotInitialised exposes the sentinel error for callers and tests.
func ErrProducerNotInitialised() error {
	return errProducerNotInitialised
}

// FailurePublisher writes NotificationFailed events to a Kafka topic. Events
// are keyed by recipient so failures for one number stay ordered.
type FailurePublisher struct {
	producer SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewFailurePublisher constructs a FailurePublisher instance.
func NewFailurePublisher(prod SyncProducer, topic string, logger zerolog.Logger) *FailurePublisher {
	if prod == nil {
		return nil
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &FailurePublisher{
		producer: prod,
		topic:    topic,
		logger:   logger,
	}
}

// Dispatch publishes the event synchronously.
func (p *FailurePublisher) Dispatch(ctx context.Context, event models.NotificationFailed) error {
	if p == nil || p.producer == nil {
		return errProducerNotInitialised
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka publisher: marshal notification failed event: %w", err)
	}

	headers := map[string][]byte{
		"content-type": []byte("application/json"),
		"event-id":     []byte(event.ID),
		"channel":      []byte(event.Channel),
	}

	if err := p.producer.PublishSync(p.topic, []byte(event.Recipient), headers, payload); err != nil {
		return fmt.Errorf("kafka publisher: publish notification failed event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("topic", p.topic).
		Msg("notification failed event published")
	return nil
}
