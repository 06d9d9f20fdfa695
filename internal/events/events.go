package events

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/twilio-notifier/internal/models"
	"github.com/example/twilio-notifier/internal/twilio"
)

// Dispatcher receives NotificationFailed events.
type Dispatcher interface {
	Dispatch(ctx context.Context, event models.NotificationFailed) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, event models.NotificationFailed) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, event models.NotificationFailed) error {
	return f(ctx, event)
}

// NewNotificationFailed builds an event for a failed send. The Twilio error
// code is extracted from err when it came from the REST API.
func NewNotificationFailed(channel, recipient, messageType string, err error, ignored bool, now time.Time) models.NotificationFailed {
	event := models.NotificationFailed{
		ID:          uuid.NewString(),
		Channel:     channel,
		Recipient:   recipient,
		MessageType: messageType,
		Code:        twilio.ErrorCode(err),
		Ignored:     ignored,
		Timestamp:   now.UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	return event
}

// LogDispatcher writes events to a zerolog logger.
type LogDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher constructs a LogDispatcher.
func NewLogDispatcher(logger zerolog.Logger) *LogDispatcher {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the event at warn level, or info when the error is ignored.
func (d *LogDispatcher) Dispatch(_ context.Context, event models.NotificationFailed) error {
	ev := d.logger.Warn()
	if event.Ignored {
		ev = d.logger.Info()
	}
	ev.Str("event_id", event.ID).
		Str("channel", event.Channel).
		Str("recipient", event.Recipient).
		Str("message_type", event.MessageType).
		Int("code", event.Code).
		Bool("ignored", event.Ignored).
		Str("error", event.Error).
		Msg("notification failed")
	return nil
}

type multi []Dispatcher

// Multi fans an event out to every dispatcher in order. Every dispatcher is
// called even when an earlier one fails; failures are joined.
func Multi(dispatchers ...Dispatcher) Dispatcher {
	out := make(multi, 0, len(dispatchers))
	for _, d := range dispatchers {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Pointer && v.IsNil() {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (m multi) Dispatch(ctx context.Context, event models.NotificationFailed) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
