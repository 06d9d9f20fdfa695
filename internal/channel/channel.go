package channel

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/twilio-notifier/internal/events"
	"github.com/example/twilio-notifier/internal/twilio"
)

// Name is the channel name passed to RouteNotificationFor.
const Name = "twilio"

var (
	// ErrInvalidReceiver is returned when no recipient can be resolved.
	ErrInvalidReceiver = errors.New("channel: notifiable has no twilio route")
	// ErrInvalidMessage is returned when a notification produces no message.
	ErrInvalidMessage = errors.New("channel: notification produced no twilio message")
)

// Notifiable is anything that can be routed a notification.
type Notifiable interface {
	// RouteNotificationFor returns the address for channel, or "" if the
	// notifiable has none.
	RouteNotificationFor(channel string) string
}

// AlphanumericSenderReceiver is implemented by notifiables that accept SMS
// from an alphanumeric sender id. Notifiables without it never do.
type AlphanumericSenderReceiver interface {
	CanReceiveAlphanumericSender() bool
}

// Notification builds the Twilio message for a notifiable.
type Notification interface {
	ToTwilio(notifiable Notifiable) (twilio.Message, error)
}

// NotificationFunc adapts a function to Notification.
type NotificationFunc func(notifiable Notifiable) (twilio.Message, error)

// ToTwilio calls f.
func (f NotificationFunc) ToTwilio(notifiable Notifiable) (twilio.Message, error) {
	return f(notifiable)
}

// Message wraps a prebuilt message as a Notification.
func Message(msg twilio.Message) Notification {
	return NotificationFunc(func(Notifiable) (twilio.Message, error) {
		return msg, nil
	})
}

// Sender sends a message to a single recipient.
type Sender interface {
	SendMessage(ctx context.Context, msg twilio.Message, to string, useAlphanumericSender bool) (*twilio.Result, error)
	Config() twilio.Config
}

// Option customises the channel during construction.
type Option func(*Channel)

// WithDispatcher sets where NotificationFailed events are sent.
func WithDispatcher(d events.Dispatcher) Option {
	return func(c *Channel) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

// WithClock overrides the clock used to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		if now != nil {
			c.now = now
		}
	}
}

// Channel delivers notifications through Twilio.
type Channel struct {
	sender     Sender
	cfg        twilio.Config
	dispatcher events.Dispatcher
	logger     zerolog.Logger
	now        func() time.Time
}

// New constructs a Channel on top of sender. Failure events are logged
// unless WithDispatcher supplies another destination.
func New(sender Sender, logger zerolog.Logger, opts ...Option) (*Channel, error) {
	if sender == nil {
		return nil, errors.New("channel: sender dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	c := &Channel{
		sender:     sender,
		cfg:        sender.Config(),
		dispatcher: events.NewLogDispatcher(logger),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Send builds the notification's message and sends it to the notifiable.
//
// Every failure, including ErrInvalidReceiver and ErrInvalidMessage, is
// reported to the dispatcher. Failures whose Twilio error code is configured
// as ignored then return (nil, nil).
func (c *Channel) Send(ctx context.Context, notifiable Notifiable, notification Notification) (*twilio.Result, error) {
	to, msg, err := c.prepare(notifiable, notification)
	if err == nil {
		var res *twilio.Result
		res, err = c.sender.SendMessage(ctx, msg, to, canReceiveAlphanumericSender(notifiable))
		if err == nil {
			c.logger.Debug().
				Str("to", to).
				Str("message_type", twilio.Kind(msg)).
				Str("sid", resultSID(res)).
				Msg("twilio notification sent")
			return res, nil
		}
	}

	ignored := c.cfg.IsIgnoredErrorCode(twilio.ErrorCode(err))
	event := events.NewNotificationFailed(Name, to, twilio.Kind(msg), err, ignored, c.now())
	if dispatchErr := c.dispatcher.Dispatch(ctx, event); dispatchErr != nil {
		c.logger.Error().
			Err(dispatchErr).
			Str("event_id", event.ID).
			Msg("failed to dispatch notification failed event")
	}

	if ignored {
		return nil, nil
	}
	return nil, err
}

func (c *Channel) prepare(notifiable Notifiable, notification Notification) (string, twilio.Message, error) {
	to := c.recipient(notifiable)
	if to == "" {
		return "", nil, ErrInvalidReceiver
	}

	if notification == nil {
		return to, nil, ErrInvalidMessage
	}
	msg, err := notification.ToTwilio(notifiable)
	if err != nil {
		return to, nil, err
	}
	if isNil(msg) {
		return to, nil, ErrInvalidMessage
	}
	return to, msg, nil
}

// recipient returns DebugTo when configured, otherwise the notifiable's route.
func (c *Channel) recipient(notifiable Notifiable) string {
	if c.cfg.DebugTo != "" {
		return c.cfg.DebugTo
	}
	if notifiable == nil {
		return ""
	}
	return strings.TrimSpace(notifiable.RouteNotificationFor(Name))
}

func canReceiveAlphanumericSender(notifiable Notifiable) bool {
	r, ok := notifiable.(AlphanumericSenderReceiver)
	return ok && r.CanReceiveAlphanumericSender()
}

func isNil(msg twilio.Message) bool {
	if msg == nil {
		return true
	}
	v := reflect.ValueOf(msg)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func resultSID(res *twilio.Result) string {
	if res == nil {
		return ""
	}
	return res.SID
}
