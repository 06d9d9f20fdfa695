package twilio

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// Adapter turns message variants into Twilio API calls.
type Adapter struct {
	client Client
	cfg    Config
	logger zerolog.Logger
}

// NewAdapter constructs an adapter sending through client with the channel
// defaults in cfg.
func NewAdapter(client Client, cfg Config, logger zerolog.Logger) (*Adapter, error) {
	if client == nil {
		return nil, errors.New("twilio adapter: client dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &Adapter{
		client: client,
		cfg:    cfg.clone(),
		logger: logger,
	}, nil
}

// Config returns a copy of the adapter's channel defaults.
func (a *Adapter) Config() Config {
	return a.cfg.clone()
}

// SendMessage dispatches msg to to. For SMS, useAlphanumericSender replaces
// the sender with the configured alphanumeric name when one is set.
//
// Missing local data fails with ErrMissingSenderAddress, ErrMissingServiceID
// or ErrInvalidMessageVariant before any remote call. Errors from the Twilio
// client are returned as-is.
func (a *Adapter) SendMessage(ctx context.Context, msg Message, to string, useAlphanumericSender bool) (*Result, error) {
	switch m := deref(msg).(type) {
	case SMSMessage:
		return a.sendSMS(ctx, "sms", m, m, smsOptionalParams, to, useAlphanumericSender)
	case MMSMessage:
		return a.sendSMS(ctx, "mms", m.SMSMessage, m, mmsOptionalParams, to, useAlphanumericSender)
	case NotifyMessage:
		return a.sendNotification(ctx, m, to)
	case CallMessage:
		return a.makeCall(ctx, m, to)
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidMessageVariant, msg)
	}
}

func (a *Adapter) sendSMS(ctx context.Context, kind string, sms SMSMessage, src fieldSource, optional []string, to string, useAlphanumericSender bool) (*Result, error) {
	if useAlphanumericSender && a.cfg.AlphanumericSender != "" {
		sms = sms.WithFrom(a.cfg.AlphanumericSender)
	}

	from, err := a.resolveFrom(sms.From())
	if err != nil {
		return nil, err
	}

	params := Params{
		ParamFrom: from,
		ParamBody: strings.TrimSpace(sms.Content()),
	}
	if a.cfg.SMSServiceSID != "" {
		params[ParamMessagingServiceSID] = a.cfg.SMSServiceSID
	}
	copyOptional(params, src, optional...)

	a.logger.Debug().
		Str("kind", kind).
		Str("to", to).
		Str("from", from).
		Int("params", len(params)).
		Msg("twilio adapter creating message")
	return a.client.CreateMessage(ctx, to, params)
}

func (a *Adapter) sendNotification(ctx context.Context, msg NotifyMessage, to string) (*Result, error) {
	params := Params{
		ParamToBinding: smsBinding(to),
		ParamBody:      strings.TrimSpace(msg.Content()),
	}

	serviceSID := msg.ServiceSID()
	if serviceSID == "" {
		serviceSID = a.cfg.NotifyServiceSID
	}
	if serviceSID == "" {
		return nil, ErrMissingServiceID
	}

	a.logger.Debug().
		Str("kind", "notify").
		Str("to", to).
		Str("service_sid", serviceSID).
		Msg("twilio adapter creating notification")
	return a.client.CreateNotification(ctx, serviceSID, params)
}

func (a *Adapter) makeCall(ctx context.Context, msg CallMessage, to string) (*Result, error) {
	from, err := a.resolveFrom(msg.From())
	if err != nil {
		return nil, err
	}

	params := Params{
		ParamURL: strings.TrimSpace(msg.Content()),
	}
	copyOptional(params, msg, callOptionalParams...)

	a.logger.Debug().
		Str("kind", "call").
		Str("to", to).
		Str("from", from).
		Int("params", len(params)).
		Msg("twilio adapter creating call")
	return a.client.CreateCall(ctx, to, from, params)
}

// resolveFrom prefers the message's own sender over the configured default.
func (a *Adapter) resolveFrom(from string) (string, error) {
	if from != "" {
		return from, nil
	}
	if a.cfg.From != "" {
		return a.cfg.From, nil
	}
	return "", ErrMissingSenderAddress
}

// deref lets callers pass pointers to messages as well as values.
func deref(msg Message) Message {
	switch m := msg.(type) {
	case *SMSMessage:
		if m != nil {
			return *m
		}
	case *MMSMessage:
		if m != nil {
			return *m
		}
	case *NotifyMessage:
		if m != nil {
			return *m
		}
	case *CallMessage:
		if m != nil {
			return *m
		}
	default:
		return msg
	}
	return nil
}
