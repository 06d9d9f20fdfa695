package channel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/twilio-notifier/internal/models"
	"github.com/example/twilio-notifier/internal/twilio"
	"github.com/example/twilio-notifier/internal/util"
)

const (
	// MaxContentRunes is the longest body Twilio accepts for a message.
	MaxContentRunes = 1600
	// MaxMediaURLs is the most media attachments Twilio accepts on an MMS.
	MaxMediaURLs = 10
)

// ErrInvalidRequest wraps every validation failure from FromRequest.
var ErrInvalidRequest = errors.New("channel: invalid request")

// FromRequest validates an on-demand send request and converts it into a
// notifiable and the message to send it.
func FromRequest(req models.SendRequest) (AnonymousNotifiable, twilio.Message, error) {
	to, err := util.NormalizeE164(req.To)
	if err != nil {
		return AnonymousNotifiable{}, nil, invalid("to: %v", err)
	}
	notifiable := Route(to).WithAlphanumericSender(req.AlphanumericSender)

	kind := strings.ToLower(strings.TrimSpace(req.Type))
	if kind == "" {
		kind = models.TypeSMS
		if len(req.MediaURLs) > 0 {
			kind = models.TypeMMS
		}
	}
	if err := checkOptions(kind, req.Options); err != nil {
		return AnonymousNotifiable{}, nil, err
	}

	var msg twilio.Message
	switch kind {
	case models.TypeSMS, models.TypeMMS:
		msg, err = buildSMS(kind, req)
	case models.TypeNotify:
		msg, err = buildNotify(req)
	case models.TypeCall:
		msg, err = buildCall(req)
	default:
		err = invalid("type: unsupported message type %q", req.Type)
	}
	if err != nil {
		return AnonymousNotifiable{}, nil, err
	}
	return notifiable, msg, nil
}

func buildSMS(kind string, req models.SendRequest) (twilio.Message, error) {
	content := strings.TrimSpace(req.Content)
	if err := util.EnsureMaxRunes("content", content, MaxContentRunes); err != nil {
		return nil, invalid("%v", err)
	}
	media, err := util.ValidateHTTPURLs(req.MediaURLs, MaxMediaURLs)
	if err != nil {
		return nil, invalid("media_urls: %v", err)
	}
	if kind == models.TypeSMS && len(media) > 0 {
		kind = models.TypeMMS
	}
	if kind == models.TypeMMS && len(media) == 0 {
		return nil, invalid("media_urls: at least one url is required for mms")
	}
	if content == "" && len(media) == 0 {
		return nil, invalid("content: value is empty")
	}

	opts := req.Options
	msg := twilio.NewSMSMessage(content)
	if req.From != "" {
		msg = msg.WithFrom(strings.TrimSpace(req.From))
	}
	if opts.StatusCallback != "" {
		u, err := util.ValidateHTTPURL(opts.StatusCallback)
		if err != nil {
			return nil, invalid("options.status_callback: %v", err)
		}
		msg = msg.WithStatusCallback(u)
	}
	if opts.StatusCallbackMethod != "" {
		m, err := util.ValidateCallbackMethod(opts.StatusCallbackMethod)
		if err != nil {
			return nil, invalid("options.status_callback_method: %v", err)
		}
		msg = msg.WithStatusCallbackMethod(m)
	}
	if opts.ApplicationSID != "" {
		sid, err := util.ValidateSID(opts.ApplicationSID, "AP")
		if err != nil {
			return nil, invalid("options.application_sid: %v", err)
		}
		msg = msg.WithApplicationSID(sid)
	}
	if opts.MaxPrice != nil {
		if *opts.MaxPrice < 0 {
			return nil, invalid("options.max_price: must not be negative")
		}
		msg = msg.WithMaxPrice(*opts.MaxPrice)
	}
	if opts.ProvideFeedback != nil {
		msg = msg.WithProvideFeedback(*opts.ProvideFeedback)
	}
	if opts.ValidityPeriod != nil {
		if *opts.ValidityPeriod < 1 || *opts.ValidityPeriod > 14400 {
			return nil, invalid("options.validity_period: must be between 1 and 14400 seconds")
		}
		msg = msg.WithValidityPeriod(*opts.ValidityPeriod)
	}

	if kind == models.TypeMMS {
		return msg.WithMediaURLs(media...), nil
	}
	return msg, nil
}

func buildNotify(req models.SendRequest) (twilio.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, invalid("content: value is empty")
	}
	if err := util.EnsureMaxRunes("content", content, MaxContentRunes); err != nil {
		return nil, invalid("%v", err)
	}
	if req.From != "" || len(req.MediaURLs) > 0 {
		return nil, invalid("from and media_urls are not supported for notify messages")
	}

	msg := twilio.NewNotifyMessage(content)
	if req.ServiceSID != "" {
		sid, err := util.ValidateSID(req.ServiceSID, "IS")
		if err != nil {
			return nil, invalid("service_sid: %v", err)
		}
		msg = msg.WithServiceSID(sid)
	}
	return msg, nil
}

func buildCall(req models.SendRequest) (twilio.Message, error) {
	twiml, err := util.ValidateHTTPURL(req.Content)
	if err != nil {
		return nil, invalid("content: call content must be a twiml url: %v", err)
	}
	if len(req.MediaURLs) > 0 {
		return nil, invalid("media_urls: not supported for calls")
	}

	opts := req.Options
	msg := twilio.NewCallMessage(twiml)
	if req.From != "" {
		from, err := util.NormalizeE164(req.From)
		if err != nil {
			return nil, invalid("from: %v", err)
		}
		msg = msg.WithFrom(from)
	}
	if opts.StatusCallback != "" {
		u, err := util.ValidateHTTPURL(opts.StatusCallback)
		if err != nil {
			return nil, invalid("options.status_callback: %v", err)
		}
		msg = msg.WithStatusCallback(u)
	}
	if opts.FallbackURL != "" {
		u, err := util.ValidateHTTPURL(opts.FallbackURL)
		if err != nil {
			return nil, invalid("options.fallback_url: %v", err)
		}
		msg = msg.WithFallbackURL(u)
	}
	if opts.StatusCallbackMethod != "" {
		m, err := util.ValidateCallbackMethod(opts.StatusCallbackMethod)
		if err != nil {
			return nil, invalid("options.status_callback_method: %v", err)
		}
		msg = msg.WithStatusCallbackMethod(m)
	}
	if opts.Method != "" {
		m, err := util.ValidateCallbackMethod(opts.Method)
		if err != nil {
			return nil, invalid("options.method: %v", err)
		}
		msg = msg.WithMethod(m)
	}
	if opts.FallbackMethod != "" {
		m, err := util.ValidateCallbackMethod(opts.FallbackMethod)
		if err != nil {
			return nil, invalid("options.fallback_method: %v", err)
		}
		msg = msg.WithFallbackMethod(m)
	}
	if opts.Status != "" {
		msg = msg.WithStatus(strings.TrimSpace(opts.Status))
	}
	return msg, nil
}

// checkOptions rejects options that the message type cannot carry.
func checkOptions(kind string, opts models.SendOptions) error {
	var unsupported []string
	add := func(set bool, name string) {
		if set {
			unsupported = append(unsupported, name)
		}
	}

	switch kind {
	case models.TypeSMS, models.TypeMMS:
		add(opts.Method != "", "method")
		add(opts.Status != "", "status")
		add(opts.FallbackURL != "", "fallback_url")
		add(opts.FallbackMethod != "", "fallback_method")
	case models.TypeCall:
		add(opts.ApplicationSID != "", "application_sid")
		add(opts.MaxPrice != nil, "max_price")
		add(opts.ProvideFeedback != nil, "provide_feedback")
		add(opts.ValidityPeriod != nil, "validity_period")
	case models.TypeNotify:
		if opts != (models.SendOptions{}) {
			return invalid("options: not supported for notify messages")
		}
	}

	if len(unsupported) > 0 {
		return invalid("options: %s not supported for %s messages", strings.Join(unsupported, ", "), kind)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
