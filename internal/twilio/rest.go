package twilio

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
	twiliosdk "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	notify "github.com/twilio/twilio-go/rest/notify/v1"
)

// Credentials authenticate against the Twilio REST API. Username and
// Password carry an API key pair; when empty the account SID and auth token
// are used instead.
type Credentials struct {
	AccountSID string
	AuthToken  string
	Username   string
	Password   string
}

type messagingAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
}

type notifyAPI interface {
	CreateNotification(serviceSid string, params *notify.CreateNotificationParams) (*notify.NotifyV1Notification, error)
}

// RestClient implements Client on top of the official twilio-go SDK.
type RestClient struct {
	api    messagingAPI
	notify notifyAPI
	logger zerolog.Logger
}

// NewRestClient constructs a client authenticated with creds.
func NewRestClient(creds Credentials, logger zerolog.Logger) (*RestClient, error) {
	accountSID := strings.TrimSpace(creds.AccountSID)
	if accountSID == "" {
		return nil, errors.New("twilio rest client: account SID is required")
	}
	username := strings.TrimSpace(creds.Username)
	password := strings.TrimSpace(creds.Password)
	if username == "" || password == "" {
		username = accountSID
		password = strings.TrimSpace(creds.AuthToken)
	}
	if password == "" {
		return nil, errors.New("twilio rest client: auth token or api key secret is required")
	}

	sdk := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username:   username,
		Password:   password,
		AccountSid: accountSID,
	})
	return newRestClient(sdk.Api, sdk.NotifyV1, logger), nil
}

func newRestClient(api messagingAPI, notifier notifyAPI, logger zerolog.Logger) *RestClient {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &RestClient{api: api, notify: notifier, logger: logger}
}

// CreateMessage sends an SMS or MMS through the Messages resource.
func (c *RestClient) CreateMessage(ctx context.Context, to string, params Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &openapi.CreateMessageParams{}
	req.SetTo(to)
	for key, value := range params {
		var err error
		switch key {
		case ParamFrom:
			err = setValue(key, value, req.SetFrom)
		case ParamBody:
			err = setValue(key, value, req.SetBody)
		case ParamMessagingServiceSID:
			err = setValue(key, value, req.SetMessagingServiceSid)
		case ParamStatusCallback:
			err = setValue(key, value, req.SetStatusCallback)
		case ParamApplicationSID:
			err = setValue(key, value, req.SetApplicationSid)
		case ParamMaxPrice:
			err = setValue(key, value, req.SetMaxPrice)
		case ParamProvideFeedback:
			err = setValue(key, value, req.SetProvideFeedback)
		case ParamValidityPeriod:
			err = setValue(key, value, req.SetValidityPeriod)
		case ParamMediaURL:
			err = setValue(key, value, req.SetMediaUrl)
		default:
			c.skipped("message", key)
		}
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.api.CreateMessage(req)
	if err != nil {
		return nil, err
	}
	return &Result{SID: stringValue(resp.Sid), Status: stringValue(resp.Status)}, nil
}

// CreateCall starts a call through the Calls resource.
func (c *RestClient) CreateCall(ctx context.Context, to, from string, params Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &openapi.CreateCallParams{}
	req.SetTo(to)
	req.SetFrom(from)
	for key, value := range params {
		var err error
		switch key {
		case ParamURL:
			err = setValue(key, value, req.SetUrl)
		case ParamMethod:
			err = setValue(key, value, req.SetMethod)
		case ParamStatusCallback:
			err = setValue(key, value, req.SetStatusCallback)
		case ParamStatusCallbackMethod:
			err = setValue(key, value, req.SetStatusCallbackMethod)
		case ParamFallbackURL:
			err = setValue(key, value, req.SetFallbackUrl)
		case ParamFallbackMethod:
			err = setValue(key, value, req.SetFallbackMethod)
		default:
			c.skipped("call", key)
		}
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.api.CreateCall(req)
	if err != nil {
		return nil, err
	}
	return &Result{SID: stringValue(resp.Sid), Status: stringValue(resp.Status)}, nil
}

// CreateNotification sends through the Notify service identified by serviceSID.
func (c *RestClient) CreateNotification(ctx context.Context, serviceSID string, params Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &notify.CreateNotificationParams{}
	for key, value := range params {
		var err error
		switch key {
		case ParamToBinding:
			err = setValue(key, value, func(binding string) *notify.CreateNotificationParams {
				return req.SetToBinding([]string{binding})
			})
		case ParamBody:
			err = setValue(key, value, req.SetBody)
		default:
			c.skipped("notification", key)
		}
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.notify.CreateNotification(serviceSID, req)
	if err != nil {
		return nil, err
	}
	return &Result{SID: stringValue(resp.Sid)}, nil
}

func (c *RestClient) skipped(resource, key string) {
	c.logger.Debug().
		Str("resource", resource).
		Str("param", key).
		Msg("twilio rest client: parameter has no api field, skipped")
}

// setValue hands value to an SDK setter when it has the setter's type.
func setValue[T, R any](key string, value any, set func(T) R) error {
	v, ok := value.(T)
	if !ok {
		var want T
		return fmt.Errorf("twilio rest client: parameter %q must be %T, got %T", key, want, value)
	}
	set(v)
	return nil
}

func stringValue[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}
