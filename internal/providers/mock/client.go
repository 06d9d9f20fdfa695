package mock

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go/client"

	"github.com/example/twilio-notifier/internal/twilio"
)

// Scenario enumerates the behaviours supported by the mock client.
type Scenario string

const (
	ScenarioSuccess  Scenario = "success"
	ScenarioRejected Scenario = "rejected"
	ScenarioTimeout  Scenario = "timeout"
)

// ParseScenario maps a configuration value to a Scenario, defaulting to success.
func ParseScenario(value string) (Scenario, error) {
	switch s := Scenario(strings.ToLower(strings.TrimSpace(value))); s {
	case "":
		return ScenarioSuccess, nil
	case ScenarioSuccess, ScenarioRejected, ScenarioTimeout:
		return s, nil
	default:
		return "", fmt.Errorf("mock: unknown scenario %q", value)
	}
}

// Option customises the mock client.
type Option func(*Client)

// WithScenario sets the behaviour of every call.
func WithScenario(s Scenario) Option {
	return func(c *Client) {
		c.scenario = s
	}
}

// WithRejectCode sets the Twilio error code returned by ScenarioRejected.
func WithRejectCode(code int) Option {
	return func(c *Client) {
		c.rejectCode = code
	}
}

// WithLatency configures the artificial latency injected before responding.
func WithLatency(d time.Duration) Option {
	return func(c *Client) {
		if d < 0 {
			d = 0
		}
		c.latency = d
	}
}

// Client is an in-process twilio.Client for local runs and tests. It never
// contacts Twilio.
type Client struct {
	logger     zerolog.Logger
	scenario   Scenario
	rejectCode int
	latency    time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// New constructs a mock client.
func New(logger zerolog.Logger, opts ...Option) *Client {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	c := &Client{
		logger:     logger,
		scenario:   ScenarioSuccess,
		rejectCode: 21211,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- ids only need to look unique.
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// CreateMessage implements twilio.Client.
func (c *Client) CreateMessage(ctx context.Context, to string, params twilio.Params) (*twilio.Result, error) {
	c.logger.Info().
		Str("to", to).
		Str("from", params.String(twilio.ParamFrom)).
		Str("body", params.String(twilio.ParamBody)).
		Msg("mock twilio message")
	return c.respond(ctx, "SM")
}

// CreateCall implements twilio.Client.
func (c *Client) CreateCall(ctx context.Context, to, from string, params twilio.Params) (*twilio.Result, error) {
	c.logger.Info().
		Str("to", to).
		Str("from", from).
		Str("url", params.String(twilio.ParamURL)).
		Msg("mock twilio call")
	return c.respond(ctx, "CA")
}

// CreateNotification implements twilio.Client.
func (c *Client) CreateNotification(ctx context.Context, serviceSID string, params twilio.Params) (*twilio.Result, error) {
	c.logger.Info().
		Str("service_sid", serviceSID).
		Str("binding", params.String(twilio.ParamToBinding)).
		Str("body", params.String(twilio.ParamBody)).
		Msg("mock twilio notification")
	return c.respond(ctx, "NT")
}

func (c *Client) respond(ctx context.Context, prefix string) (*twilio.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.latency > 0 || c.scenario == ScenarioTimeout {
		var timeout <-chan time.Time
		if c.scenario != ScenarioTimeout {
			timer := time.NewTimer(c.latency)
			defer timer.Stop()
			timeout = timer.C
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout:
		}
	}

	if c.scenario == ScenarioRejected {
		return nil, &client.TwilioRestError{
			Code:    c.rejectCode,
			Status:  400,
			Message: "mock: request rejected",
		}
	}

	return &twilio.Result{SID: c.generateSID(prefix), Status: "queued"}, nil
}

func (c *Client) generateSID(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%s%016x%016x", prefix, c.rnd.Uint64(), c.rnd.Uint64())
}
