package factory

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/twilio-notifier/internal/config"
	"github.com/example/twilio-notifier/internal/providers/mock"
	"github.com/example/twilio-notifier/internal/twilio"
)

// Twilio constructs the configured Twilio client. Supports the live REST API
// and an in-process mock backend.
func Twilio(cfg config.TwilioConfig, logger zerolog.Logger) (twilio.Client, error) {
	backend := normalize(cfg.Backend, "twilio")
	switch backend {
	case "twilio":
		client, err := twilio.NewRestClient(cfg.Credentials(), logger)
		if err != nil {
			return nil, fmt.Errorf("factory: twilio client init: %w", err)
		}
		logger.Info().
			Str("backend", "twilio").
			Msg("twilio client initialised")
		return client, nil
	case "mock":
		scenario, err := mock.ParseScenario(cfg.MockScenario)
		if err != nil {
			return nil, fmt.Errorf("factory: mock client init: %w", err)
		}
		client := mock.New(logger, mock.WithScenario(scenario))
		logger.Warn().
			Str("backend", "mock").
			Str("scenario", string(scenario)).
			Msg("twilio client initialised; messages will not be delivered")
		return client, nil
	default:
		return nil, fmt.Errorf("factory: unsupported twilio backend %q", cfg.Backend)
	}
}

func normalize(value, def string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return def
	}
	return value
}
