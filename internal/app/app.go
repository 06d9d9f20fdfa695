package app

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/example/twilio-notifier/internal/channel"
	"github.com/example/twilio-notifier/internal/config"
	"github.com/example/twilio-notifier/internal/events"
	"github.com/example/twilio-notifier/internal/kafka/producer"
	kafkapublisher "github.com/example/twilio-notifier/internal/kafka/publisher"
	"github.com/example/twilio-notifier/internal/logger"
	"github.com/example/twilio-notifier/internal/providers/factory"
	"github.com/example/twilio-notifier/internal/twilio"
)

// App bundles the wired notification channel and the resources it owns.
type App struct {
	Channel  *channel.Channel
	Producer *producer.Producer

	logger zerolog.Logger
}

// Build wires config into a ready Channel: Twilio client, adapter, failure
// event dispatchers and, when brokers are configured, the Kafka producer.
func Build(cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if reflect.ValueOf(log).IsZero() {
		log = zerolog.Nop()
	}

	client, err := factory.Twilio(cfg.Twilio, logger.Component(log, "twilio-client"))
	if err != nil {
		return nil, err
	}

	adapter, err := twilio.NewAdapter(client, cfg.Twilio.Channel(), logger.Component(log, "twilio-adapter"))
	if err != nil {
		return nil, fmt.Errorf("app: adapter init: %w", err)
	}

	a := &App{logger: log}
	dispatchers := []events.Dispatcher{events.NewLogDispatcher(logger.Component(log, "events"))}

	if len(cfg.Kafka.Brokers) > 0 {
		prod, err := producer.New(cfg.Kafka.Brokers, logger.Component(log, "kafka"))
		if err != nil {
			return nil, fmt.Errorf("app: kafka producer init: %w", err)
		}
		a.Producer = prod
		dispatchers = append(dispatchers, kafkapublisher.NewFailurePublisher(prod, cfg.Kafka.NotificationFailed, logger.Component(log, "failure-publisher")))
	}

	ch, err := channel.New(adapter, logger.Component(log, "channel"), channel.WithDispatcher(events.Multi(dispatchers...)))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: channel init: %w", err)
	}
	a.Channel = ch

	return a, nil
}

// Close releases the Kafka producer when one was created.
func (a *App) Close() error {
	if a == nil || a.Producer == nil {
		return nil
	}
	if err := a.Producer.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to close kafka producer")
		return err
	}
	return nil
}
