package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/twilio-notifier/internal/app"
	"github.com/example/twilio-notifier/internal/config"
	"github.com/example/twilio-notifier/internal/httpapi"
	"github.com/example/twilio-notifier/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	log, err := logger.New("twilio-notifier", cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}

	a, err := app.Build(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire notification channel")
	}
	defer a.Close()

	checks := map[string]httpapi.ReadyFunc{}
	if a.Producer != nil {
		checks["kafka"] = a.Producer.IsReady
	}

	handler, err := httpapi.NewHandler(a.Channel, checks, logger.Component(log, "http"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise http handler")
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      httpapi.NewRouter(handler, timeout),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("backend", cfg.Twilio.Backend).
		Bool("kafka", a.Producer != nil).
		Msg("twilio notifier started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server terminated with error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("twilio notifier init failed")
}
