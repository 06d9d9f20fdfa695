package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/twilio-notifier/internal/twilio"
)

// Config captures all runtime configuration for the notifier.
type Config struct {
	App    AppConfig
	Twilio TwilioConfig
	Kafka  KafkaConfig
	HTTP   HTTPConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// TwilioConfig stores Twilio credentials and the channel-wide sending defaults.
type TwilioConfig struct {
	Backend            string
	MockScenario       string
	AccountSID         string
	AuthToken          string
	Username           string
	Password           string
	From               string
	AlphanumericSender string
	SMSServiceSID      string
	NotifyServiceSID   string
	DebugTo            string
	IgnoredErrorCodes  []int
	IgnoreAllErrors    bool
}

// KafkaConfig is optional; failure events are only published when brokers are set.
type KafkaConfig struct {
	Brokers            []string
	NotificationFailed string
}

// HTTPConfig controls the HTTP surface.
type HTTPConfig struct {
	Port           int
	TimeoutSeconds int
}

// Credentials returns the values used to authenticate with the REST API.
func (c TwilioConfig) Credentials() twilio.Credentials {
	return twilio.Credentials{
		AccountSID: c.AccountSID,
		AuthToken:  c.AuthToken,
		Username:   c.Username,
		Password:   c.Password,
	}
}

// Channel returns the sending defaults handed to the adapter.
func (c TwilioConfig) Channel() twilio.Config {
	return twilio.Config{
		From:               c.From,
		AlphanumericSender: c.AlphanumericSender,
		SMSServiceSID:      c.SMSServiceSID,
		NotifyServiceSID:   c.NotifyServiceSID,
		DebugTo:            c.DebugTo,
		IgnoredErrorCodes:  append([]int(nil), c.IgnoredErrorCodes...),
		IgnoreAllErrors:    c.IgnoreAllErrors,
	}
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Twilio.Backend = strings.ToLower(ldr.getString("TWILIO_BACKEND", "twilio", false))
	cfg.Twilio.MockScenario = ldr.getString("TWILIO_MOCK_SCENARIO", "success", false)

	// Credentials are only needed when talking to the real API.
	live := cfg.Twilio.Backend == "twilio"
	cfg.Twilio.AccountSID = ldr.getString("TWILIO_ACCOUNT_SID", "", live)
	cfg.Twilio.Username = ldr.getString("TWILIO_USERNAME", "", false)
	cfg.Twilio.Password = ldr.getString("TWILIO_PASSWORD", "", false)
	cfg.Twilio.AuthToken = ldr.getString("TWILIO_AUTH_TOKEN", "", live && (cfg.Twilio.Username == "" || cfg.Twilio.Password == ""))
	cfg.Twilio.From = ldr.getString("TWILIO_FROM", "", false)
	cfg.Twilio.AlphanumericSender = ldr.getString("TWILIO_ALPHANUMERIC_SENDER", "", false)
	cfg.Twilio.SMSServiceSID = ldr.getString("TWILIO_SMS_SERVICE_SID", "", false)
	cfg.Twilio.NotifyServiceSID = ldr.getString("TWILIO_NOTIFY_SERVICE_SID", "", false)
	cfg.Twilio.DebugTo = ldr.getString("TWILIO_DEBUG_TO", "", false)
	cfg.Twilio.IgnoredErrorCodes, cfg.Twilio.IgnoreAllErrors = ldr.getErrorCodes("TWILIO_IGNORED_ERROR_CODES", twilio.DefaultIgnoredErrorCodes)

	cfg.Kafka.Brokers = ldr.getStringSlice("KAFKA_BROKERS", false)
	cfg.Kafka.NotificationFailed = ldr.getString("KAFKA_NOTIFICATION_FAILED_TOPIC", "twilio.notification.failed", false)

	cfg.HTTP.Port = ldr.getInt("APP_PORT", 8080, false)
	cfg.HTTP.TimeoutSeconds = ldr.getInt("HTTP_TIMEOUT_SECONDS", 30, false)

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	raw := l.getString(key, "", required)
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

// getErrorCodes parses a comma separated list of Twilio error codes. A lone
// "*" ignores every error.
func (l *envLoader) getErrorCodes(key string, def []int) ([]int, bool) {
	raw := l.getString(key, "", false)
	if raw == "" {
		return append([]int(nil), def...), false
	}
	if raw == "*" {
		return nil, true
	}
	var codes []int
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		code, err := strconv.Atoi(p)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a list of integers or *", key))
			return append([]int(nil), def...), false
		}
		codes = append(codes, code)
	}
	return codes, false
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
