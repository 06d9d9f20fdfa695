package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/example/twilio-notifier/internal/channel"
	"github.com/example/twilio-notifier/internal/models"
	"github.com/example/twilio-notifier/internal/twilio"
)

const maxBodyBytes = 64 << 10

// Notifier sends a notification to a notifiable.
type Notifier interface {
	Send(ctx context.Context, notifiable channel.Notifiable, notification channel.Notification) (*twilio.Result, error)
}

// ReadyFunc reports whether a dependency is ready to serve traffic.
type ReadyFunc func() bool

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	notifier Notifier
	checks   map[string]ReadyFunc
	logger   zerolog.Logger
}

// NewHandler creates a Handler. checks are reported by /readyz by name.
func NewHandler(notifier Notifier, checks map[string]ReadyFunc, logger zerolog.Logger) (*Handler, error) {
	if notifier == nil {
		return nil, errors.New("httpapi: notifier dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &Handler{notifier: notifier, checks: checks, logger: logger}, nil
}

type errorResp struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if check == nil || check() {
			deps[name] = "ready"
			continue
		}
		deps[name] = "not_ready"
		status = http.StatusServiceUnavailable
	}
	jsonOK(w, status, map[string]any{"ready": status == http.StatusOK, "dependencies": deps})
}

// Send handles POST /v1/notifications
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.SendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	notifiable, msg, err := channel.FromRequest(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.notifier.Send(r.Context(), notifiable, channel.Message(msg))
	if err != nil {
		status := statusFor(err)
		h.logger.Warn().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("message_type", twilio.Kind(msg)).
			Int("status", status).
			Msg("notification send failed")
		jsonOK(w, status, errorResp{Error: err.Error(), Code: twilio.ErrorCode(err)})
		return
	}

	if res == nil {
		jsonOK(w, http.StatusOK, models.SendResponse{Ignored: true})
		return
	}
	jsonOK(w, http.StatusAccepted, models.SendResponse{SID: res.SID, Status: res.Status})
}

// statusFor maps a send error to an HTTP status. Failures detected before
// Twilio was called are the caller's fault; everything else is upstream.
func statusFor(err error) int {
	switch {
	case errors.Is(err, channel.ErrInvalidReceiver),
		errors.Is(err, channel.ErrInvalidMessage),
		errors.Is(err, twilio.ErrInvalidMessageVariant),
		errors.Is(err, twilio.ErrMissingSenderAddress),
		errors.Is(err, twilio.ErrMissingServiceID):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// --- helpers ---

func jsonOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonOK(w, status, errorResp{Error: msg})
}
