package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go/client"

	"github.com/example/twilio-notifier/internal/channel"
	"github.com/example/twilio-notifier/internal/twilio"
)

type fakeNotifier struct {
	res   *twilio.Result
	err   error
	calls int
	to    string
	msg   twilio.Message
}

func (f *fakeNotifier) Send(_ context.Context, notifiable channel.Notifiable, notification channel.Notification) (*twilio.Result, error) {
	f.calls++
	f.to = notifiable.RouteNotificationFor(channel.Name)
	msg, err := notification.ToTwilio(notifiable)
	if err != nil {
		return nil, err
	}
	f.msg = msg
	return f.res, f.err
}

func newTestServer(t *testing.T, n *fakeNotifier, checks map[string]ReadyFunc) http.Handler {
	t.Helper()
	h, err := NewHandler(n, checks, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return NewRouter(h, time.Second)
}

func post(t *testing.T, srv http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestNewHandlerRequiresNotifier(t *testing.T) {
	if _, err := NewHandler(nil, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for nil notifier")
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeNotifier{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestReady(t *testing.T) {
	ready := true
	srv := newTestServer(t, &fakeNotifier{}, map[string]ReadyFunc{
		"kafka": func() bool { return ready },
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	ready = false
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decode(t, rec)
	deps, _ := body["dependencies"].(map[string]any)
	if deps["kafka"] != "not_ready" || body["ready"] != false {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSendAccepted(t *testing.T) {
	n := &fakeNotifier{res: &twilio.Result{SID: "SM123", Status: "queued"}}
	srv := newTestServer(t, n, nil)

	rec := post(t, srv, `{"type":"sms","to":"+14155552671","content":"hello","alphanumeric_sender":true}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["sid"] != "SM123" || body["status"] != "queued" {
		t.Fatalf("unexpected body %v", body)
	}
	if n.to != "+14155552671" {
		t.Fatalf("expected recipient to be routed, got %q", n.to)
	}
	if twilio.Kind(n.msg) != "sms" || n.msg.Content() != "hello" {
		t.Fatalf("unexpected message %#v", n.msg)
	}
}

func TestSendIgnored(t *testing.T) {
	srv := newTestServer(t, &fakeNotifier{}, nil)

	rec := post(t, srv, `{"type":"call","to":"+14155552671","content":"https://example.com/voice.xml"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["ignored"] != true {
		t.Fatalf("expected ignored response, got %v", body)
	}
}

func TestSendBadRequests(t *testing.T) {
	cases := map[string]string{
		"malformed json":  `{"type":`,
		"unknown field":   `{"to":"+14155552671","content":"hi","priority":1}`,
		"invalid request": `{"type":"fax","to":"+14155552671","content":"hi"}`,
		"bad recipient":   `{"to":"nope","content":"hi"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			n := &fakeNotifier{}
			rec := post(t, newTestServer(t, n, nil), body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if n.calls != 0 {
				t.Fatalf("expected notifier not to be called")
			}
			if decode(t, rec)["error"] == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestSendRejectsNonJSONContentType(t *testing.T) {
	srv := newTestServer(t, &fakeNotifier{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications", strings.NewReader("to=+1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestSendErrorStatuses(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		wantCode float64
	}{
		{"missing sender", twilio.ErrMissingSenderAddress, http.StatusBadRequest, 0},
		{"missing service", twilio.ErrMissingServiceID, http.StatusBadRequest, 0},
		{"invalid receiver", channel.ErrInvalidReceiver, http.StatusBadRequest, 0},
		{"twilio rejected", &client.TwilioRestError{Code: 20003, Status: 401, Message: "auth"}, http.StatusBadGateway, 20003},
		{"network", errors.New("connection reset"), http.StatusBadGateway, 0},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, newTestServer(t, &fakeNotifier{err: tc.err}, nil), `{"to":"+14155552671","content":"hi"}`)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			body := decode(t, rec)
			if body["error"] != tc.err.Error() {
				t.Fatalf("expected error %q, got %v", tc.err.Error(), body["error"])
			}
			code, _ := body["code"].(float64)
			if code != tc.wantCode {
				t.Fatalf("expected code %v, got %v", tc.wantCode, body["code"])
			}
		})
	}
}

type blockingNotifier struct{}

func (blockingNotifier) Send(ctx context.Context, _ channel.Notifiable, _ channel.Notification) (*twilio.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type headerCounter struct {
	*httptest.ResponseRecorder
	writes int
}

func (h *headerCounter) WriteHeader(status int) {
	h.writes++
	h.ResponseRecorder.WriteHeader(status)
}

func TestSendDeadlineWritesSingleResponse(t *testing.T) {
	h, err := NewHandler(blockingNotifier{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/notifications", strings.NewReader(`{"to":"+14155552671","content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := &headerCounter{ResponseRecorder: httptest.NewRecorder()}

	deadline(20*time.Millisecond)(http.HandlerFunc(h.Send)).ServeHTTP(rec, req)

	if rec.writes != 1 {
		t.Fatalf("expected a single WriteHeader, got %d", rec.writes)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
	body := decode(t, rec.ResponseRecorder)
	if body["error"] != context.DeadlineExceeded.Error() {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestRouterAppliesDeadlineToSend(t *testing.T) {
	h, err := NewHandler(blockingNotifier{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	start := time.Now()
	rec := post(t, NewRouter(h, 20*time.Millisecond), `{"to":"+14155552671","content":"hi"}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("deadline not applied, request took %s", elapsed)
	}
}
