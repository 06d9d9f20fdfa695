package models

// Message types accepted by SendRequest.
const (
	TypeSMS    = "sms"
	TypeMMS    = "mms"
	TypeNotify = "notify"
	TypeCall   = "call"
)

// SendRequest is the wire shape of an on-demand notification, shared by the
// HTTP API and the send CLI.
type SendRequest struct {
	Type               string      `json:"type"`
	To                 string      `json:"to"`
	Content            string      `json:"content"`
	From               string      `json:"from,omitempty"`
	ServiceSID         string      `json:"service_sid,omitempty"`
	MediaURLs          []string    `json:"media_urls,omitempty"`
	AlphanumericSender bool        `json:"alphanumeric_sender,omitempty"`
	Options            SendOptions `json:"options"`
}

// SendOptions carries the optional Twilio parameters. Pointer fields
// distinguish "not sent" from a zero value.
type SendOptions struct {
	StatusCallback       string   `json:"status_callback,omitempty"`
	StatusCallbackMethod string   `json:"status_callback_method,omitempty"`
	ApplicationSID       string   `json:"application_sid,omitempty"`
	MaxPrice             *float32 `json:"max_price,omitempty"`
	ProvideFeedback      *bool    `json:"provide_feedback,omitempty"`
	ValidityPeriod       *int     `json:"validity_period,omitempty"`
	Method               string   `json:"method,omitempty"`
	Status               string   `json:"status,omitempty"`
	FallbackURL          string   `json:"fallback_url,omitempty"`
	FallbackMethod       string   `json:"fallback_method,omitempty"`
}

// SendResponse is returned for an accepted or ignored send.
type SendResponse struct {
	SID     string `json:"sid,omitempty"`
	Status  string `json:"status,omitempty"`
	Ignored bool   `json:"ignored,omitempty"`
}
