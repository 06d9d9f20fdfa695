package models

import "time"

// NotificationFailed describes a send that Twilio or the adapter rejected.
// It is emitted whether or not the error is later ignored.
type NotificationFailed struct {
	ID          string    `json:"id"`
	Channel     string    `json:"channel"`
	Recipient   string    `json:"recipient"`
	MessageType string    `json:"message_type"`
	Error       string    `json:"error"`
	Code        int       `json:"code,omitempty"`
	Ignored     bool      `json:"ignored"`
	Timestamp   time.Time `json:"timestamp"`
}
