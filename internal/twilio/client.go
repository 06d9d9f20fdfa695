package twilio

import "context"

// Result describes the resource Twilio created for a send.
type Result struct {
	SID    string `json:"sid"`
	Status string `json:"status,omitempty"`
}

// Client is the subset of the Twilio API the dispatcher calls.
type Client interface {
	// CreateMessage sends an SMS or MMS to the recipient.
	CreateMessage(ctx context.Context, to string, params Params) (*Result, error)
	// CreateCall starts a voice call from one number to another.
	CreateCall(ctx context.Context, to, from string, params Params) (*Result, error)
	// CreateNotification sends a notification through a Notify service.
	CreateNotification(ctx context.Context, serviceSID string, params Params) (*Result, error)
}
