package twilio

import (
	"errors"

	"github.com/twilio/twilio-go/client"
)

// Local failures raised before any remote call is attempted.
var (
	ErrInvalidMessageVariant = errors.New("twilio: message is not an sms, mms, notify or call message")
	ErrMissingSenderAddress  = errors.New("twilio: no sender address on the message or in config")
	ErrMissingServiceID      = errors.New("twilio: no notify service sid on the message or in config")
)

// ErrorCode returns the Twilio API error code carried by err, or 0 when err
// did not come from the Twilio REST API.
func ErrorCode(err error) int {
	var restErr *client.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Code
	}
	return 0
}
