package twilio

import "slices"

// DefaultIgnoredErrorCodes are Twilio error codes that describe a bad
// recipient rather than a broken integration: 21608 unverified number on a
// trial account, 21211 invalid "To", 21614 not a mobile number, 21408 region
// not enabled.
var DefaultIgnoredErrorCodes = []int{21608, 21211, 21614, 21408}

// Config holds the channel-wide sending defaults. Empty fields mean "not
// configured".
type Config struct {
	// From is the default sender for SMS and calls.
	From string
	// AlphanumericSender replaces the SMS sender when the caller opts in.
	AlphanumericSender string
	// SMSServiceSID is sent as messagingServiceSid on every SMS.
	SMSServiceSID string
	// NotifyServiceSID is used for Notify messages that name no service.
	NotifyServiceSID string
	// DebugTo redirects every notification to this number.
	DebugTo string
	// IgnoredErrorCodes lists Twilio error codes the channel swallows after
	// reporting them.
	IgnoredErrorCodes []int
	// IgnoreAllErrors swallows every send failure after reporting it.
	IgnoreAllErrors bool
}

// IsIgnoredErrorCode reports whether failures with code should not be
// returned to the caller.
func (c Config) IsIgnoredErrorCode(code int) bool {
	if c.IgnoreAllErrors {
		return true
	}
	return code != 0 && slices.Contains(c.IgnoredErrorCodes, code)
}

func (c Config) clone() Config {
	c.IgnoredErrorCodes = slices.Clone(c.IgnoredErrorCodes)
	return c
}
