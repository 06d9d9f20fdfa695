package twilio

import (
	"encoding/json"
	"reflect"
)

// Parameter keys sent to the Twilio API.
const (
	ParamFrom                 = "from"
	ParamBody                 = "body"
	ParamMessagingServiceSID  = "messagingServiceSid"
	ParamStatusCallback       = "statusCallback"
	ParamStatusCallbackMethod = "statusCallbackMethod"
	ParamApplicationSID       = "applicationSid"
	ParamMaxPrice             = "maxPrice"
	ParamProvideFeedback      = "provideFeedback"
	ParamValidityPeriod       = "validityPeriod"
	ParamMediaURL             = "mediaUrl"
	ParamURL                  = "url"
	ParamMethod               = "method"
	ParamStatus               = "status"
	ParamFallbackURL          = "fallbackUrl"
	ParamFallbackMethod       = "fallbackMethod"
	ParamToBinding            = "toBinding"
)

var (
	smsOptionalParams = []string{
		ParamStatusCallback,
		ParamStatusCallbackMethod,
		ParamApplicationSID,
		ParamMaxPrice,
		ParamProvideFeedback,
		ParamValidityPeriod,
	}
	mmsOptionalParams = append(append([]string(nil), smsOptionalParams...), ParamMediaURL)

	callOptionalParams = []string{
		ParamStatusCallback,
		ParamStatusCallbackMethod,
		ParamMethod,
		ParamStatus,
		ParamFallbackURL,
		ParamFallbackMethod,
	}
)

// Params is the parameter set handed to one remote operation.
type Params map[string]any

// String returns the value stored under key when it is a string.
func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// fieldSource is implemented by every message variant so the optional-field
// copier can look values up by parameter name.
type fieldSource interface {
	field(name string) (any, bool)
}

// copyOptional copies each named field that is set and truthy from src into
// params. Unset, empty, zero and false values are skipped entirely.
func copyOptional(params Params, src fieldSource, names ...string) {
	for _, name := range names {
		value, ok := src.field(name)
		if !ok || !truthy(value) {
			continue
		}
		params[name] = value
	}
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}

// smsBinding renders the Notify binding for an SMS address. The layout matches
// the historical wire string; the address is JSON-encoded so quotes and
// backslashes cannot break the document.
func smsBinding(to string) string {
	address, _ := json.Marshal(to)
	return `{"binding_type":"sms", "address":` + string(address) + `}`
}
