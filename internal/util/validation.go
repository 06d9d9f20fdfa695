package util

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidPhone is returned when a phone number is not E.164 compliant.
	ErrInvalidPhone = errors.New("invalid e164 phone number")
	// ErrInvalidURL indicates that a URL failed validation.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidSID is returned when a Twilio resource SID is malformed.
	ErrInvalidSID = errors.New("invalid twilio sid")
	// ErrInvalidMethod is returned for HTTP methods Twilio will not call back with.
	ErrInvalidMethod = errors.New("invalid http method")
)

var (
	e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	sidPattern  = regexp.MustCompile(`^[A-Z]{2}[0-9a-fA-F]{32}$`)
	phoneNoise  = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// NormalizeE164 validates a phone number using the E.164 format and returns the
// normalized representation. Spaces, dashes, dots and parentheses are removed
// first so "+1 (415) 555-2671" is accepted.
func NormalizeE164(value string) (string, error) {
	trimmed := phoneNoise.Replace(strings.TrimSpace(value))
	if trimmed == "" {
		return "", fmt.Errorf("%w: value is empty", ErrInvalidPhone)
	}

	if !e164Pattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, value)
	}

	return trimmed, nil
}

// NormalizeE164List validates each phone number in the slice.
func NormalizeE164List(values []string, min, max int) ([]string, error) {
	count := len(values)
	if min > 0 && count < min {
		return nil, fmt.Errorf("expected at least %d phone number(s); got %d", min, count)
	}
	if max > 0 && count > max {
		return nil, fmt.Errorf("expected at most %d phone number(s); got %d", max, count)
	}

	if count == 0 {
		return nil, nil
	}

	result := make([]string, 0, count)
	for idx, value := range values {
		normalized, err := NormalizeE164(value)
		if err != nil {
			return nil, fmt.Errorf("phone[%d]: %w", idx, err)
		}
		result = append(result, normalized)
	}
	return result, nil
}

// ValidateHTTPURL ensures the provided string is a valid HTTP or HTTPS URL.
func ValidateHTTPURL(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: value is empty", ErrInvalidURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	return trimmed, nil
}

// ValidateHTTPURLs validates every URL in the slice, allowing at most max.
func ValidateHTTPURLs(values []string, max int) ([]string, error) {
	if max > 0 && len(values) > max {
		return nil, fmt.Errorf("expected at most %d url(s); got %d", max, len(values))
	}
	if len(values) == 0 {
		return nil, nil
	}

	result := make([]string, 0, len(values))
	for idx, value := range values {
		u, err := ValidateHTTPURL(value)
		if err != nil {
			return nil, fmt.Errorf("url[%d]: %w", idx, err)
		}
		result = append(result, u)
	}
	return result, nil
}

// ValidateSID checks a Twilio resource SID, optionally restricting its
// two-letter prefix (e.g. "IS" for Notify services).
func ValidateSID(value string, prefixes ...string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !sidPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSID, value)
	}
	if len(prefixes) == 0 {
		return trimmed, nil
	}
	for _, p := range prefixes {
		if strings.HasPrefix(trimmed, p) {
			return trimmed, nil
		}
	}
	return "", fmt.Errorf("%w: %q must start with one of %s", ErrInvalidSID, value, strings.Join(prefixes, ", "))
}

// ValidateCallbackMethod accepts GET or POST in any case and returns it upper-cased.
func ValidateCallbackMethod(value string) (string, error) {
	method := strings.ToUpper(strings.TrimSpace(value))
	if method != "GET" && method != "POST" {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, value)
	}
	return method, nil
}

// EnsureMaxRunes ensures a string is not longer than the provided rune count.
func EnsureMaxRunes(field, value string, max int) error {
	if max <= 0 {
		return nil
	}
	length := utf8.RuneCountInString(value)
	if length > max {
		return fmt.Errorf("%s exceeds maximum length of %d characters", field, max)
	}
	return nil
}
