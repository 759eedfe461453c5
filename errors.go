package ghostsync

import (
	"errors"
	"fmt"
)

// The error taxonomy of a sync run. Every failure is classified as exactly
// one of these so that callers can tell a misconfiguration (fix and
// reschedule) from a transient upstream failure (next scheduled run will
// retry) from a malformed third-party payload.
var (
	// ErrConfig marks a fatal configuration error: unknown platform, unknown
	// coin, unmapped enumeration value, missing secret, malformed key.
	ErrConfig = errors.New("configuration error")

	// ErrTransport marks a failed call to an external API. The platform unit
	// that hit it aborts without submitting partial results.
	ErrTransport = errors.New("transport error")

	// ErrData marks a third-party response that does not match its expected
	// schema.
	ErrData = errors.New("data error")
)

// Configf wraps ErrConfig with a formatted message.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Transportf wraps ErrTransport with a formatted message.
func Transportf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransport, fmt.Sprintf(format, args...))
}

// Dataf wraps ErrData with a formatted message.
func Dataf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}
