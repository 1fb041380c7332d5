package types

import "errors"

// ErrDataUnavailable marks required upstream data as missing for a date.
// Runs that hit it fail but are safe to retry once ingestion catches up.
var ErrDataUnavailable = errors.New("data unavailable")

// IsDataUnavailable reports whether err wraps ErrDataUnavailable.
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}
