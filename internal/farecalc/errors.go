// Package farecalc implements the fare calculation line formatter: a
// multi-pass text-layout engine that renders a priced itinerary's fare
// breakdown into the fixed-column, wrapping fare calculation display, plus
// the totals aggregation and warning collection around it.
package farecalc

import (
	"errors"
	"fmt"
)

// ErrExceedLength is returned when a formatted amount exceeds the configured
// maximum field length. It aborts the whole response build for the
// transaction.
var ErrExceedLength = errors.New("exceed length - unable to calculate fare")

// ErrSystem marks an internal invariant violation, such as a travel segment
// that cannot be located in its own itinerary.
var ErrSystem = errors.New("system error")

// systemErrorf wraps ErrSystem with context.
func systemErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrSystem}, args...)...)
}
