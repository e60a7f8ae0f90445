package settlement

import (
	"fmt"

	"github.com/leowmjw/go-sp2ts/pkg/civil"
)

// ErrInvalidInput is the error kind for every rejected conversion input:
// periods out of range, instants off a period boundary, missing zones and
// malformed dates. It is the same value as civil.ErrInvalidInput.
var ErrInvalidInput = civil.ErrInvalidInput

// RangeError reports a settlement period that does not exist on its date.
type RangeError struct {
	Date   Date
	Period int
	Max    int
}

func (e *RangeError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("settlement period must be in the interval 1 <= sp <= %d, got %d", e.Max, e.Period)
	}
	return fmt.Sprintf("settlement period must be in the interval 1 <= sp <= %d on date %s, got %d", e.Max, e.Date, e.Period)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *RangeError) Unwrap() error {
	return ErrInvalidInput
}
