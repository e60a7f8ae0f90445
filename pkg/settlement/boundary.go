package settlement

import (
	"fmt"
	"strings"
)

// Boundary selects which instant of a settlement period a conversion
// resolves to. The zero value is Right.
type Boundary int

const (
	// Right is the end of the period. Periods are closed right, so this is
	// the instant that maps back to the same period.
	Right Boundary = iota
	// Left is the start of the period.
	Left
	// Middle is 15 minutes into the period.
	Middle
)

// ParseBoundary accepts "left", "middle" or "right" in any case.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right":
		return Right, nil
	case "left":
		return Left, nil
	case "middle":
		return Middle, nil
	default:
		return Right, fmt.Errorf("%w: boundary should be either 'right', 'left' or 'middle', got %q", ErrInvalidInput, s)
	}
}

// Valid reports whether b is one of the declared boundaries.
func (b Boundary) Valid() bool {
	return b == Right || b == Left || b == Middle
}

func (b Boundary) String() string {
	switch b {
	case Right:
		return "right"
	case Left:
		return "left"
	case Middle:
		return "middle"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// MarshalText encodes b by name.
func (b Boundary) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: unknown boundary %d", ErrInvalidInput, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText decodes a boundary name.
func (b *Boundary) UnmarshalText(text []byte) error {
	parsed, err := ParseBoundary(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
