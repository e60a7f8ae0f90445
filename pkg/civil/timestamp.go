package civil

import (
	"fmt"
	"strings"
	"time"
)

// LocalLayout is the accepted wall-clock layout for ParseLocal.
const LocalLayout = "2006-01-02T15:04:05"

// Disambiguation selects how a wall time inside a clock change is resolved.
type Disambiguation int

const (
	// Standard picks the non-daylight-saving reading. This is the default.
	Standard Disambiguation = iota
	// Daylight picks the daylight-saving reading.
	Daylight
	// Strict rejects wall times that are ambiguous or do not exist.
	Strict
)

func (d Disambiguation) String() string {
	switch d {
	case Standard:
		return "standard"
	case Daylight:
		return "daylight"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Disambiguation(%d)", int(d))
	}
}

// Timestamp is a wall-clock reading, optionally tied to an IANA zone.
type Timestamp struct {
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	Day        int        `json:"day"`
	Hour       int        `json:"hour"`
	Minute     int        `json:"minute"`
	Second     int        `json:"second"`
	Nanosecond int        `json:"nanosecond,omitempty"`
	Zone       string     `json:"zone,omitempty"`
}

// ParseLocal parses "yyyy-mm-ddTHH:MM:SS". A space may stand in for the T.
func ParseLocal(s string) (Timestamp, error) {
	normalized := strings.Replace(strings.TrimSpace(s), " ", "T", 1)
	t, err := time.Parse(LocalLayout, normalized)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: failed to parse datetime %q, expected <yyyy-mm-ddTHH:MM:SS>", ErrInvalidInput, s)
	}
	return Timestamp{
		Year:       t.Year(),
		Month:      t.Month(),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}, nil
}

// FromTime returns the wall-clock reading of t in its own location.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Year:       t.Year(),
		Month:      t.Month(),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
		Zone:       t.Location().String(),
	}
}

// In returns a copy of ts tied to zone.
func (ts Timestamp) In(zone string) Timestamp {
	ts.Zone = zone
	return ts
}

func (ts Timestamp) String() string {
	s := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", ts.Year, int(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second)
	if ts.Nanosecond != 0 {
		s += fmt.Sprintf(".%09d", ts.Nanosecond)
	}
	if ts.Zone != "" {
		s += " (" + ts.Zone + ")"
	}
	return s
}

// wall returns the reading as a UTC instant with identical fields.
func (ts Timestamp) wall() (time.Time, error) {
	w := time.Date(ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Nanosecond, time.UTC)
	if !sameWall(w, ts) {
		return time.Time{}, fmt.Errorf("%w: %s is not a valid civil time", ErrInvalidInput, ts)
	}
	return w, nil
}

func sameWall(t time.Time, ts Timestamp) bool {
	return t.Year() == ts.Year && t.Month() == ts.Month && t.Day() == ts.Day &&
		t.Hour() == ts.Hour && t.Minute() == ts.Minute && t.Second() == ts.Second &&
		t.Nanosecond() == ts.Nanosecond
}

type zoneInfo struct {
	offset int
	dst    bool
}

func zoneAt(t time.Time, loc *time.Location) zoneInfo {
	local := t.In(loc)
	_, offset := local.Zone()
	return zoneInfo{offset: offset, dst: local.IsDST()}
}

// localize finds every instant whose reading in loc equals ts. Offsets are
// probed a day either side of the wall time, which brackets any single
// clock change.
func localize(ts Timestamp, loc *time.Location, policy Disambiguation) (time.Time, error) {
	wall, err := ts.wall()
	if err != nil {
		return time.Time{}, err
	}

	early := zoneAt(wall.Add(-24*time.Hour), loc)
	late := zoneAt(wall.Add(24*time.Hour), loc)

	var matches []time.Time
	for _, z := range []zoneInfo{early, late} {
		t := wall.Add(-time.Duration(z.offset) * time.Second).In(loc)
		if !sameWall(t, ts) {
			continue
		}
		if len(matches) == 1 && matches[0].Equal(t) {
			continue
		}
		matches = append(matches, t)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 2:
		if policy == Strict {
			return time.Time{}, fmt.Errorf("%w: %s occurs twice", ErrAmbiguousTime, ts)
		}
		return pickDST(matches, policy == Daylight), nil
	}

	if early.offset == late.offset {
		// More than one transition within the probe window; defer to the runtime.
		return time.Date(ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Nanosecond, loc), nil
	}
	if policy == Strict {
		return time.Time{}, fmt.Errorf("%w: %s falls in a clock-change gap", ErrNonexistentTime, ts)
	}

	z := early
	if early.dst != (policy == Daylight) && late.dst == (policy == Daylight) {
		z = late
	}
	return wall.Add(-time.Duration(z.offset) * time.Second).In(loc), nil
}

func pickDST(candidates []time.Time, dst bool) time.Time {
	for _, c := range candidates {
		if c.IsDST() == dst {
			return c
		}
	}
	return candidates[0]
}
