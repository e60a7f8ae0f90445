package civil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	// Embedded copy of the IANA database, used when the host has none.
	_ "time/tzdata"
)

var (
	// ErrInvalidInput is returned for malformed or missing conversion inputs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAmbiguousTime is returned under Strict for a wall time that occurs twice.
	ErrAmbiguousTime = errors.New("ambiguous civil time")

	// ErrNonexistentTime is returned under Strict for a wall time skipped by a clock change.
	ErrNonexistentTime = errors.New("nonexistent civil time")
)

// UTC is the zone used when an epoch conversion is not given one.
const UTC = "UTC"

// Zones is a read-only view of the time zone database. Locations are loaded
// on first use and cached for the life of the process.
type Zones struct {
	mu    sync.RWMutex
	cache map[string]*time.Location
}

var defaultZones = NewZones()

// NewZones creates an empty zone cache
func NewZones() *Zones {
	return &Zones{
		cache: map[string]*time.Location{UTC: time.UTC},
	}
}

// DefaultZones returns the process-wide zone cache
func DefaultZones() *Zones {
	return defaultZones
}

// Load returns the location for an IANA zone name such as "Europe/London".
func (z *Zones) Load(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing time zone", ErrInvalidInput)
	}

	z.mu.RLock()
	loc, ok := z.cache[name]
	z.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", ErrInvalidInput, name)
	}

	z.mu.Lock()
	z.cache[name] = loc
	z.mu.Unlock()
	return loc, nil
}

// Localize resolves a civil timestamp to an instant. The zone embedded in ts
// wins over the zone argument; one of them must be set.
func (z *Zones) Localize(ts Timestamp, zone string, policy Disambiguation) (time.Time, error) {
	name := ts.Zone
	if name == "" {
		name = zone
	}
	if name == "" {
		return time.Time{}, fmt.Errorf("%w: %s has no time zone and none was supplied", ErrInvalidInput, ts)
	}
	loc, err := z.Load(name)
	if err != nil {
		return time.Time{}, err
	}
	return localize(ts, loc, policy)
}

// ToEpoch converts a civil timestamp to Unix seconds, resolving clock-change
// gaps and overlaps to the standard-time reading.
func (z *Zones) ToEpoch(ts Timestamp, zone string) (int64, error) {
	t, err := z.Localize(ts, zone, Standard)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// FromEpoch returns the instant sec expressed in zone. An empty zone means UTC.
func (z *Zones) FromEpoch(sec int64, zone string) (time.Time, error) {
	if zone == "" {
		zone = UTC
	}
	loc, err := z.Load(zone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).In(loc), nil
}

// ToEpoch converts ts using the default zone cache.
func ToEpoch(ts Timestamp, zone string) (int64, error) {
	return defaultZones.ToEpoch(ts, zone)
}

// FromEpoch converts sec using the default zone cache.
func FromEpoch(sec int64, zone string) (time.Time, error) {
	return defaultZones.FromEpoch(sec, zone)
}

// Localize resolves ts using the default zone cache.
func Localize(ts Timestamp, zone string, policy Disambiguation) (time.Time, error) {
	return defaultZones.Localize(ts, zone, policy)
}
