package settlement

import (
	"fmt"
	"time"

	"github.com/leowmjw/go-sp2ts/pkg/civil"
)

const (
	// MarketZone is the zone GB settlement days are defined in.
	MarketZone = "Europe/London"

	// PeriodLength is the span of one settlement period.
	PeriodLength = 30 * time.Minute

	// MaxPeriodLimit is the largest period number any day can have.
	MaxPeriodLimit = 50
)

// DayKind classifies a settlement day by its length.
type DayKind string

const (
	ShortDay  DayKind = "short"  // spring forward, 46 periods
	NormalDay DayKind = "normal" // 48 periods
	LongDay   DayKind = "long"   // fall back, 50 periods
)

// DateSP is a settlement date and period pair.
type DateSP struct {
	Date   Date `json:"date"`
	Period int  `json:"settlement_period"`
}

func (p DateSP) String() string {
	return fmt.Sprintf("%s SP%d", p.Date, p.Period)
}

// Converter maps between settlement periods and instants for one market zone.
// It holds no mutable state and is safe for concurrent use.
type Converter struct {
	loc   *time.Location
	zones *civil.Zones
}

// New creates a converter for the market location loc. Civil timestamps are
// resolved against zones, or the process-wide cache when zones is nil.
func New(loc *time.Location, zones *civil.Zones) *Converter {
	if zones == nil {
		zones = civil.DefaultZones()
	}
	return &Converter{loc: loc, zones: zones}
}

// NewGB creates a converter for the GB market zone.
func NewGB(zones *civil.Zones) (*Converter, error) {
	if zones == nil {
		zones = civil.DefaultZones()
	}
	loc, err := zones.Load(MarketZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load market zone: %w", err)
	}
	return New(loc, zones), nil
}

// Location returns the market location.
func (c *Converter) Location() *time.Location {
	return c.loc
}

// MaxPeriod is the number of settlement periods on d: 46, 48 or 50 in GB.
func (c *Converter) MaxPeriod(d Date) int {
	start := d.midnight(c.loc)
	end := d.AddDays(1).midnight(c.loc)
	return int(end.Sub(start) / PeriodLength)
}

// Kind classifies d as a short, normal or long day.
func (c *Converter) Kind(d Date) DayKind {
	switch n := c.MaxPeriod(d); {
	case n < 48:
		return ShortDay
	case n > 48:
		return LongDay
	default:
		return NormalDay
	}
}

// Validate checks that sp exists on d.
func (c *Converter) Validate(d Date, sp int) error {
	if sp < 1 || sp > MaxPeriodLimit {
		return &RangeError{Period: sp, Max: MaxPeriodLimit}
	}
	if limit := c.MaxPeriod(d); sp > limit {
		return &RangeError{Date: d, Period: sp, Max: limit}
	}
	return nil
}

// DateSPToTime returns the boundary instant of period sp on d, in the market zone.
func (c *Converter) DateSPToTime(d Date, sp int, b Boundary) (time.Time, error) {
	if !b.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown boundary %d", ErrInvalidInput, int(b))
	}
	if err := c.Validate(d, sp); err != nil {
		return time.Time{}, err
	}

	// Elapsed-time arithmetic from local midnight absorbs the clock change.
	end := d.midnight(c.loc).Add(time.Duration(sp) * PeriodLength)
	switch b {
	case Left:
		return end.Add(-PeriodLength), nil
	case Middle:
		return end.Add(-PeriodLength / 2), nil
	default:
		return end, nil
	}
}

// DateSPToEpoch returns the boundary instant of period sp on d as Unix seconds.
func (c *Converter) DateSPToEpoch(d Date, sp int, b Boundary) (int64, error) {
	t, err := c.DateSPToTime(d, sp, b)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// DateSPToCivil returns the boundary instant of period sp on d in zone.
// An empty zone means UTC.
func (c *Converter) DateSPToCivil(d Date, sp int, b Boundary, zone string) (time.Time, error) {
	if zone == "" {
		zone = civil.UTC
	}
	loc, err := c.zones.Load(zone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := c.DateSPToTime(d, sp, b)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// TimeToDateSP maps an instant that ends a settlement period to that period.
// Periods are closed right: local midnight ends the previous day's last period.
func (c *Converter) TimeToDateSP(t time.Time) (DateSP, error) {
	d, elapsed := c.dayOffset(t)
	if elapsed%PeriodLength != 0 {
		return DateSP{}, fmt.Errorf("%w: %s does not fall on a settlement period boundary",
			ErrInvalidInput, t.In(c.loc).Format(time.RFC3339Nano))
	}
	return DateSP{Date: d, Period: int(elapsed / PeriodLength)}, nil
}

// EpochToDateSP maps Unix seconds on a period boundary to that period.
func (c *Converter) EpochToDateSP(sec int64) (DateSP, error) {
	return c.TimeToDateSP(time.Unix(sec, 0))
}

// CivilToDateSP resolves a wall-clock reading and maps it to its period. The
// zone is taken from ts or, failing that, from zone.
func (c *Converter) CivilToDateSP(ts civil.Timestamp, zone string) (DateSP, error) {
	t, err := c.zones.Localize(ts, zone, civil.Standard)
	if err != nil {
		return DateSP{}, err
	}
	return c.TimeToDateSP(t)
}

// Locate returns the period containing t under the closed-right convention.
// Unlike TimeToDateSP it accepts any instant.
func (c *Converter) Locate(t time.Time) DateSP {
	d, elapsed := c.dayOffset(t)
	return DateSP{Date: d, Period: int((elapsed + PeriodLength - 1) / PeriodLength)}
}

// dayOffset finds the day D with t in (midnight(D), midnight(D+1)] and the
// elapsed time since midnight(D).
func (c *Converter) dayOffset(t time.Time) (Date, time.Duration) {
	local := t.In(c.loc)
	d := DateOf(local)
	start := d.midnight(c.loc)
	if !local.After(start) {
		d = d.AddDays(-1)
		start = d.midnight(c.loc)
	}
	return d, local.Sub(start)
}
