package settlement

import (
	"sync"
	"time"

	"github.com/leowmjw/go-sp2ts/pkg/civil"
)

var defaultConverter = sync.OnceValues(func() (*Converter, error) {
	return NewGB(civil.DefaultZones())
})

// Default returns the shared GB converter. It is built once and never mutated.
func Default() (*Converter, error) {
	return defaultConverter()
}

// DateSPToEpoch converts a GB settlement date and period to Unix seconds.
func DateSPToEpoch(d Date, sp int, b Boundary) (int64, error) {
	c, err := Default()
	if err != nil {
		return 0, err
	}
	return c.DateSPToEpoch(d, sp, b)
}

// DateSPToTime converts a GB settlement date and period to an instant in
// zone, which defaults to UTC.
func DateSPToTime(d Date, sp int, b Boundary, zone string) (time.Time, error) {
	c, err := Default()
	if err != nil {
		return time.Time{}, err
	}
	return c.DateSPToCivil(d, sp, b, zone)
}

// EpochToDateSP converts Unix seconds on a period boundary to a GB settlement date and period.
func EpochToDateSP(sec int64) (DateSP, error) {
	c, err := Default()
	if err != nil {
		return DateSP{}, err
	}
	return c.EpochToDateSP(sec)
}

// CivilToDateSP converts a wall-clock reading to a GB settlement date and
// period. The zone must be embedded in ts or passed explicitly.
func CivilToDateSP(ts civil.Timestamp, zone string) (DateSP, error) {
	c, err := Default()
	if err != nil {
		return DateSP{}, err
	}
	return c.CivilToDateSP(ts, zone)
}

// TimeToDateSP converts a zone-aware instant to a GB settlement date and period.
func TimeToDateSP(t time.Time) (DateSP, error) {
	c, err := Default()
	if err != nil {
		return DateSP{}, err
	}
	return c.TimeToDateSP(t)
}

// MaxPeriod returns the number of GB settlement periods on d.
func MaxPeriod(d Date) (int, error) {
	c, err := Default()
	if err != nil {
		return 0, err
	}
	return c.MaxPeriod(d), nil
}
