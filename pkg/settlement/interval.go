package settlement

import (
	"time"
)

// Interval is the span (Start, End] of one settlement period.
type Interval struct {
	Date   Date      `json:"date"`
	Period int       `json:"settlement_period"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Contains reports whether t falls in the period. Start is excluded and End is included.
func (i Interval) Contains(t time.Time) bool {
	return t.After(i.Start) && !t.After(i.End)
}

// Midpoint is the instant 15 minutes into the period.
func (i Interval) Midpoint() time.Time {
	return i.Start.Add(i.End.Sub(i.Start) / 2)
}

// DateSP returns the date and period that label the interval.
func (i Interval) DateSP() DateSP {
	return DateSP{Date: i.Date, Period: i.Period}
}

// Interval returns the span of period sp on d.
func (c *Converter) Interval(d Date, sp int) (Interval, error) {
	end, err := c.DateSPToTime(d, sp, Right)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Date: d, Period: sp, Start: end.Add(-PeriodLength), End: end}, nil
}

// Periods returns every settlement period of d in order.
func (c *Converter) Periods(d Date) []Interval {
	start := d.midnight(c.loc)
	n := c.MaxPeriod(d)
	periods := make([]Interval, n)
	for i := range periods {
		periods[i] = Interval{
			Date:   d,
			Period: i + 1,
			Start:  start.Add(time.Duration(i) * PeriodLength),
			End:    start.Add(time.Duration(i+1) * PeriodLength),
		}
	}
	return periods
}

// PeriodsBetween returns the periods of every day from first to last inclusive.
func (c *Converter) PeriodsBetween(first, last Date) []Interval {
	var periods []Interval
	for d := first; !last.Before(d); d = d.AddDays(1) {
		periods = append(periods, c.Periods(d)...)
	}
	return periods
}
