package settlement

import (
	"time"
)

// Transition is a settlement day whose length differs from 24 hours.
type Transition struct {
	Date       Date    `json:"date"`
	Kind       DayKind `json:"kind"`
	MaxPeriod  int     `json:"max_settlement_period"`
	StartEpoch int64   `json:"start_epoch"`
}

// Transitions lists the clock-change days of year in date order.
func (c *Converter) Transitions(year int) []Transition {
	var out []Transition
	for d := NewDate(year, time.January, 1); d.Year == year; d = d.AddDays(1) {
		n := c.MaxPeriod(d)
		if n == 48 {
			continue
		}
		out = append(out, Transition{
			Date:       d,
			Kind:       c.Kind(d),
			MaxPeriod:  n,
			StartEpoch: d.midnight(c.loc).Unix(),
		})
	}
	return out
}
