package timeline

import (
	"time"

	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// WindowType represents different types of time windows
type WindowType string

const (
	SettlementWindow WindowType = "settlement"
	TumblingWindow   WindowType = "tumbling"
)

// Window represents a time window for aggregations. Settlement windows are
// closed right, tumbling windows closed left.
type Window struct {
	Type   WindowType      `json:"type"`
	Size   time.Duration   `json:"size"`
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Date   settlement.Date `json:"date,omitzero"`
	Period int             `json:"settlement_period,omitempty"`
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	if w.Type == SettlementWindow {
		return t.After(w.Start) && !t.After(w.End)
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// CreateSettlementWindows creates one window per settlement period from first to last inclusive
func CreateSettlementWindows(conv *settlement.Converter, first, last settlement.Date) []Window {
	periods := conv.PeriodsBetween(first, last)
	windows := make([]Window, len(periods))
	for i, p := range periods {
		windows[i] = Window{
			Type:   SettlementWindow,
			Size:   settlement.PeriodLength,
			Start:  p.Start,
			End:    p.End,
			Date:   p.Date,
			Period: p.Period,
		}
	}
	return windows
}

// CreateTumblingWindows creates non-overlapping tumbling windows
func CreateTumblingWindows(start, end time.Time, windowSize time.Duration) []Window {
	var windows []Window

	current := start
	for current.Before(end) {
		windowEnd := current.Add(windowSize)
		if windowEnd.After(end) {
			windowEnd = end
		}

		windows = append(windows, Window{
			Type:  TumblingWindow,
			Size:  windowSize,
			Start: current,
			End:   windowEnd,
		})

		current = windowEnd
	}

	return windows
}

// ApplyWindowToPriceTimeline keeps the readings that fall inside window
func ApplyWindowToPriceTimeline(timeline PriceTimeline, window Window) PriceTimeline {
	var windowed PriceTimeline

	for _, value := range timeline {
		if window.Contains(value.Timestamp) {
			windowed = append(windowed, value)
		}
	}

	return windowed
}
