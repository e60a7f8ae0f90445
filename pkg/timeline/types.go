package timeline

import (
	"time"
)

// NumericValue is a single timestamped reading, e.g. a price or a meter read
type NumericValue struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Volume    float64   `json:"volume,omitempty"` // For volume-weighted calculations
	Symbol    string    `json:"symbol,omitempty"`
}

// PriceTimeline is a collection of numeric readings
type PriceTimeline []NumericValue

// Timestamps extracts the timestamps of every reading
func (pt PriceTimeline) Timestamps() []time.Time {
	timestamps := make([]time.Time, len(pt))
	for i, value := range pt {
		timestamps[i] = value.Timestamp
	}
	return timestamps
}
