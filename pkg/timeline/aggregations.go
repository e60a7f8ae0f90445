package timeline

import (
	"math"
	"sort"
	"time"

	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// AggregationType represents different types of aggregations
type AggregationType string

const (
	Sum        AggregationType = "sum"
	Avg        AggregationType = "avg"
	Min        AggregationType = "min"
	Max        AggregationType = "max"
	Count      AggregationType = "count"
	StdDev     AggregationType = "stddev"
	Percentile AggregationType = "percentile"
	Median     AggregationType = "median"
	First      AggregationType = "first"
	Last       AggregationType = "last"
	// VWAP weights each value by its volume
	VWAP AggregationType = "vwap"
)

// AggregationResult represents the result of an aggregation operation
type AggregationResult struct {
	Type      AggregationType `json:"type"`
	Value     float64         `json:"value"`
	Count     int             `json:"count"`
	Window    Window          `json:"window"`
	Timestamp time.Time       `json:"timestamp"`
}

// PeriodAggregate is an aggregation over the readings of one settlement period
type PeriodAggregate struct {
	settlement.DateSP
	AggregationResult
}

// Aggregate performs aggregation on price timeline data
func Aggregate(timeline PriceTimeline, aggType AggregationType, percentile float64) AggregationResult {
	if len(timeline) == 0 {
		return AggregationResult{Type: aggType, Count: 0}
	}

	sorted := sortedCopy(timeline)

	values := make([]float64, len(sorted))
	for i, item := range sorted {
		values[i] = item.Value
	}

	result := AggregationResult{
		Type:      aggType,
		Count:     len(sorted),
		Timestamp: sorted[len(sorted)-1].Timestamp,
	}

	switch aggType {
	case Sum:
		result.Value = sumValues(values)
	case Avg:
		result.Value = avgValues(values)
	case Min:
		result.Value = minValues(values)
	case Max:
		result.Value = maxValues(values)
	case Count:
		result.Value = float64(len(values))
	case StdDev:
		result.Value = stdDevValues(values)
	case Percentile:
		result.Value = percentileValues(values, percentile)
	case Median:
		result.Value = percentileValues(values, 50.0)
	case First:
		result.Value = values[0]
	case Last:
		result.Value = values[len(values)-1]
	case VWAP:
		result.Value = vwapValues(sorted)
	}

	return result
}

// WindowedAggregate performs aggregation over predefined windows, skipping empty ones
func WindowedAggregate(timeline PriceTimeline, windows []Window, aggType AggregationType, percentile float64) []AggregationResult {
	var results []AggregationResult

	for _, window := range windows {
		windowData := ApplyWindowToPriceTimeline(timeline, window)
		if len(windowData) > 0 {
			result := Aggregate(windowData, aggType, percentile)
			result.Window = window

			// Use window end as the timestamp
			result.Timestamp = window.End

			results = append(results, result)
		}
	}

	return results
}

// AggregateBySettlementPeriod groups readings into the settlement period that
// contains them and aggregates each group. Results are in period order and
// periods without readings are omitted.
func AggregateBySettlementPeriod(conv *settlement.Converter, timeline PriceTimeline, aggType AggregationType, percentile float64) []PeriodAggregate {
	if len(timeline) == 0 {
		return nil
	}

	groups := make(map[settlement.DateSP]PriceTimeline)
	var order []settlement.DateSP
	for _, value := range sortedCopy(timeline) {
		key := conv.Locate(value.Timestamp)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], value)
	}

	results := make([]PeriodAggregate, 0, len(order))
	for _, key := range order {
		result := Aggregate(groups[key], aggType, percentile)
		if iv, err := conv.Interval(key.Date, key.Period); err == nil {
			result.Window = Window{
				Type:   SettlementWindow,
				Size:   settlement.PeriodLength,
				Start:  iv.Start,
				End:    iv.End,
				Date:   iv.Date,
				Period: iv.Period,
			}
			result.Timestamp = iv.End
		}
		results = append(results, PeriodAggregate{DateSP: key, AggregationResult: result})
	}
	return results
}

func sortedCopy(timeline PriceTimeline) PriceTimeline {
	sorted := make(PriceTimeline, len(timeline))
	copy(sorted, timeline)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// Helper functions for calculations

func sumValues(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

func avgValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumValues(values) / float64(len(values))
}

func minValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	lowest := values[0]
	for _, v := range values {
		if v < lowest {
			lowest = v
		}
	}
	return lowest
}

func maxValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	highest := values[0]
	for _, v := range values {
		if v > highest {
			highest = v
		}
	}
	return highest
}

func stdDevValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	avg := avgValues(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquaredDiff += diff * diff
	}

	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

func percentileValues(values []float64, percentile float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 100 {
		return sorted[len(sorted)-1]
	}

	// Linear interpolation for percentile
	index := (percentile / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func vwapValues(timeline PriceTimeline) float64 {
	var notional, volume float64
	for _, v := range timeline {
		notional += v.Value * v.Volume
		volume += v.Volume
	}
	if volume == 0 {
		return 0
	}
	return notional / volume
}
