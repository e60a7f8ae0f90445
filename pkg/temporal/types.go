package temporal

import (
	"github.com/leowmjw/go-sp2ts/pkg/batch"
	"github.com/leowmjw/go-sp2ts/pkg/timeline"
)

// BatchRequest is the input of BatchConversionWorkflow
type BatchRequest struct {
	Batch          batch.Batch `json:"batch"`
	MaxConcurrency int         `json:"max_concurrency,omitempty"` // defaults to MaxConcurrency
}

// AggregationRequest asks for readings to be aggregated per settlement period
type AggregationRequest struct {
	Readings    timeline.PriceTimeline   `json:"readings"`
	Aggregation timeline.AggregationType `json:"aggregation"`
	Percentile  float64                  `json:"percentile,omitempty"`
}
