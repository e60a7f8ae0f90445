package batch

import (
	"fmt"

	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// Kind identifies the direction of a conversion
type Kind string

const (
	// PeriodToTimestamp converts a settlement date and period to an instant
	PeriodToTimestamp Kind = "sp_to_ts"
	// TimestampToPeriod converts Unix seconds to a settlement date and period
	TimestampToPeriod Kind = "ts_to_sp"
	// DatetimeToPeriod converts a wall-clock reading in a zone to a settlement date and period
	DatetimeToPeriod Kind = "dt_to_sp"
)

// Request is a single conversion. Exactly one of Date, Timestamp or Datetime
// selects the kind; Timezone applies to Datetime input and to rendered output.
type Request struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Period    int    `json:"settlement_period,omitempty" yaml:"settlement_period,omitempty"`
	Boundary  string `json:"boundary,omitempty" yaml:"boundary,omitempty"`
	Timestamp *int64 `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Datetime  string `json:"datetime,omitempty" yaml:"datetime,omitempty"`
	Timezone  string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Kind reports which conversion the request asks for
func (r Request) Kind() (Kind, error) {
	var kinds []Kind
	if r.Date != "" {
		kinds = append(kinds, PeriodToTimestamp)
	}
	if r.Timestamp != nil {
		kinds = append(kinds, TimestampToPeriod)
	}
	if r.Datetime != "" {
		kinds = append(kinds, DatetimeToPeriod)
	}

	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("%w: one of date, timestamp or datetime is required", settlement.ErrInvalidInput)
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("%w: date, timestamp and datetime are mutually exclusive", settlement.ErrInvalidInput)
	}
}

// Result is the outcome of one request. Error is set instead of the
// converted fields when the request failed.
type Result struct {
	ID        string `json:"id" yaml:"id"`
	Kind      Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Period    int    `json:"settlement_period,omitempty" yaml:"settlement_period,omitempty"`
	Timestamp *int64 `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Datetime  string `json:"datetime,omitempty" yaml:"datetime,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the conversion succeeded
func (r Result) OK() bool {
	return r.Error == ""
}

// Batch is a named list of requests
type Batch struct {
	ID       string    `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`
	Requests []Request `json:"conversions" yaml:"conversions"`
}

// Report collects the results of a batch in request order
type Report struct {
	BatchID string   `json:"batch_id"`
	Results []Result `json:"results"`
	Failed  int      `json:"failed"`
}

// Int64 returns a pointer to v, for building requests with a timestamp
func Int64(v int64) *int64 {
	return &v
}
