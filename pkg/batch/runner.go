package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/leowmjw/go-sp2ts/pkg/civil"
	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// Runner executes batches against a settlement converter
type Runner struct {
	logger *slog.Logger
	conv   *settlement.Converter
}

// NewRunner creates a runner. A nil logger falls back to slog.Default.
func NewRunner(logger *slog.Logger, conv *settlement.Converter) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, conv: conv}
}

// Run converts every request of b. A failing request is reported in its
// result and does not stop the others. Requests left when ctx is done are
// failed with the context error.
func (r *Runner) Run(ctx context.Context, b Batch) Report {
	report := Report{
		BatchID: b.ID,
		Results: make([]Result, 0, len(b.Requests)),
	}
	if report.BatchID == "" {
		report.BatchID = uuid.NewString()
	}

	logger := r.logger.With("batch_id", report.BatchID)
	logger.Info("Running conversion batch", "requests", len(b.Requests))

	for i, req := range b.Requests {
		if req.ID == "" {
			req.ID = strconv.Itoa(i + 1)
		}

		var result Result
		if err := ctx.Err(); err != nil {
			result = Result{ID: req.ID, Error: err.Error()}
		} else {
			result, _ = r.Convert(req)
		}

		if !result.OK() {
			report.Failed++
			logger.Warn("Conversion failed", "id", result.ID, "error", result.Error)
		}
		report.Results = append(report.Results, result)
	}

	logger.Info("Conversion batch finished", "requests", len(b.Requests), "failed", report.Failed)
	return report
}

// Convert runs a single request. On failure the returned result carries the
// error text alongside the error itself.
func (r *Runner) Convert(req Request) (Result, error) {
	result, err := r.convert(req)
	if err != nil {
		return Result{ID: req.ID, Kind: result.Kind, Error: err.Error()}, err
	}
	return result, nil
}

func (r *Runner) convert(req Request) (Result, error) {
	kind, err := req.Kind()
	if err != nil {
		return Result{}, err
	}
	result := Result{ID: req.ID, Kind: kind}

	zone := req.Timezone
	if zone == "" {
		zone = civil.UTC
	}

	var instant time.Time
	switch kind {
	case PeriodToTimestamp:
		d, err := settlement.ParseDate(req.Date)
		if err != nil {
			return result, err
		}
		b, err := settlement.ParseBoundary(req.Boundary)
		if err != nil {
			return result, err
		}
		instant, err = r.conv.DateSPToCivil(d, req.Period, b, zone)
		if err != nil {
			return result, err
		}
		result.Date = d.String()
		result.Period = req.Period

	case TimestampToPeriod:
		dsp, err := r.conv.EpochToDateSP(*req.Timestamp)
		if err != nil {
			return result, err
		}
		instant, err = civil.FromEpoch(*req.Timestamp, zone)
		if err != nil {
			return result, err
		}
		result.Date = dsp.Date.String()
		result.Period = dsp.Period

	case DatetimeToPeriod:
		ts, err := civil.ParseLocal(req.Datetime)
		if err != nil {
			return result, err
		}
		instant, err = civil.Localize(ts, zone, civil.Standard)
		if err != nil {
			return result, err
		}
		dsp, err := r.conv.TimeToDateSP(instant)
		if err != nil {
			return result, fmt.Errorf("datetime %s: %w", ts.In(zone), err)
		}
		result.Date = dsp.Date.String()
		result.Period = dsp.Period
	}

	sec := instant.Unix()
	result.Timestamp = &sec
	result.Datetime = instant.Format(time.RFC3339)
	return result, nil
}
