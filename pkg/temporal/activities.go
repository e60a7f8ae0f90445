package temporal

import (
	"context"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/leowmjw/go-sp2ts/pkg/batch"
	"github.com/leowmjw/go-sp2ts/pkg/settlement"
	"github.com/leowmjw/go-sp2ts/pkg/timeline"
)

// Activities interface defines all the activities used by workflows
type Activities interface {
	ConvertActivity(ctx context.Context, request batch.Request) (batch.Result, error)
	AggregateActivity(ctx context.Context, request AggregationRequest) ([]timeline.PeriodAggregate, error)
}

// ActivitiesImpl implements the Activities interface
type ActivitiesImpl struct {
	logger *slog.Logger
	conv   *settlement.Converter
	runner *batch.Runner
}

// NewActivitiesImpl creates a new activities implementation
func NewActivitiesImpl(logger *slog.Logger, conv *settlement.Converter) *ActivitiesImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivitiesImpl{
		logger: logger,
		conv:   conv,
		runner: batch.NewRunner(logger, conv),
	}
}

// Register adds the activities to a worker under the names the workflows use
func (a *ActivitiesImpl) Register(registry interface {
	RegisterActivityWithOptions(activityFn interface{}, options activity.RegisterOptions)
}) {
	registry.RegisterActivityWithOptions(a.ConvertActivity, activity.RegisterOptions{Name: ConvertActivityName})
	registry.RegisterActivityWithOptions(a.AggregateActivity, activity.RegisterOptions{Name: AggregateActivityName})
}

// ConvertActivity performs a single conversion. Conversion failures are
// deterministic and returned as non-retryable errors carrying the failed
// batch.Result as details.
func (a *ActivitiesImpl) ConvertActivity(ctx context.Context, request batch.Request) (batch.Result, error) {
	info := activity.GetInfo(ctx)
	a.logger.Debug("Converting", "id", request.ID, "attempt", info.Attempt)

	result, err := a.runner.Convert(request)
	if err != nil {
		a.logger.Warn("Conversion failed", "id", request.ID, "error", err)
		return result, temporal.NewNonRetryableApplicationError(result.Error, InvalidInputErrorType, nil, result)
	}
	return result, nil
}

// AggregateActivity groups readings by settlement period and aggregates each group
func (a *ActivitiesImpl) AggregateActivity(ctx context.Context, request AggregationRequest) ([]timeline.PeriodAggregate, error) {
	a.logger.Info("Aggregating readings", "count", len(request.Readings), "aggregation", request.Aggregation)

	results := timeline.AggregateBySettlementPeriod(a.conv, request.Readings, request.Aggregation, request.Percentile)
	return results, nil
}
