package temporal

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/leowmjw/go-sp2ts/pkg/batch"
	"github.com/leowmjw/go-sp2ts/pkg/timeline"
)

const (
	// Workflow IDs
	BatchWorkflowIDPrefix       = "sp2ts-batch-"
	AggregationWorkflowIDPrefix = "sp2ts-aggregate-"

	// Activity names
	ConvertActivityName   = "convert"
	AggregateActivityName = "aggregate-settlement-periods"

	// InvalidInputErrorType marks conversion failures that no retry can fix
	InvalidInputErrorType = "InvalidInput"

	// Default values
	MaxConcurrency = 10 // Maximum concurrent conversion activities
)

func activityOptions(ctx workflow.Context) workflow.Context {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{InvalidInputErrorType},
		},
	}
	return workflow.WithActivityOptions(ctx, ao)
}

// BatchConversionWorkflow converts every request of a batch, running at most
// MaxConcurrency activities at once. A failing request is recorded in its
// result and does not fail the workflow.
func BatchConversionWorkflow(ctx workflow.Context, request BatchRequest) (*batch.Report, error) {
	logger := workflow.GetLogger(ctx)

	batchID := request.Batch.ID
	if batchID == "" {
		encoded := workflow.SideEffect(ctx, func(ctx workflow.Context) interface{} {
			return uuid.NewString()
		})
		if err := encoded.Get(&batchID); err != nil {
			return nil, fmt.Errorf("failed to generate batch ID: %w", err)
		}
	}

	requests := request.Batch.Requests
	logger.Info("Starting batch conversion workflow", "batchID", batchID, "requests", len(requests))

	limit := request.MaxConcurrency
	if limit <= 0 {
		limit = MaxConcurrency
	}

	ctx = activityOptions(ctx)
	report := &batch.Report{
		BatchID: batchID,
		Results: make([]batch.Result, len(requests)),
	}

	collect := func(i int, future workflow.Future) {
		var result batch.Result
		if err := future.Get(ctx, &result); err != nil {
			result = failedResult(requests[i], err)
		}
		report.Results[i] = result
	}

	// Futures are collected oldest first once the window is full
	pending := make([]workflow.Future, 0, limit)
	first := 0
	for i := range requests {
		if requests[i].ID == "" {
			requests[i].ID = strconv.Itoa(i + 1)
		}
		if len(pending) == limit {
			collect(first, pending[0])
			pending = pending[1:]
			first++
		}
		pending = append(pending, workflow.ExecuteActivity(ctx, ConvertActivityName, requests[i]))
	}
	for j, future := range pending {
		collect(first+j, future)
	}

	for _, result := range report.Results {
		if !result.OK() {
			report.Failed++
		}
	}

	logger.Info("Batch conversion completed", "batchID", batchID, "failed", report.Failed)
	return report, nil
}

// failedResult recovers the result a failed conversion activity attached to
// its error, so the report matches what batch.Runner produces.
func failedResult(request batch.Request, err error) batch.Result {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return batch.Result{ID: request.ID, Error: err.Error()}
	}
	var result batch.Result
	if appErr.HasDetails() && appErr.Details(&result) == nil && result.Error != "" {
		return result
	}
	return batch.Result{ID: request.ID, Error: appErr.Message()}
}

// SettlementAggregationWorkflow aggregates readings per settlement period
func SettlementAggregationWorkflow(ctx workflow.Context, request AggregationRequest) ([]timeline.PeriodAggregate, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting settlement aggregation workflow", "readings", len(request.Readings), "aggregation", request.Aggregation)

	ctx = activityOptions(ctx)

	var results []timeline.PeriodAggregate
	err := workflow.ExecuteActivity(ctx, AggregateActivityName, request).Get(ctx, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate readings: %w", err)
	}

	logger.Info("Settlement aggregation completed", "periods", len(results))
	return results, nil
}

// Utility functions for workflow IDs

// GenerateBatchWorkflowID creates a workflow ID for a batch. Batches without
// an ID get a random one.
func GenerateBatchWorkflowID(batchID string) string {
	if batchID == "" {
		batchID = uuid.NewString()
	}
	return BatchWorkflowIDPrefix + batchID
}

// GenerateAggregationWorkflowID creates a unique workflow ID for an aggregation
func GenerateAggregationWorkflowID() string {
	return AggregationWorkflowIDPrefix + uuid.NewString()
}
