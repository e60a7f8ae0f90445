package temporal

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/leowmjw/go-sp2ts/pkg/batch"
	"github.com/leowmjw/go-sp2ts/pkg/settlement"
	"github.com/leowmjw/go-sp2ts/pkg/timeline"
)

type WorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env        *testsuite.TestWorkflowEnvironment
	activities *ActivitiesImpl
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func (s *WorkflowTestSuite) SetupTest() {
	conv, err := settlement.Default()
	s.Require().NoError(err)

	s.activities = NewActivitiesImpl(slog.New(slog.NewTextHandler(io.Discard, nil)), conv)
	s.env = s.NewTestWorkflowEnvironment()
	s.activities.Register(s.env)
}

func (s *WorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *WorkflowTestSuite) TestBatchConversion() {
	request := BatchRequest{
		Batch: batch.Batch{
			ID: "march-2020",
			Requests: []batch.Request{
				{ID: "noon", Date: "2020-03-28", Period: 24},
				{ID: "reverse", Timestamp: batch.Int64(1585396800)},
				{ID: "too-late", Date: "2020-03-29", Period: 47},
				{Datetime: "2020-03-28T12:00:00", Timezone: "UTC"},
			},
		},
		MaxConcurrency: 2,
	}

	s.env.ExecuteWorkflow(BatchConversionWorkflow, request)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var report batch.Report
	s.NoError(s.env.GetWorkflowResult(&report))

	s.Equal("march-2020", report.BatchID)
	s.Require().Len(report.Results, 4)
	s.Equal(1, report.Failed)

	s.Equal("noon", report.Results[0].ID)
	s.Require().NotNil(report.Results[0].Timestamp)
	s.Equal(int64(1585396800), *report.Results[0].Timestamp)

	s.Equal("2020-03-28", report.Results[1].Date)
	s.Equal(24, report.Results[1].Period)

	// Failures read the same as a local batch run
	expected, err := s.activities.runner.Convert(request.Batch.Requests[2])
	s.Error(err)
	s.Equal(expected, report.Results[2])
	s.Equal(batch.PeriodToTimestamp, report.Results[2].Kind)
	s.Equal("settlement period must be in the interval 1 <= sp <= 46 on date 2020-03-29, got 47", report.Results[2].Error)

	s.Equal("4", report.Results[3].ID)
	s.Equal(24, report.Results[3].Period)
}

func (s *WorkflowTestSuite) TestBatchConversionGeneratesID() {
	s.env.ExecuteWorkflow(BatchConversionWorkflow, BatchRequest{
		Batch: batch.Batch{Requests: []batch.Request{{Timestamp: batch.Int64(0)}}},
	})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var report batch.Report
	s.NoError(s.env.GetWorkflowResult(&report))
	s.NotEmpty(report.BatchID)
	s.Zero(report.Failed)
}

func (s *WorkflowTestSuite) TestInvalidInputIsNotRetried() {
	var attempts int
	s.env.SetOnActivityStartedListener(func(info *activity.Info, ctx context.Context, args converter.EncodedValues) {
		attempts++
	})

	s.env.ExecuteWorkflow(BatchConversionWorkflow, BatchRequest{
		Batch: batch.Batch{Requests: []batch.Request{{Date: "2020-03-29", Period: 47}}},
	})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Equal(1, attempts)

	var report batch.Report
	s.NoError(s.env.GetWorkflowResult(&report))
	s.Equal(1, report.Failed)
	s.Contains(report.Results[0].Error, "1 <= sp <= 46")
}

func (s *WorkflowTestSuite) TestBatchConversionActivityFailure() {
	s.env.OnActivity(ConvertActivityName, mock.Anything, mock.Anything).
		Return(batch.Result{}, temporal.NewNonRetryableApplicationError("zone database unavailable", "Unavailable", nil))

	s.env.ExecuteWorkflow(BatchConversionWorkflow, BatchRequest{
		Batch: batch.Batch{ID: "offline", Requests: []batch.Request{{Timestamp: batch.Int64(0)}}},
	})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var report batch.Report
	s.NoError(s.env.GetWorkflowResult(&report))
	s.Equal(1, report.Failed)
	s.Equal(batch.Result{ID: "1", Error: "zone database unavailable"}, report.Results[0])
}

func (s *WorkflowTestSuite) TestSettlementAggregation() {
	readings := timeline.PriceTimeline{
		{Timestamp: time.Date(2020, 3, 28, 11, 45, 0, 0, time.UTC), Value: 30.0},
		{Timestamp: time.Date(2020, 3, 28, 12, 0, 0, 0, time.UTC), Value: 40.0},
		{Timestamp: time.Date(2020, 3, 28, 12, 15, 0, 0, time.UTC), Value: 50.0},
	}

	s.env.ExecuteWorkflow(SettlementAggregationWorkflow, AggregationRequest{
		Readings:    readings,
		Aggregation: timeline.Avg,
	})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var results []timeline.PeriodAggregate
	s.NoError(s.env.GetWorkflowResult(&results))
	s.Require().Len(results, 2)

	s.Equal(24, results[0].Period)
	s.Equal(35.0, results[0].Value)
	s.Equal(25, results[1].Period)
	s.Equal(50.0, results[1].Value)
}

func (s *WorkflowTestSuite) TestSettlementAggregationActivityFailure() {
	s.env.OnActivity(AggregateActivityName, mock.Anything, mock.Anything).
		Return(nil, temporal.NewNonRetryableApplicationError("storage offline", "Unavailable", nil))

	s.env.ExecuteWorkflow(SettlementAggregationWorkflow, AggregationRequest{Aggregation: timeline.Sum})

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func TestGenerateWorkflowIDs(t *testing.T) {
	if id := GenerateBatchWorkflowID("march-2020"); id != BatchWorkflowIDPrefix+"march-2020" {
		t.Errorf("Expected workflow ID '%s', got '%s'", BatchWorkflowIDPrefix+"march-2020", id)
	}

	generated := GenerateBatchWorkflowID("")
	if !strings.HasPrefix(generated, BatchWorkflowIDPrefix) || len(generated) == len(BatchWorkflowIDPrefix) {
		t.Errorf("Generated batch workflow ID should carry a random suffix, got '%s'", generated)
	}

	first, second := GenerateAggregationWorkflowID(), GenerateAggregationWorkflowID()
	if first == second {
		t.Errorf("Aggregation workflow IDs should be unique, got '%s' twice", first)
	}
}
