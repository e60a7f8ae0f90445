package hcl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leowmjw/go-sp2ts/pkg/batch"
)

// AssertBatchesEqual compares two batches for equality in tests
func AssertBatchesEqual(t *testing.T, expected, actual *batch.Batch) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)

	if !assert.Equal(t, len(expected.Requests), len(actual.Requests)) {
		return
	}
	for i := range expected.Requests {
		AssertRequestsEqual(t, &expected.Requests[i], &actual.Requests[i])
	}
}

// AssertRequestsEqual compares two requests for equality in tests
func AssertRequestsEqual(t *testing.T, expected, actual *batch.Request) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Date, actual.Date)
	assert.Equal(t, expected.Period, actual.Period)
	assert.Equal(t, expected.Boundary, actual.Boundary)
	assert.Equal(t, expected.Datetime, actual.Datetime)
	assert.Equal(t, expected.Timezone, actual.Timezone)

	// Compare timestamps if present
	if expected.Timestamp == nil || actual.Timestamp == nil {
		assert.Equal(t, expected.Timestamp == nil, actual.Timestamp == nil, "request %s timestamp presence", expected.ID)
		return
	}
	assert.Equal(t, *expected.Timestamp, *actual.Timestamp)
}
