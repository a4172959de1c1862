package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_RecordsSuccessAndFailureCounts(t *testing.T) {
	a := NewAggregator()
	a.Record(200, 10*time.Millisecond, 128, nil)
	a.Record(500, 5*time.Millisecond, 64, nil)
	a.Record(0, 0, 0, errors.New("dial tcp: connection refused"))

	snap := a.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.SuccessCount)
	assert.Equal(t, int64(2), snap.FailureCount)
	assert.InDelta(t, 33.33, snap.SuccessRate, 0.01)
	assert.Equal(t, int64(192), snap.TotalBytes)
}

func TestAggregator_SkipsLatencyOnTransportError(t *testing.T) {
	a := NewAggregator()
	a.Record(0, 500*time.Millisecond, 0, errors.New("timeout"))
	a.Record(200, 10*time.Millisecond, 10, nil)

	snap := a.Snapshot()
	// Only the successful attempt's 10ms should show up in the
	// histogram; a 500ms transport-error "latency" would otherwise skew
	// Max far above it.
	assert.Less(t, snap.Max, 100*time.Millisecond)
}

func TestAggregator_TracksStatusCodesAndErrors(t *testing.T) {
	a := NewAggregator()
	a.Record(404, time.Millisecond, 0, nil)
	a.Record(404, time.Millisecond, 0, nil)
	a.Record(0, 0, 0, errors.New("boom"))

	snap := a.Snapshot()
	assert.Equal(t, int64(2), snap.StatusCodes[404])
	assert.Equal(t, int64(1), snap.Errors["boom"])
}

func TestAggregator_ResetClearsCounters(t *testing.T) {
	a := NewAggregator()
	a.Record(200, time.Millisecond, 10, nil)
	a.Reset()

	snap := a.Snapshot()
	assert.Equal(t, int64(0), snap.TotalRequests)
	assert.Equal(t, 0.0, snap.SuccessRate)
	assert.Empty(t, snap.StatusCodes)
}
