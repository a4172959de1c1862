package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr9/gofetch/internal/telemetry"
)

func sampleSummary() telemetry.Summary {
	return telemetry.Summary{
		TotalRequests: 10,
		SuccessCount:  8,
		FailureCount:  2,
		SuccessRate:   80,
		RPS:           5,
		P50:           10 * time.Millisecond,
		P99:           50 * time.Millisecond,
		Min:           1 * time.Millisecond,
		Max:           100 * time.Millisecond,
		StatusCodes:   map[int]int64{200: 8, 500: 2},
		Errors:        map[string]int64{"boom": 2},
	}
}

func TestWriteHTML_RendersSummaryAndTables(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, sampleSummary())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "500")
	assert.Contains(t, out, "boom")
}

func TestWriteConsole_PrintsKeyMetrics(t *testing.T) {
	var buf bytes.Buffer
	WriteConsole(&buf, sampleSummary())

	out := buf.String()
	assert.True(t, strings.Contains(out, "total requests : 10"))
	assert.True(t, strings.Contains(out, "80.0%"))
	assert.True(t, strings.Contains(out, "200: 8"))
	assert.True(t, strings.Contains(out, "boom: 2"))
}

func TestFormatDuration_Scales(t *testing.T) {
	assert.Equal(t, "500µs", formatDuration(500*time.Microsecond))
	assert.Equal(t, "1.5ms", formatDuration(1500*time.Microsecond))
	assert.Equal(t, "2.00s", formatDuration(2*time.Second))
}
