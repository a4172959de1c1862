package stub

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledReader_DeliversAllBytesEventually(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)
	r := newThrottledReader(context.Background(), bytes.NewReader(payload), 100) // 100 KBps

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestThrottledReader_RespectsContextCancellation(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 10*1024*1024)
	ctx, cancel := context.WithCancel(context.Background())
	r := newThrottledReader(ctx, bytes.NewReader(payload), 1) // 1 KBps: slow enough to still be running

	cancel()
	buf := make([]byte, len(payload))
	_, err := r.Read(buf)
	assert.Error(t, err)
}

func TestThrottledReader_PacesDeliveryOverMultipleSlots(t *testing.T) {
	// At 4 KBps with a 250ms slot, the burst is ~1000 bytes per slot, so
	// reading 3000 bytes must take measurably longer than an unthrottled
	// read would.
	payload := bytes.Repeat([]byte("y"), 3000)
	r := newThrottledReader(context.Background(), bytes.NewReader(payload), 4)

	start := time.Now()
	got, err := io.ReadAll(r)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Greater(t, elapsed, 400*time.Millisecond)
}
