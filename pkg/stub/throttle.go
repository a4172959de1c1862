package stub

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

const slotSeconds = 0.25

// throttledReader paces reads to simulate the §4.6 speed(kbps) delivery
// mode: a per-slot byte budget of kbps*1000*0.25 bytes, computed once at
// construction. Grounded directly
// on attacker.Engine.runStages, which ramps a rate.Limiter the same way
// over time; here the limiter's burst is the per-slot byte budget and
// its own internal float64 token accumulator gives us the "fractional
// carry-over across slots" the spec requires for free.
type throttledReader struct {
	ctx     context.Context
	src     io.Reader
	limiter *rate.Limiter
	burst   int
}

// newThrottledReader builds a reader delivering src at kbps kilobits...
// actually kilobytes per second, matching the spec's "kbps * 1000 *
// slot_time" byte-budget formula.
func newThrottledReader(ctx context.Context, src io.Reader, kbps float64) *throttledReader {
	bytesPerSecond := kbps * 1000
	burst := int(bytesPerSecond * slotSeconds)
	if burst < 1 {
		burst = 1
	}
	return &throttledReader{
		ctx:     ctx,
		src:     src,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
		burst:   burst,
	}
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if len(p) > t.burst {
		p = p[:t.burst]
	}
	n, err := t.src.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
