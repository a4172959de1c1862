package gofetch

import "github.com/amr9/gofetch/internal/loader"

// Stage, Metrics, Operation and Progress are owned by internal/loader (the
// component that actually wires net/http/httptrace callbacks into them);
// gofetch re-exports them as its public vocabulary so callers never import
// internal/loader directly.
type (
	Stage     = loader.Stage
	Metrics   = loader.Metrics
	Operation = loader.Operation
	Progress  = loader.Progress
)

const (
	OperationUpload      = loader.OperationUpload
	OperationDownload    = loader.OperationDownload
	UnknownExpectedBytes = loader.UnknownExpectedBytes
)

// Percentage returns (percentage, ok). ok is false when Expected is unknown,
// per the spec's "percentage optional if expected unknown" rule.
func Percentage(p Progress) (float64, bool) {
	if p.Expected == UnknownExpectedBytes || p.Expected <= 0 {
		return 0, false
	}
	return float64(p.Current) / float64(p.Expected), true
}
