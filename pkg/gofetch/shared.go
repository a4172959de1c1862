package gofetch

import "sync"

var (
	sharedOnce   sync.Once
	sharedClient *Client
	sharedMu     sync.Mutex
)

// Shared returns the process-wide default Client (§6
// "request.fetch(client=shared)"), built lazily on first use with a
// zero-value Config.
func Shared() *Client {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedOnce.Do(func() {
		sharedClient = NewClient(Config{})
	})
	return sharedClient
}

// ResetShared discards the process-wide default Client so the next
// Shared() call builds a fresh one — a test-only seam, the same role
// the teacher's package-level test helpers fill for CLI state.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedOnce = sync.Once{}
	sharedClient = nil
}
