package loader

import (
	"bytes"
	"sync"
)

// entry is the per-in-flight-task bookkeeping record (§3.1 LoaderEntry).
// Mutations happen only from the goroutine driving this entry's Fetch call
// (the "delegate executor" of §4.3/§5 is, in this Go rendering, simply
// that goroutine plus the httptrace callbacks net/http invokes on it).
type entry struct {
	mu sync.Mutex

	buf        bytes.Buffer // data-task accumulator
	downloadTo string       // stable file path once a download finishes moving

	resumeRequested bool
	resumeCallback  func([]byte)

	cancel func()
}

func newEntry() *entry {
	return &entry{}
}

func (e *entry) appendData(p []byte) {
	e.mu.Lock()
	e.buf.Write(p)
	e.mu.Unlock()
}

func (e *entry) snapshotBytes() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	return out
}
