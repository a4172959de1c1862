package gofetch

import (
	"context"
	"sync"
)

// Task is the cancellable handle §6 calls request.cancel(...): Go has
// no first-class awaitable-and-cancellable-from-elsewhere async value,
// so FetchTask starts fetchLoop on its own goroutine and hands back a
// handle a second goroutine can Cancel while a third Waits — the
// closest idiomatic match to the spec's "cancel while in flight" shape.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu             sync.Mutex
	resumeCallback func([]byte)
	resp           *Response
}

// FetchTask starts req against c asynchronously and returns a handle
// that can be cancelled (optionally capturing resume data) or waited
// on.
func (c *Client) FetchTask(ctx context.Context, req *Request) *Task {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		resp := c.fetchLoop(taskCtx, req, false)

		t.mu.Lock()
		t.resp = resp
		cb := t.resumeCallback
		t.mu.Unlock()

		if cb != nil && len(resp.ResumeData) > 0 {
			cb(resp.ResumeData)
		}
		close(t.done)
	}()

	return t
}

// Cancel fires the task's cancellation. When resumeDataCallback is
// non-nil and the in-flight attempt was a largeData download,
// resumeDataCallback receives whatever bytes had been received before
// the completion is delivered (§4.3 "cancel_with_resume_data"). Always
// returns true: Go's context cancellation cannot itself fail.
func (t *Task) Cancel(resumeDataCallback func([]byte)) bool {
	t.mu.Lock()
	t.resumeCallback = resumeDataCallback
	t.mu.Unlock()
	t.cancel()
	return true
}

// Wait blocks until the task completes and returns its terminal
// Response.
func (t *Task) Wait() *Response {
	<-t.done
	return t.resp
}
