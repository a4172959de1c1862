// Package loader implements the async data loader of §4.3: the
// single-owner in-flight-task table that drives one attempt of a
// WireRequest through a shared *http.Client, bridging net/http's
// completion-callback model into a cancellable, awaitable Fetch call.
//
// Grounded on attacker.Engine (_examples/Amr-9-Sayl/internal/attacker):
// one *http.Client built once and the h2c vs standard transport branch.
// Bodies are read with a buffered Read loop (into memory for data tasks,
// into a temp file for downloads) so progress and cancellation can be
// observed between chunks.
package loader

import (
	"io"
	"net/http"
	"time"
)

// CachePolicy is the loader's rendering of the spec's abstract cache
// policy. Go's net/http has no first-class cache-policy concept, so this
// maps onto best-effort Cache-Control header injection; true HTTP caching
// semantics are a transport concern and out of scope per spec.md §1.
type CachePolicy int

const (
	CachePolicyUseProtocol CachePolicy = iota
	CachePolicyReloadIgnoringLocalCache
	CachePolicyReturnCacheDataElseLoad
	CachePolicyReturnCacheDataDontLoad
)

// TaskKind selects the loader's execution strategy for one attempt (§4.1
// "Task-kind selection").
type TaskKind int

const (
	TaskData TaskKind = iota
	TaskUploadStream
	TaskDownload
	TaskDownloadResume
)

// BodySource is what a WireRequest carries as its realized body: either
// contiguous bytes or a factory that opens a fresh, re-openable stream
// (needed for upload-stream refill per §4.3 "Stream refill").
type BodySource struct {
	Bytes       []byte
	OpenStream  func() (io.ReadCloser, error)
	Length      int64 // -1 when unknown (chunked)
}

func (b BodySource) IsStream() bool { return b.OpenStream != nil }

// WireRequest is the immutable, fully composed representation the loader
// executes (§3.1). It is produced exactly once per attempt by the
// composer in pkg/gofetch.
type WireRequest struct {
	Method       string
	URL          string
	Header       http.Header
	Body         BodySource
	Cache        CachePolicy
	Timeout      time.Duration
	HandleCookies bool
	Cellular     bool
	TaskKind     TaskKind
	PartialData  []byte // download-resume seed bytes

	// FollowRedirects, when false, refuses every redirect for this
	// attempt regardless of the client's mode (request-level "refuse").
	FollowRedirects bool
	// FollowCopy rebuilds the proposed request from the original
	// method/headers/body instead of using the transport's proposal
	// (§4.3 "Redirects" / follow-copy mode).
	FollowCopy bool
	// CustomRedirect, when set, is consulted instead of the default
	// follow/refuse/copy logic (followCustom mode).
	CustomRedirect func(proposed *http.Request, via []*http.Request) (*http.Request, error)

	// Security resolves auth challenges for this attempt, if configured.
	Security Security
}
