package gofetch

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/amr9/gofetch/pkg/body"
)

// TransferMode selects whether a request's response is buffered in
// memory (Default) or accumulated as a file on disk (LargeData), which
// in turn drives internal/loader's task-kind selection (§4.1).
type TransferMode int

const (
	TransferDefault TransferMode = iota
	TransferLargeData
)

// Priority mirrors the spec's http_priority enum. net/http has no
// first-class request-priority concept; gofetch carries it as metadata
// a custom RoundTripper (e.g. one built atop HTTP/2 stream priorities)
// may consult, the same way Request carries a Security override the
// loader consults opportunistically.
type Priority int

const (
	PriorityVeryLow Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityVeryHigh
)

// RedirectMode is the request-level override of a Client's follow-
// redirect policy (§4.3 "Redirects").
type RedirectMode int

const (
	// RedirectInherit defers entirely to the client's mode.
	RedirectInherit RedirectMode = iota
	RedirectFollow
	RedirectFollowCopy
	RedirectRefuse
)

// RedirectFunc realizes RedirectMode's followCustom(fn) variant.
type RedirectFunc func(proposed *http.Request, via []*http.Request) (*http.Request, error)

// Request is the short-lived, user-constructed declarative description
// of one HTTP call (§3.1 Request). It is immutable once handed to
// Client.Fetch — current_attempt/is_alt_request bookkeeping that the
// spec describes as request-mutable instead lives in Client.fetchLoop's
// local state (and Response.IsAltRequest).
type Request struct {
	Method string

	// URL parts. Scheme/Host/Port/Path/Query mirror the spec's explicit
	// decomposition; RawURL, when set and absolute (it parses with a
	// host), replaces Scheme/Host/Port/Path, with Query and the client's
	// CommonQuery still merged into its query string.
	RawURL string
	Scheme string
	Host   string
	Port   string
	Path   string
	Query  url.Values

	Header http.Header
	Body   body.Body

	Timeout      *time.Duration
	CachePolicy  *CachePolicy
	HTTPPriority Priority
	TransferMode TransferMode
	MaxRetries   int

	Security     Security
	PartialData  []byte
	RedirectMode RedirectMode
	CustomRedirect RedirectFunc

	// Modifier runs after composition and may mutate the wire request
	// one last time; returning an error fails the whole composition
	// (§4.1 "Modifier hook").
	Modifier func(*WireRequest) error

	// Fingerprint is the generated correlation key the spec calls out
	// under the request's user-info map; assigned once at construction.
	Fingerprint string

	// OnProgress, when set, receives every upload/download Progress
	// sample for this request's in-flight attempt (§3.1 Progress: "a
	// per-request observable slot", single-writer/many-reader — fan-out
	// to more than one reader is the caller's concern).
	OnProgress func(Progress)
}

// NewRequest builds a Request with its Fingerprint populated, the way
// every constructor-level identity in this codebase is minted — see
// internal/loader's per-attempt task ids, also uuid.NewString-derived.
func NewRequest(method string) *Request {
	return &Request{
		Method:      method,
		Header:      make(http.Header),
		Query:       make(url.Values),
		Fingerprint: uuid.NewString(),
	}
}

// Fetch runs r against client, or Shared() when client is nil (§6
// "request.fetch(client=shared)").
func (r *Request) Fetch(ctx context.Context, client *Client) *Response {
	if client == nil {
		client = Shared()
	}
	return client.Fetch(ctx, r)
}

// FetchAs runs r and decodes the result as T (§6 "fetch_as<T>").
func FetchAs[T any](ctx context.Context, client *Client, r *Request) (T, error) {
	resp := r.Fetch(ctx, client)
	return Decode[T](resp)
}
