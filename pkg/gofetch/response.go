package gofetch

import (
	"net/http"

	"github.com/tidwall/gjson"
)

// Response is the terminal result of one completed attempt (§3.1).
// Invariant: for a response with no Err, exactly one of Bytes/FileURL is
// populated for a largeData attempt, and Bytes alone for a data attempt;
// a transport error may carry neither.
type Response struct {
	Transport *http.Response // nil on composition/body-serialization failures
	Bytes     []byte
	FileURL   string
	Err       *Error
	Metrics   Metrics
	Request   *Request

	// ResumeData holds the bytes an attempt had received when its context
	// was cancelled (§4.3 "Cancellation"), for data and largeData attempts
	// alike; Task.Cancel(resumeCB) hands it to resumeCB when non-empty.
	ResumeData []byte

	// IsAltRequest is true when this Response belongs to an alt-request
	// fetchLoop ran on a validator's behalf (§3.2 "Alt-requests never
	// trigger nested retries"). Validators that budget a count of
	// alt-requests they've issued (e.g. retry.AuthValidator) must check
	// this before spending budget: an alt-request's own failure re-enters
	// Validate, but fetchLoop discards whatever retry it decides on, so
	// counting it would burn budget on a retry that can never happen.
	IsAltRequest bool
}

// StatusCode returns the transport status code, or 0 when there is none
// (composition failure, transport error with no response).
func (r *Response) StatusCode() int {
	if r.Transport == nil {
		return 0
	}
	return r.Transport.StatusCode
}

// Header returns the transport response's headers, or an empty Header
// when there is none.
func (r *Response) Header() http.Header {
	if r.Transport == nil {
		return http.Header{}
	}
	return r.Transport.Header
}

// IsEmpty reports whether the response carries no body bytes and no
// file — the condition the default validator's "empty-response" branch
// checks (§4.4).
func (r *Response) IsEmpty() bool {
	return len(r.Bytes) == 0 && r.FileURL == ""
}

// JSONPath is a convenience accessor over Bytes via gjson for callers —
// grounded on the teacher's gjson.GetBytes use in both attacker.go and
// internal/validator/assertions.go. Nothing inside this module calls it;
// retry.AssertionValidator and stub.JSONEquals call gjson directly.
func (r *Response) JSONPath(path string) gjson.Result {
	return gjson.GetBytes(r.Bytes, path)
}

// RawResponse is the spec's "stamped typealias" letting a caller ask for
// the untouched response through Decode's same interface.
type RawResponse = Response
