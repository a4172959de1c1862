// Package body implements the request body encoders of §4.2: each
// encoder exposes one Serialize operation producing either contiguous
// bytes or a re-openable stream, plus headers the composer merges in at
// body tier. The package has no dependency on gofetch itself — it is a
// leaf, matched to the teacher's habit of keeping wire-format code
// (attacker's template/variable machinery) free of orchestration
// concerns.
package body

import (
	"io"
	"net/http"
)

// Encoded is what Serialize produces: either Bytes or a re-openable
// stream via Open, never both. Length is -1 when the caller cannot know
// it up front (a streamed, non-seekable source).
type Encoded struct {
	Bytes   []byte
	Open    func() (io.ReadCloser, error)
	Length  int64
	Headers http.Header
}

// IsStream reports whether this encoding carries a re-openable stream
// rather than contiguous bytes.
func (e Encoded) IsStream() bool { return e.Open != nil }

// Body is the serialization contract every body variant implements.
type Body interface {
	Serialize() (Encoded, error)
}

func headerWith(contentType string) http.Header {
	h := make(http.Header, 1)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return h
}
