package loader

import "net/http"

// Result is what one attempt produces: either bytes, a downloaded file
// path, or an error — never more than one "body" representation, mirroring
// the Response invariant in §3.1 ("exactly one of bytes_or_file_present,
// error").
type Result struct {
	Transport  *http.Response // status/headers; Body already drained/closed
	Bytes      []byte         // set for data/upload tasks
	FileURL    string         // set for download tasks
	Metrics    Metrics
	Err        error
	ResumeData []byte // bytes received before ctx was cancelled mid-attempt
}
