package loader

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"
)

// ProgressFunc is the single-writer progress sink for one Fetch call.
// Called synchronously from the goroutine driving the attempt — exactly
// the "single-writer" half of the spec's single-writer/many-reader
// observable slot; fan-out to multiple readers is the caller's concern
// (e.g. forwarding onto a channel or an event bus).
type ProgressFunc func(Progress)

// Operation distinguishes upload vs download progress samples.
type Operation int

const (
	OperationUpload Operation = iota
	OperationDownload
)

func (o Operation) String() string {
	if o == OperationUpload {
		return "upload"
	}
	return "download"
}

const UnknownExpectedBytes int64 = -1

// Progress is a single upload/download progress sample (§3.1).
type Progress struct {
	Operation Operation
	Current   int64
	Expected  int64
}

// Config configures a Loader's shared transport (§4.3 "the single-session
// multiplexer"). Grounded on attacker.Engine.Attack's transport assembly.
type Config struct {
	H2C                bool
	HTTP2              bool // when true: ForceAttemptHTTP2 + http2.ConfigureTransport
	InsecureSkipVerify bool
	KeepAlive          bool
	MaxConnsPerHost    int
	DownloadsDir       string // defaults to os.TempDir()/gofetch-downloads
	MaxConcurrent      int    // 0 means unbounded

	// RoundTripper, when non-nil, replaces the h2c/standard transport
	// construction below entirely. This is the seam gofetch/stub plugs
	// into (§4.6 "a caller installs it as Client's transport override");
	// without it there would be no way to splice stub.Transport in front
	// of the real network path.
	RoundTripper http.RoundTripper
}

// Loader is the single-session multiplexer of §4.3: it owns one shared
// *http.Client, an in-flight-task table, and executes one attempt of a
// WireRequest at a time per caller, bounded overall by MaxConcurrent.
type Loader struct {
	client       *http.Client
	jar          http.CookieJar
	downloadsDir string
	sem          chan struct{}

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

// New builds a Loader the way attacker.Engine.Attack builds its
// *http.Client: h2c transport when Config.H2C is set, otherwise a standard
// transport with HTTP/2 negotiated via ALPN and an automatic HTTP/1.1
// fallback.
func New(cfg Config) *Loader {
	var rt http.RoundTripper

	if cfg.RoundTripper != nil {
		rt = cfg.RoundTripper
	} else if cfg.H2C {
		rt = &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext(ctx, network, addr)
			},
		}
	} else {
		maxConns := cfg.MaxConnsPerHost
		if maxConns <= 0 {
			maxConns = 100
		}
		transport := &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
			MaxIdleConns:        maxConns,
			MaxIdleConnsPerHost: maxConns,
			MaxConnsPerHost:     maxConns,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   !cfg.KeepAlive,
			ForceAttemptHTTP2:   cfg.HTTP2,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		}
		if cfg.HTTP2 {
			_ = http2.ConfigureTransport(transport) // falls back to HTTP/1.1 on error
		}
		rt = transport
	}

	dir := cfg.DownloadsDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "gofetch-downloads")
	}

	var sem chan struct{}
	if cfg.MaxConcurrent > 0 {
		sem = make(chan struct{}, cfg.MaxConcurrent)
	}

	jar, _ := cookiejar.New(nil)

	return &Loader{
		client: &http.Client{
			Transport: rt,
			// CheckRedirect is installed per-attempt in Fetch, since
			// follow-copy/refuse/custom mode is a WireRequest concern.
		},
		jar:          jar,
		downloadsDir: dir,
		sem:          sem,
		entries:      make(map[string]*entry),
	}
}

// Close invalidates the session (§4.3 "Session invalidation") by flipping
// a closed flag that Fetch consults before starting new work: every later
// Fetch returns ErrSessionClosed (CodeSessionError in pkg/gofetch).
// Attempts already in flight are not interrupted and do not observe
// ErrSessionClosed.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

var ErrSessionClosed = errors.New("loader: session invalidated")

// ErrChallengeCancelled is returned when a Security resolver cancels an
// auth challenge (§4.3 "Auth challenges", CancelChallenge disposition).
var ErrChallengeCancelled = errors.New("loader: auth challenge cancelled")

// retryWithChallenge consults req.Security after a 401/407 and, on
// UseCredential, replays the request once with the resolved credential
// applied. A nil, nil return means "leave the original response as-is"
// (UseDefaultHandling).
func (l *Loader) retryWithChallenge(ctx context.Context, req *WireRequest, resp *http.Response, onProgress ProgressFunc) (*http.Response, error) {
	challenge := Challenge{StatusCode: resp.StatusCode, Header: map[string][]string(resp.Header)}
	disposition, cred := req.Security.Resolve(challenge)

	switch disposition {
	case CancelChallenge:
		return nil, ErrChallengeCancelled
	case UseCredential:
		if cred == nil {
			return nil, nil
		}
		retryReq, err := l.buildHTTPRequest(ctx, req, onProgress)
		if err != nil {
			return nil, err
		}
		name := cred.HeaderName
		if name == "" {
			name = "Authorization"
		}
		retryReq.Header.Set(name, cred.HeaderValue)
		return l.clientFor(req).Do(retryReq)
	default: // UseDefaultHandling
		return nil, nil
	}
}

// Fetch drives exactly one attempt of req to completion. It is
// cancellable via ctx; cancellation resumes with Result.Err wrapping
// context.Canceled (callers in pkg/gofetch translate that to
// CodeCancelled) and, for largeData tasks, Result.ResumeData populated
// with whatever bytes were received before cancellation.
func (l *Loader) Fetch(ctx context.Context, req *WireRequest, onProgress ProgressFunc) *Result {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return &Result{Err: ErrSessionClosed}
	}

	if l.sem != nil {
		select {
		case l.sem <- struct{}{}:
			defer func() { <-l.sem }()
		case <-ctx.Done():
			return &Result{Err: ctx.Err()}
		}
	}

	id := uuid.NewString()
	e := newEntry()
	l.mu.Lock()
	l.entries[id] = e
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.entries, id)
		l.mu.Unlock()
	}()

	collector := newMetricsCollector()
	traceCtx := newTraceContext(ctx, collector)

	httpReq, err := l.buildHTTPRequest(traceCtx, req, onProgress)
	if err != nil {
		return &Result{Err: err, Metrics: collector.finish()}
	}

	client := l.clientFor(req)

	resp, err := client.Do(httpReq)
	if err != nil {
		metrics := collector.finish()
		if ctx.Err() != nil {
			return &Result{Err: ctx.Err(), Metrics: metrics, ResumeData: e.snapshotBytes()}
		}
		return &Result{Err: err, Metrics: metrics}
	}
	defer resp.Body.Close()

	if req.Security != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusProxyAuthRequired) {
		retried, rerr := l.retryWithChallenge(traceCtx, req, resp, onProgress)
		if rerr != nil {
			return &Result{Err: rerr, Transport: resp, Metrics: collector.finish()}
		}
		if retried != nil {
			resp.Body.Close()
			resp = retried
			defer resp.Body.Close()
		}
	}

	switch req.TaskKind {
	case TaskDownload, TaskDownloadResume:
		return l.finishDownload(ctx, req, resp, e, collector, onProgress)
	default:
		return l.finishData(ctx, resp, e, collector, onProgress)
	}
}

// clientFor returns a client sharing this loader's transport but with a
// per-attempt CheckRedirect reflecting the wire request's follow policy
// (§4.3 "Redirects").
func (l *Loader) clientFor(req *WireRequest) *http.Client {
	c := &http.Client{Transport: l.client.Transport, Timeout: req.Timeout}
	if req.HandleCookies {
		c.Jar = l.jar
	}
	c.CheckRedirect = func(httpReq *http.Request, via []*http.Request) error {
		if !req.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if req.CustomRedirect != nil {
			proposed, err := req.CustomRedirect(httpReq, via)
			if err != nil {
				return err
			}
			if proposed == nil {
				return http.ErrUseLastResponse
			}
			return nil
		}
		if req.FollowCopy && len(via) > 0 {
			orig := via[0]
			httpReq.Method = orig.Method
			httpReq.Header = orig.Header.Clone()
			if orig.GetBody != nil {
				body, err := orig.GetBody()
				if err == nil {
					httpReq.Body = body
				}
			}
		}
		if len(via) >= 10 {
			return fmt.Errorf("gofetch: stopped after 10 redirects")
		}
		return nil
	}
	return c
}

func (l *Loader) buildHTTPRequest(ctx context.Context, req *WireRequest, onProgress ProgressFunc) (*http.Request, error) {
	var body io.Reader
	var getBody func() (io.ReadCloser, error)
	var total int64 = UnknownExpectedBytes

	if req.Body.IsStream() {
		rc, err := req.Body.OpenStream()
		if err != nil {
			return nil, err
		}
		body = rc
		getBody = req.Body.OpenStream // fresh stream every time net/http needs a re-send
		total = req.Body.Length
	} else if len(req.Body.Bytes) > 0 {
		body = bytes.NewReader(req.Body.Bytes)
		total = int64(len(req.Body.Bytes))
		getBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(req.Body.Bytes)), nil
		}
	}

	if onProgress != nil && body != nil {
		body = &countingReader{r: body, total: total, onProgress: onProgress}
	}

	var rc io.ReadCloser
	if body != nil {
		if c, ok := body.(io.ReadCloser); ok {
			rc = c
		} else {
			rc = io.NopCloser(body)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, rc)
	if err != nil {
		return nil, err
	}
	httpReq.Header = req.Header.Clone()
	httpReq.GetBody = getBody
	applyCachePolicy(httpReq, req.Cache)

	if req.TaskKind == TaskDownloadResume && len(req.PartialData) > 0 {
		httpReq.Header.Set("Range", fmt.Sprintf("bytes=%d-", len(req.PartialData)))
	}

	return httpReq, nil
}

func applyCachePolicy(r *http.Request, cp CachePolicy) {
	switch cp {
	case CachePolicyReloadIgnoringLocalCache:
		r.Header.Set("Cache-Control", "no-cache")
	case CachePolicyReturnCacheDataDontLoad:
		r.Header.Set("Cache-Control", "only-if-cached")
	case CachePolicyReturnCacheDataElseLoad:
		// best-effort: no stdlib equivalent of "prefer cache, fall back
		// to network" short of a caching RoundTripper, which is a
		// transport concern out of scope per spec.md §1.
	}
}

// countingReader reports upload progress as the transport reads the body.
type countingReader struct {
	r          io.Reader
	sent       int64
	total      int64
	onProgress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		c.onProgress(Progress{Operation: OperationUpload, Current: c.sent, Expected: c.total})
	}
	return n, err
}

func (c *countingReader) Close() error {
	if rc, ok := c.r.(io.ReadCloser); ok {
		return rc.Close()
	}
	return nil
}

func (l *Loader) finishData(ctx context.Context, resp *http.Response, e *entry, collector *metricsCollector, onProgress ProgressFunc) *Result {
	expected := resp.ContentLength
	if expected <= 0 {
		expected = UnknownExpectedBytes
	}

	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			e.appendData(buf[:n])
			written += int64(n)
			if onProgress != nil {
				onProgress(Progress{Operation: OperationDownload, Current: written, Expected: expected})
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			metrics := collector.finish()
			if ctx.Err() != nil {
				return &Result{Err: ctx.Err(), Metrics: metrics, Transport: resp, ResumeData: e.snapshotBytes()}
			}
			return &Result{Err: rerr, Metrics: metrics, Transport: resp}
		}
	}

	return &Result{Transport: resp, Bytes: e.snapshotBytes(), Metrics: collector.finish()}
}

func (l *Loader) finishDownload(ctx context.Context, req *WireRequest, resp *http.Response, e *entry, collector *metricsCollector, onProgress ProgressFunc) *Result {
	if err := os.MkdirAll(l.downloadsDir, 0o755); err != nil {
		return &Result{Err: err, Transport: resp, Metrics: collector.finish()}
	}

	tmp, err := os.CreateTemp(l.downloadsDir, "partial-*")
	if err != nil {
		return &Result{Err: err, Transport: resp, Metrics: collector.finish()}
	}
	tmpPath := tmp.Name()

	// Resume seeds the temp file with the bytes the caller already has
	// (§4.1 "download-resume(partial_data)"); buildHTTPRequest already
	// asked the server to start at this same offset via Range, so the
	// two must stay in lockstep or the file ends up with a gap or a
	// duplicated span.
	var seeded int64
	resuming := req.TaskKind == TaskDownloadResume && len(req.PartialData) > 0
	if resuming {
		if _, werr := tmp.Write(req.PartialData); werr != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return &Result{Err: werr, Transport: resp, Metrics: collector.finish()}
		}
		seeded = int64(len(req.PartialData))
	}

	expected := resp.ContentLength
	if expected <= 0 {
		expected = UnknownExpectedBytes
	} else if resuming && resp.StatusCode == http.StatusPartialContent {
		expected += seeded
	}

	written := seeded
	buf := make([]byte, 64*1024)
	var copyErr error
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				copyErr = werr
				break
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(Progress{Operation: OperationDownload, Current: written, Expected: expected})
			}
		}
		if rerr != nil {
			if rerr != io.EOF {
				copyErr = rerr
			}
			break
		}
	}
	tmp.Close()

	metrics := collector.finish()

	if copyErr != nil {
		if ctx.Err() != nil {
			resume, _ := os.ReadFile(tmpPath)
			os.Remove(tmpPath)
			return &Result{Err: ctx.Err(), Transport: resp, Metrics: metrics, ResumeData: resume}
		}
		os.Remove(tmpPath)
		return &Result{Err: copyErr, Transport: resp, Metrics: metrics}
	}

	// Move to a stable path named after a fresh UUID (§4.3 "Byte
	// accumulation" — download finish moves the temp file to a stable
	// path derived from a random UUID filename).
	finalPath := filepath.Join(l.downloadsDir, uuid.NewString())
	if err := os.Rename(tmpPath, finalPath); err != nil {
		// Spec: if the move fails, the response carries no body but no
		// error is synthesized here — the validator chain observes empty
		// data and may fail it.
		os.Remove(tmpPath)
		return &Result{Transport: resp, Metrics: metrics}
	}

	return &Result{Transport: resp, FileURL: finalPath, Metrics: metrics}
}
