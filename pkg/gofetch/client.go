package gofetch

import (
	"net/http"
	"net/url"
	"time"

	"github.com/amr9/gofetch/internal/loader"
	"github.com/amr9/gofetch/internal/logging"
	"github.com/amr9/gofetch/internal/telemetry"
)

// Client is the long-lived composition root of §3.1: it owns the base
// URL, shared headers, default policies, the ordered validator chain,
// and the single loader every Fetch call executes through.
type Client struct {
	BaseURL *url.URL
	Headers http.Header

	CachePolicy     CachePolicy
	Timeout         time.Duration
	Security        Security
	FollowRedirects RedirectMode
	CustomRedirect  RedirectFunc
	HandleCookies   bool

	CommonQuery url.Values

	// Validators is consulted in order by the retry pipeline. NewClient
	// fills it with one DefaultValidator; if it is later set to an empty
	// slice, the pipeline falls back to a fresh DefaultValidator.
	Validators []Validator

	// MaxAltRequests is set to 1 by NewClient but is not read by the
	// pipeline; the alt-request cap is enforced by each
	// retry.AuthValidator through its own MaxAltRequests field.
	MaxAltRequests int

	// Telemetry aggregates latency/outcome counters across every attempt
	// this Client drives, an ambient concern carried regardless of the
	// spec's own non-goals around observability layers. Never nil.
	Telemetry *telemetry.Aggregator

	// Logger receives structured events for retries, alt-requests, and
	// attempt outcomes. Defaults to a production zap-backed Logger;
	// callers that don't want logging can set this to logging.Discard().
	// Never nil.
	Logger logging.Logger

	loader *loader.Loader
}

// Config configures the shared transport a Client's loader drives
// (transport/session concerns only — request composition policy is set
// directly on the returned *Client's exported fields).
type Config = loader.Config

// NewClient builds a Client with the non-empty-validators invariant
// satisfied and a fresh loader.Loader backing it.
func NewClient(cfg Config) *Client {
	return &Client{
		Headers:         make(http.Header),
		CommonQuery:     make(url.Values),
		FollowRedirects: RedirectFollow,
		Validators:      []Validator{NewDefaultValidator()},
		MaxAltRequests:  1,
		Telemetry:       telemetry.NewAggregator(),
		Logger:          logging.New(),
		loader:          loader.New(cfg),
	}
}

// Close invalidates the client's session (§4.3 "Session invalidation").
func (c *Client) Close() { c.loader.Close() }

func (c *Client) effectiveValidators() []Validator {
	if len(c.Validators) == 0 {
		return []Validator{NewDefaultValidator()}
	}
	return c.Validators
}

// effectiveLogger guards against a Client built as a bare struct literal
// rather than via NewClient, where Logger would be nil.
func (c *Client) effectiveLogger() logging.Logger {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}
