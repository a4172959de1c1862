package stub

import (
	"io"
	"net/http"
)

// DeliveryMode is the §4.6 "Delivery modes" tag.
type DeliveryMode int

const (
	DeliveryImmediate DeliveryMode = iota
	DeliveryDelayed
	DeliverySpeed
)

// Delivery configures how a StubResponse is handed back to the caller.
type Delivery struct {
	Mode         DeliveryMode
	DelaySeconds float64 // DeliveryDelayed
	KBps         float64 // DeliverySpeed
}

// Response is the synthesized response a Provider produces (§3.1
// StubResponse). Exactly one of Body/OpenStream should be set.
type Response struct {
	StatusCode  int
	Header      http.Header
	Body        []byte
	OpenStream  func() (io.ReadCloser, error)
	FailErr     error
	Delivery    Delivery
	ContentType string
}

// Provider is the §4.6 "Providers" contract: static, dynamic or echo.
type Provider interface {
	Respond(req *http.Request, body []byte, rule *Rule) (Response, error)
}

// Static always returns the same Response value.
type Static struct {
	Response Response
}

func (s Static) Respond(*http.Request, []byte, *Rule) (Response, error) { return s.Response, nil }

// ProviderFunc adapts a closure to Provider — the "dynamic" responder.
type ProviderFunc func(req *http.Request, body []byte, rule *Rule) Response

func (f ProviderFunc) Respond(req *http.Request, body []byte, rule *Rule) (Response, error) {
	return f(req, body, rule), nil
}

// Echo mirrors the request: status 200, the request's own body and a
// caller-chosen subset of headers copied back (§4.6 "an echo that
// returns the request's method-agnostic mirror").
type Echo struct {
	StatusCode    int // defaults to 200
	MirrorHeaders []string
}

func (e Echo) Respond(req *http.Request, body []byte, _ *Rule) (Response, error) {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	header := make(http.Header)
	for _, name := range e.MirrorHeaders {
		if v := req.Header.Get(name); v != "" {
			header.Set(name, v)
		}
	}
	return Response{StatusCode: status, Header: header, Body: body}, nil
}
