package stub

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// Transport implements http.RoundTripper and IS the "URL hook" of §4.6
// in Go terms: a caller installs it as a Client's transport override
// instead of registering a global NSURLProtocol-style hook. Requests
// that no rule matches and no ignore rule passes through fail with
// ErrMatchNotFound; requests an IgnoreRule matches are forwarded to
// Next.
type Transport struct {
	Registry *Registry
	// Next is the real transport ignored requests fall through to. If
	// nil, http.DefaultTransport is used.
	Next http.RoundTripper
}

func NewTransport(registry *Registry) *Transport {
	return &Transport{Registry: registry}
}

func (t *Transport) next() http.RoundTripper {
	if t.Next != nil {
		return t.Next
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	if t.Registry.shouldIgnore(req, bodyBytes) {
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		return t.next().RoundTrip(req)
	}

	rule, provider, ok := t.Registry.match(req, bodyBytes)
	if !ok {
		return nil, ErrMatchNotFound
	}

	stubResp, err := provider.Respond(req, bodyBytes, rule)
	if err != nil {
		return nil, err
	}
	if stubResp.FailErr != nil {
		return nil, stubResp.FailErr
	}

	return t.deliver(req, stubResp)
}

func (t *Transport) deliver(req *http.Request, stubResp Response) (*http.Response, error) {
	switch stubResp.Delivery.Mode {
	case DeliveryDelayed:
		select {
		case <-time.After(time.Duration(stubResp.Delivery.DelaySeconds * float64(time.Second))):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	case DeliverySpeed:
		return t.deliverThrottled(req, stubResp)
	}

	return t.synthesize(req, stubResp)
}

func (t *Transport) deliverThrottled(req *http.Request, stubResp Response) (*http.Response, error) {
	var src io.Reader
	if stubResp.OpenStream != nil {
		rc, err := stubResp.OpenStream()
		if err != nil {
			return nil, err
		}
		src = rc
	} else {
		src = bytes.NewReader(stubResp.Body)
	}

	throttled := newThrottledReader(req.Context(), src, stubResp.Delivery.KBps)
	resp := t.baseResponse(req, stubResp)
	resp.Body = io.NopCloser(throttled)
	return resp, nil
}

func (t *Transport) synthesize(req *http.Request, stubResp Response) (*http.Response, error) {
	resp := t.baseResponse(req, stubResp)
	if stubResp.OpenStream != nil {
		rc, err := stubResp.OpenStream()
		if err != nil {
			return nil, err
		}
		resp.Body = rc
	} else {
		resp.Body = io.NopCloser(bytes.NewReader(stubResp.Body))
		resp.ContentLength = int64(len(stubResp.Body))
	}
	return resp, nil
}

// baseResponse builds the *http.Response shell. Redirect synthesis for
// 3xx-with-Location piggybacks entirely on net/http.Client's own
// redirect-status recognition (301/302/303/307/308) and its Jar-driven
// Set-Cookie handling — neither 304 nor 305 appears in that set, so
// Open Question (a)'s "never redirect on 304/305" requirement holds
// without any special-casing here.
func (t *Transport) baseResponse(req *http.Request, stubResp Response) *http.Response {
	header := stubResp.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if stubResp.ContentType != "" {
		header.Set("Content-Type", stubResp.ContentType)
	}

	status := stubResp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     header,
		Request:    req,
	}
}
