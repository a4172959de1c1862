package stub

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTransport_SynthesizesStaticResponse(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Rule{
		ID:       "widgets",
		Matchers: []Matcher{URLExact{URL: "https://api.example/widgets"}},
		Responses: map[string]Provider{
			"GET": Static{Response: Response{StatusCode: 201, Body: []byte(`{"ok":true}`), ContentType: "application/json"}},
		},
	})
	tr := NewTransport(reg)

	req, err := http.NewRequest(http.MethodGet, "https://api.example/widgets", nil)
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestTransport_NoMatchReturnsErrMatchNotFound(t *testing.T) {
	tr := NewTransport(NewRegistry())
	req, err := http.NewRequest(http.MethodGet, "https://api.example/unregistered", nil)
	require.NoError(t, err)

	_, rtErr := tr.RoundTrip(req)
	require.Error(t, rtErr)
	assert.True(t, errors.Is(rtErr, ErrMatchNotFound))
}

func TestTransport_IgnoreRuleForwardsToNext(t *testing.T) {
	reg := NewRegistry()
	reg.Ignore(&IgnoreRule{Matchers: []Matcher{URLExact{URL: "https://passthrough.example/", IgnoreQuery: true}}})

	var forwardedBody string
	next := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(r.Body)
		forwardedBody = string(b)
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("real-backend"))}, nil
	})
	tr := &Transport{Registry: reg, Next: next}

	req, err := http.NewRequest(http.MethodPost, "https://passthrough.example/", bytes.NewReader([]byte("payload")))
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "payload", forwardedBody)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "real-backend", string(body))
}

func TestTransport_RuleMatchedByRequestBody(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Rule{
		ID:       "body-match",
		Matchers: []Matcher{BodyEquals{Want: []byte(`{"login":"admin"}`)}},
		Responses: map[string]Provider{
			"POST": Static{Response: Response{StatusCode: 200}},
		},
	})
	tr := NewTransport(reg)

	req, err := http.NewRequest(http.MethodPost, "https://api.example/login", bytes.NewReader([]byte(`{"login":"admin"}`)))
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTransport_EchoProviderRoundTrips(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Rule{
		ID:        "echo",
		Matchers:  []Matcher{URLExact{URL: "https://api.example/echo"}},
		Responses: map[string]Provider{"*": Echo{}},
	})
	tr := NewTransport(reg)

	req, err := http.NewRequest(http.MethodPut, "https://api.example/echo", bytes.NewReader([]byte("ping")))
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ping", string(body))
}
