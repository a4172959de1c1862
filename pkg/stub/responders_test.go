package stub

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_AlwaysReturnsSameResponse(t *testing.T) {
	s := Static{Response: Response{StatusCode: 418, Body: []byte("teapot")}}
	r1, err := s.Respond(nil, nil, nil)
	require.NoError(t, err)
	r2, err := s.Respond(nil, []byte("ignored"), nil)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 418, r1.StatusCode)
}

func TestProviderFunc_AdaptsClosure(t *testing.T) {
	var p Provider = ProviderFunc(func(req *http.Request, body []byte, rule *Rule) Response {
		return Response{StatusCode: 200, Body: body}
	})
	resp, err := p.Respond(nil, []byte("hi"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), resp.Body)
}

func TestEcho_MirrorsBodyAndSelectedHeaders(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "https://api.example/echo", nil)
	require.NoError(t, err)
	r.Header.Set("X-Trace-Id", "abc-123")
	r.Header.Set("X-Secret", "dont-mirror-me")

	e := Echo{MirrorHeaders: []string{"X-Trace-Id"}}
	resp, err := e.Respond(r, []byte(`{"hello":"world"}`), nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte(`{"hello":"world"}`), resp.Body)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Trace-Id"))
	assert.Empty(t, resp.Header.Get("X-Secret"))
}

func TestEcho_CustomStatusCode(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "https://api.example/echo", nil)
	e := Echo{StatusCode: http.StatusAccepted}
	resp, err := e.Respond(r, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
