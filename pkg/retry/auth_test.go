package retry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr9/gofetch/pkg/gofetch"
)

func responseWithStatus(status int) *gofetch.Response {
	return &gofetch.Response{Transport: &http.Response{StatusCode: status}}
}

func TestAuthValidator_IgnoresNonTriggerStatus(t *testing.T) {
	v := &AuthValidator{
		Provider: func(req *gofetch.Request, resp *gofetch.Response) *gofetch.Request {
			t.Fatal("provider should not be consulted for a non-trigger status")
			return nil
		},
		MaxAltRequests: 1,
	}

	v.Validate(responseWithStatus(http.StatusOK), gofetch.NewRequest(http.MethodGet))
}

func TestAuthValidator_RetriesViaAltRequestOn401(t *testing.T) {
	alt := gofetch.NewRequest(http.MethodGet)
	var providerCalls int
	v := &AuthValidator{
		Provider: func(req *gofetch.Request, resp *gofetch.Response) *gofetch.Request {
			providerCalls++
			return alt
		},
		MaxAltRequests: 1,
	}

	original := gofetch.NewRequest(http.MethodGet)
	v.Validate(responseWithStatus(http.StatusUnauthorized), original)

	assert.Equal(t, 1, providerCalls)
}

func TestAuthValidator_CapsAtMaxAltRequests(t *testing.T) {
	var providerCalls int
	v := &AuthValidator{
		Provider: func(req *gofetch.Request, resp *gofetch.Response) *gofetch.Request {
			providerCalls++
			return gofetch.NewRequest(http.MethodGet)
		},
		MaxAltRequests: 1,
	}

	req := gofetch.NewRequest(http.MethodGet)
	v.Validate(responseWithStatus(http.StatusUnauthorized), req)
	v.Validate(responseWithStatus(http.StatusUnauthorized), req)
	v.Validate(responseWithStatus(http.StatusUnauthorized), req)

	assert.Equal(t, 1, providerCalls)
}

func TestAuthValidator_NilProviderDeclines(t *testing.T) {
	v := &AuthValidator{MaxAltRequests: 1}
	v.Validate(responseWithStatus(http.StatusForbidden), gofetch.NewRequest(http.MethodGet))
}

func TestAuthValidator_CustomTriggerStatuses(t *testing.T) {
	var providerCalls int
	v := &AuthValidator{
		TriggerStatuses: []int{440},
		Provider: func(req *gofetch.Request, resp *gofetch.Response) *gofetch.Request {
			providerCalls++
			return gofetch.NewRequest(http.MethodGet)
		},
		MaxAltRequests: 1,
	}

	v.Validate(responseWithStatus(http.StatusUnauthorized), gofetch.NewRequest(http.MethodGet))
	assert.Equal(t, 0, providerCalls)

	v.Validate(responseWithStatus(440), gofetch.NewRequest(http.MethodGet))
	assert.Equal(t, 1, providerCalls)
}

// TestAuthValidator_EndToEndRefreshThenSucceed drives a real Client
// through a server that rejects the first request with 401 and accepts
// only a refreshed request carrying a bearer token.
func TestAuthValidator_EndToEndRefreshThenSucceed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer refreshed-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := gofetch.NewClient(gofetch.Config{})
	defer c.Close()
	c.Validators = []gofetch.Validator{
		&AuthValidator{
			MaxAltRequests: 1,
			// Provider's side effect (setting the Authorization header
			// on the very request object the pipeline retries) is what
			// makes the next attempt succeed; the returned alt request
			// drives the pipeline's mandatory "one request before
			// resuming" step (here, re-using the now-refreshed request).
			Provider: func(req *gofetch.Request, resp *gofetch.Response) *gofetch.Request {
				req.Header.Set("Authorization", "Bearer refreshed-token")
				return req
			},
		},
	}

	req := gofetch.NewRequest(http.MethodGet)
	req.RawURL = srv.URL
	req.MaxRetries = 2

	resp := c.Fetch(context.Background(), req)
	require.Nil(t, resp.Err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}
