package gofetch

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFibonacci_ZeroAtZero(t *testing.T) {
	assert.Equal(t, 0, fibonacci(0))
	assert.Equal(t, 1, fibonacci(1))
	assert.Equal(t, 1, fibonacci(2))
	assert.Equal(t, 2, fibonacci(3))
	assert.Equal(t, 3, fibonacci(4))
	assert.Equal(t, 5, fibonacci(5))
}

func TestComputeDelay_Exponential(t *testing.T) {
	strategy := RetryExponential(2)
	assert.Equal(t, math.Pow(2, 0), computeDelay(strategy, 1, nil))
	assert.Equal(t, math.Pow(2, 2), computeDelay(strategy, 3, nil))
}

func TestComputeDelay_Custom(t *testing.T) {
	strategy := RetryCustom(func(*Request) float64 { return 42 })
	assert.Equal(t, 42.0, computeDelay(strategy, 1, NewRequest(http.MethodGet)))
}

func TestValidateAll_FirstTerminalResultWins(t *testing.T) {
	c := NewClient(Config{})
	c.Validators = []Validator{
		ValidatorFunc(func(*Response, *Request) ValidatorResult { return NextValidator() }),
		ValidatorFunc(func(*Response, *Request) ValidatorResult {
			return FailChain(newError(CodeInternal, "stop here", nil))
		}),
		ValidatorFunc(func(*Response, *Request) ValidatorResult {
			t.Fatal("unreachable validator ran after a terminal result")
			return NextValidator()
		}),
	}

	result := c.validateAll(&Response{}, NewRequest(http.MethodGet))
	assert.Equal(t, resultFailChain, result.kind)
	assert.Equal(t, CodeInternal, result.err.Code)
}

func TestValidateAll_NextValidatorWithResponseSubstitutes(t *testing.T) {
	c := NewClient(Config{})
	substituted := &Response{Bytes: []byte("patched")}
	c.Validators = []Validator{
		ValidatorFunc(func(*Response, *Request) ValidatorResult {
			return NextValidatorWithResponse(substituted)
		}),
	}

	result := c.validateAll(&Response{Bytes: []byte("original")}, NewRequest(http.MethodGet))
	assert.Equal(t, resultNextValidatorWithResponse, result.kind)
	assert.Equal(t, substituted, result.response)
}

func TestHandleRetry_BoundedRetryStopsAtMaxRetries(t *testing.T) {
	c := NewClient(Config{})
	req := NewRequest(http.MethodGet)
	req.MaxRetries = 0
	attempt := 1
	current := &Response{}

	terminal, done := c.handleRetry(context.Background(), RetryImmediate(), req, &attempt, current)
	require.True(t, done)
	require.NotNil(t, terminal.Err)
	assert.Equal(t, CodeMaxRetryAttemptsReached, terminal.Err.Code)
}

func TestHandleRetry_ImmediateAdvancesAttempt(t *testing.T) {
	c := NewClient(Config{})
	req := NewRequest(http.MethodGet)
	req.MaxRetries = 3
	attempt := 1
	current := &Response{}

	terminal, done := c.handleRetry(context.Background(), RetryImmediate(), req, &attempt, current)
	assert.False(t, done)
	assert.Nil(t, terminal)
	assert.Equal(t, 2, attempt)
}

func TestHandleRetry_ContextCancelledDuringSleepReturnsCancelled(t *testing.T) {
	c := NewClient(Config{})
	req := NewRequest(http.MethodGet)
	req.MaxRetries = 5
	attempt := 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	terminal, done := c.handleRetry(ctx, RetryDelayed(5), req, &attempt, &Response{})
	require.True(t, done)
	require.NotNil(t, terminal.Err)
	assert.Equal(t, CodeCancelled, terminal.Err.Code)
}

// TestFetch_EndToEndRetryThenSuccess exercises the full composition +
// loader + validator/retry pipeline against a real local server: a
// custom validator asks for an immediate retry on a 503 (§4.4
// "retry-after-status") and the handler returns 200 on the second call.
func TestFetch_EndToEndRetryThenSuccess(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(Config{})
	c.Validators = []Validator{
		ValidatorFunc(func(resp *Response, req *Request) ValidatorResult {
			if resp.StatusCode() == http.StatusServiceUnavailable {
				return Retry(RetryImmediate())
			}
			return NextValidator()
		}),
	}
	defer c.Close()

	req := NewRequest(http.MethodGet)
	req.RawURL = srv.URL + "/widgets"
	req.MaxRetries = 3

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp := c.Fetch(ctx, req)
	require.Nil(t, resp.Err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, 2, calls)

	out, err := Decode[widget](resp)
	require.NoError(t, err)
	assert.True(t, out.ID == 0 && out.Name == "") // widget has no "ok" field, just checking decode succeeded structurally
}

func TestFetch_HeaderAndQueryComposedAgainstRealServer(t *testing.T) {
	var gotHeader, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Client")
		gotQuery = r.URL.Query().Get("common")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{})
	c.Headers.Set("X-Client", "gofetch")
	c.CommonQuery.Set("common", "yes")
	defer c.Close()

	req := NewRequest(http.MethodGet)
	req.RawURL = srv.URL

	resp := c.Fetch(context.Background(), req)
	require.Nil(t, resp.Err)
	assert.Equal(t, "gofetch", gotHeader)
	assert.Equal(t, "yes", gotQuery)
}
