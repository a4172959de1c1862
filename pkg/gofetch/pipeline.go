package gofetch

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/amr9/gofetch/internal/loader"
	"github.com/amr9/gofetch/internal/logging"
)

// Fetch composes req against c, executes it through the loader, runs
// the validator/retry pipeline, and returns the terminal Response
// (§2 "Data flow", §4.4 "Pipeline").
func (c *Client) Fetch(ctx context.Context, req *Request) *Response {
	return c.fetchLoop(ctx, req, false)
}

// fetchLoop is validate_all/handle_retry fused into one driving loop:
// Go has no cooperative-task suspension primitive distinct from a
// function call, so "reschedule" is simply "loop again" and "sleep
// between retries" is a context-aware time.Sleep (§5 "Suspension
// points").
func (c *Client) fetchLoop(ctx context.Context, req *Request, isAltRequest bool) *Response {
	attempt := 0

	for {
		resp := c.doAttempt(ctx, req)
		resp.Request = req
		resp.IsAltRequest = isAltRequest

		result := c.validateAll(resp, req)

		switch result.kind {
		case resultFailChain:
			resp.Err = result.err
			return resp
		case resultNextValidatorWithResponse:
			return result.response
		case resultNextValidator:
			return resp
		case resultRetry:
			// Alt-requests never trigger nested retries (§3.2 invariant).
			if isAltRequest {
				return resp
			}
			c.effectiveLogger().Debug(ctx, "retry triggered",
				logging.Field{Key: "attempt", Value: attempt},
				logging.Field{Key: "max_retries", Value: req.MaxRetries},
				logging.Field{Key: "status", Value: resp.StatusCode()},
			)
			terminal, done := c.handleRetry(ctx, result.strategy, req, &attempt, resp)
			if done {
				return terminal
			}
			// Otherwise loop: handleRetry already slept/ran side effects.
		}
	}
}

// validateAll runs validators in definition order; the first terminal
// result (anything but NextValidator/NextValidatorWithResponse) ends
// the walk (§4.4, §8 "first terminal result determines the outcome").
func (c *Client) validateAll(resp *Response, req *Request) ValidatorResult {
	current := resp
	for _, v := range c.effectiveValidators() {
		r := v.Validate(current, req)
		switch r.kind {
		case resultNextValidator:
			continue
		case resultNextValidatorWithResponse:
			current = r.response
			continue
		default:
			return r
		}
	}
	return NextValidatorWithResponse(current)
}

// handleRetry implements §4.4's handle_retry switch. attempt tracks the
// spec's current_attempt counter by reference across loop iterations.
// done=true means the caller should return terminal immediately; done
// =false means handleRetry already performed its side effects (sleep,
// alt-request, task) and the main loop should attempt req again.
func (c *Client) handleRetry(ctx context.Context, strategy RetryStrategy, req *Request, attempt *int, current *Response) (terminal *Response, done bool) {
	switch strategy.kind {
	case retryImmediate, retryDelayed, retryExponential, retryFibonacci, retryCustom:
		delay := computeDelay(strategy, *attempt, req)
		return c.boundedRetry(ctx, attempt, req, current, delay)

	case retryAfterRequest:
		alt := strategy.altRequest
		altResp := c.fetchLoop(ctx, alt, true)
		if strategy.altCatcher != nil {
			_ = strategy.altCatcher(alt, altResp)
		}
		if !sleepCtx(ctx, strategy.altDelay) {
			return cancelledResponse(req), true
		}
		if *attempt > req.MaxRetries {
			altResp.Request = req
			return altResp, true
		}
		*attempt++
		return nil, false

	case retryAfterTask:
		if strategy.task != nil {
			if err := strategy.task(req); err != nil && strategy.taskErrCatcher != nil {
				strategy.taskErrCatcher(err)
			}
		}
		if !sleepCtx(ctx, strategy.taskDelay) {
			return cancelledResponse(req), true
		}
		if *attempt > req.MaxRetries {
			return current, true
		}
		*attempt++
		return nil, false

	default:
		return current, true
	}
}

// boundedRetry applies the "current_attempt ≤ max_retries" bound shared
// by Immediate/Delayed/Exponential/Fibonacci/Custom.
func (c *Client) boundedRetry(ctx context.Context, attempt *int, req *Request, current *Response, delaySeconds float64) (*Response, bool) {
	if *attempt > req.MaxRetries {
		current.Err = newError(CodeMaxRetryAttemptsReached, "retry attempts exhausted", nil)
		c.effectiveLogger().Warn(ctx, "retry attempts exhausted",
			logging.Field{Key: "max_retries", Value: req.MaxRetries},
		)
		return current, true
	}
	if !sleepCtx(ctx, delaySeconds) {
		return cancelledResponse(req), true
	}
	*attempt++
	return nil, false
}

func computeDelay(strategy RetryStrategy, attempt int, req *Request) float64 {
	switch strategy.kind {
	case retryImmediate:
		return 0
	case retryDelayed:
		return strategy.delaySeconds
	case retryExponential:
		// pow(base, current_attempt - 1), current_attempt taken at the
		// pre-increment value handleRetry observes (§4.4). Open
		// Question (b): no clamp to attempt>=1 — kept literal.
		return math.Pow(strategy.base, float64(attempt-1))
	case retryFibonacci:
		return float64(fibonacci(attempt))
	case retryCustom:
		if strategy.customFn != nil {
			return strategy.customFn(req)
		}
		return 0
	default:
		return 0
	}
}

// fibonacci computes fib(n) with fib(0)=0 preserved (Open Question (c):
// the zero-delay first Fibonacci retry is intentional, not a bug).
func fibonacci(n int) int {
	if n <= 0 {
		return 0
	}
	a, b := 0, 1
	for i := 1; i < n; i++ {
		a, b = b, a+b
	}
	return b
}

// sleepCtx sleeps for seconds, returning false if ctx is cancelled
// first.
func sleepCtx(ctx context.Context, seconds float64) bool {
	if seconds <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func cancelledResponse(req *Request) *Response {
	return &Response{Request: req, Err: newError(CodeCancelled, "fetch cancelled", ctxCancelledSentinel)}
}

var ctxCancelledSentinel = context.Canceled

// doAttempt composes req and drives exactly one loader.Fetch call,
// translating its Result into a Response.
func (c *Client) doAttempt(ctx context.Context, req *Request) *Response {
	wire, cerr := compose(c, req)
	if cerr != nil {
		return &Response{Err: cerr}
	}

	var onProgress loader.ProgressFunc
	if req.OnProgress != nil {
		onProgress = func(p loader.Progress) { req.OnProgress(p) }
	}

	result := c.loader.Fetch(ctx, wire, onProgress)

	resp := &Response{
		Transport:  result.Transport,
		Bytes:      result.Bytes,
		FileURL:    result.FileURL,
		Metrics:    result.Metrics,
		ResumeData: result.ResumeData,
	}

	if result.Err != nil {
		resp.Err = classifyLoaderError(result.Err)
		if resp.Err.Code == CodeMatchStubNotFound {
			resp.Err.Request = req
		}
		c.effectiveLogger().Error(ctx, resp.Err, "attempt failed",
			logging.Field{Key: "url", Value: req.RawURL},
		)
	}

	var telemetryErr error
	if resp.Err != nil {
		telemetryErr = resp.Err
	}
	c.Telemetry.Record(resp.StatusCode(), result.Metrics.Total.Duration(), int64(len(resp.Bytes)), telemetryErr)

	return resp
}

func classifyLoaderError(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return newError(CodeCancelled, "fetch cancelled", err)
	}
	if errors.Is(err, loader.ErrSessionClosed) {
		return newError(CodeSessionError, "session invalidated", err)
	}
	if errors.Is(err, loader.ErrChallengeCancelled) {
		return newError(CodeNetwork, "auth challenge cancelled", err)
	}
	return errorFromResponse(err)
}
