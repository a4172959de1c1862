package gofetch

// DefaultValidator is the client's built-in validator (§4.4 "Default
// validator"), satisfying the invariant that Client.validators is never
// empty. Retry-after-status is grounded directly on the status-code
// table the teacher's retry loop special-cases (executeStepWithRetry
// treats 429/503 as backoff signals); transport-error retryability
// reuses isRetryableTransportError, itself grounded on
// attacker.isRetryableError.
type DefaultValidator struct {
	// AllowEmpty, when false, fails the chain on an empty body with
	// CodeEmptyResponse. Defaults to true (spec: "Allows-empty
	// default-true").
	AllowEmpty bool
	// RetryAfterStatus maps a status code to the delay (seconds) used
	// for RetryDelayed when that status is observed.
	RetryAfterStatus map[int]float64
}

// NewDefaultValidator returns the validator installed automatically by
// NewClient when the caller supplies none.
func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{
		AllowEmpty: true,
		RetryAfterStatus: map[int]float64{
			429: 1,
			503: 2,
		},
	}
}

func (v *DefaultValidator) Validate(response *Response, request *Request) ValidatorResult {
	if response.Err != nil {
		if response.Err.Code == CodeMissingConnection || isRetryableTransportError(response.Err.Err) {
			return Retry(RetryImmediate())
		}
		return FailChain(response.Err)
	}

	if delay, ok := v.RetryAfterStatus[response.StatusCode()]; ok {
		return Retry(RetryDelayed(delay))
	}

	if response.IsEmpty() && !v.AllowEmpty {
		return FailChain(newError(CodeEmptyResponse, "empty response body", nil))
	}

	return NextValidator()
}
