// Package retry holds concrete gofetch.Validator implementations beyond
// the root package's built-in default — collaborators that need a
// *gofetch.Request/*gofetch.Response shape the root package can't export
// from a subpackage without a cycle (see DESIGN.md).
package retry

import (
	"sync"

	"github.com/amr9/gofetch/pkg/gofetch"
)

// AltRequestProvider builds a replacement request to silently retry
// auth with, or returns nil to decline (§4.4 "Alt-request validator").
type AltRequestProvider func(request *gofetch.Request, response *gofetch.Response) *gofetch.Request

// AuthValidator implements the spec's "common case" alt-request
// validator: on 401/403 it asks Provider for an alt request (typically
// one that refreshes a token first) and asks the pipeline to retry via
// that alt, capped at MaxAltRequests across the AuthValidator's
// lifetime. Grounded on the teacher's executeStepWithRetry control flow,
// generalized from "sleep and resend the same request" to "run a
// different request first".
type AuthValidator struct {
	Provider AltRequestProvider
	// TriggerStatuses defaults to {401, 403} when empty.
	TriggerStatuses []int
	MaxAltRequests  int
	DelaySeconds    float64
	Catcher         func(alt *gofetch.Request, altResponse *gofetch.Response) error

	mu    sync.Mutex
	count int
}

func (v *AuthValidator) triggers(status int) bool {
	statuses := v.TriggerStatuses
	if len(statuses) == 0 {
		statuses = []int{401, 403}
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (v *AuthValidator) Validate(response *gofetch.Response, request *gofetch.Request) gofetch.ValidatorResult {
	if !v.triggers(response.StatusCode()) {
		return gofetch.NextValidator()
	}
	if v.Provider == nil {
		return gofetch.NextValidator()
	}
	// An alt-request's own challenge response re-enters Validate through
	// its own fetchLoop, but that loop discards any retry it decides on
	// (§3.2 "Alt-requests never trigger nested retries") — consulting
	// the provider here would only spend a MaxAltRequests slot on a
	// retry that can never happen.
	if response.IsAltRequest {
		return gofetch.NextValidator()
	}

	v.mu.Lock()
	if v.count >= v.MaxAltRequests && v.MaxAltRequests > 0 {
		v.mu.Unlock()
		return gofetch.NextValidator()
	}
	v.mu.Unlock()

	alt := v.Provider(request, response)
	if alt == nil {
		return gofetch.NextValidator()
	}

	v.mu.Lock()
	v.count++
	v.mu.Unlock()

	return gofetch.Retry(gofetch.RetryAfterRequest(alt, v.DelaySeconds, v.Catcher))
}
