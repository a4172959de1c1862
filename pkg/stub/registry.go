// Package stub implements the request stubber of §4.6: an in-process
// http.RoundTripper that matches outgoing requests against registered
// rules and synthesizes responses without touching the network. It has
// no dependency on gofetch — a caller installs stub.Transport as a
// Client's transport override (the Go rendering of the spec's "URL
// hook"; there is no separate NSURLProtocol-style global registration).
package stub

import (
	"errors"
	"net/http"
	"sync"
)

// ErrMatchNotFound is returned by Transport.RoundTrip when no rule
// matches and no ignore rule passes the request through (§4.6
// "MatchStubNotFound").
var ErrMatchNotFound = errors.New("stub: no matching rule for request")

// Rule is one registered stub rule: an AND-combined matcher list plus
// one response provider per method (§3.1 StubRegistry / StubRule).
type Rule struct {
	ID        string
	Matchers  []Matcher
	Responses map[string]Provider // method -> provider; "*" matches any method
}

func (r *Rule) matches(req *http.Request, body []byte) bool {
	for _, m := range r.Matchers {
		if !m.Match(req, body) {
			return false
		}
	}
	return true
}

func (r *Rule) providerFor(method string) (Provider, bool) {
	if p, ok := r.Responses[method]; ok {
		return p, true
	}
	p, ok := r.Responses["*"]
	return p, ok
}

// IgnoreRule is the same matcher model used to pass requests through to
// the real transport untouched (§4.6 "ignores").
type IgnoreRule struct {
	Matchers []Matcher
}

func (r *IgnoreRule) matches(req *http.Request, body []byte) bool {
	for _, m := range r.Matchers {
		if !m.Match(req, body) {
			return false
		}
	}
	return true
}

// Registry holds the ordered rule and ignore lists. It is safe to
// mutate concurrently with ongoing matches (§5 "the stub registry MUST
// be safe to mutate while interception is active").
type Registry struct {
	mu      sync.RWMutex
	rules   []*Rule
	ignores []*IgnoreRule
}

func NewRegistry() *Registry { return &Registry{} }

// Register appends rule to the ordered rule list.
func (reg *Registry) Register(rule *Rule) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rules = append(reg.rules, rule)
}

// Ignore appends an ignore rule.
func (reg *Registry) Ignore(rule *IgnoreRule) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.ignores = append(reg.ignores, rule)
}

// Unregister removes every rule with the given id.
func (reg *Registry) Unregister(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	kept := reg.rules[:0]
	for _, r := range reg.rules {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	reg.rules = kept
}

// Clear removes every rule and ignore rule.
func (reg *Registry) Clear() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rules = nil
	reg.ignores = nil
}

// shouldIgnore reports whether any ignore rule matches req (§4.6 step 1).
func (reg *Registry) shouldIgnore(req *http.Request, body []byte) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, ig := range reg.ignores {
		if ig.matches(req, body) {
			return true
		}
	}
	return false
}

// match locates the first rule whose matchers all pass and which has a
// provider for req's method (§4.6 step 2).
func (reg *Registry) match(req *http.Request, body []byte) (*Rule, Provider, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, rule := range reg.rules {
		if !rule.matches(req, body) {
			continue
		}
		if p, ok := rule.providerFor(req.Method); ok {
			return rule, p, true
		}
	}
	return nil, nil, false
}
