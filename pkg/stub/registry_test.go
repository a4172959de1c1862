package stub

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func req(t *testing.T, method, rawURL string, body []byte) *http.Request {
	t.Helper()
	r, err := http.NewRequest(method, rawURL, nil)
	require.NoError(t, err)
	return r
}

func TestRegistry_MatchesFirstPassingRule(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Rule{
		ID:        "a",
		Matchers:  []Matcher{URLExact{URL: "https://api.example/one"}},
		Responses: map[string]Provider{"GET": Static{Response: Response{StatusCode: 201}}},
	})
	reg.Register(&Rule{
		ID:        "b",
		Matchers:  []Matcher{URLExact{URL: "https://api.example/two"}},
		Responses: map[string]Provider{"GET": Static{Response: Response{StatusCode: 202}}},
	})

	rule, provider, ok := reg.match(req(t, "GET", "https://api.example/two", nil), nil)
	require.True(t, ok)
	assert.Equal(t, "b", rule.ID)
	resp, err := provider.Respond(nil, nil, rule)
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)
}

func TestRegistry_NoMatchReportsFalse(t *testing.T) {
	reg := NewRegistry()
	_, _, ok := reg.match(req(t, "GET", "https://api.example/missing", nil), nil)
	assert.False(t, ok)
}

func TestRegistry_MethodFallbackWildcard(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Rule{
		ID:        "wild",
		Matchers:  []Matcher{URLExact{URL: "https://api.example/any"}},
		Responses: map[string]Provider{"*": Static{Response: Response{StatusCode: 200}}},
	})

	_, provider, ok := reg.match(req(t, "DELETE", "https://api.example/any", nil), nil)
	require.True(t, ok)
	resp, _ := provider.Respond(nil, nil, nil)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRegistry_UnregisterRemovesRule(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Rule{ID: "gone", Matchers: nil, Responses: map[string]Provider{"*": Static{}}})
	reg.Unregister("gone")

	_, _, ok := reg.match(req(t, "GET", "https://api.example/any", nil), nil)
	assert.False(t, ok)
}

func TestRegistry_ClearRemovesRulesAndIgnores(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Rule{ID: "x", Matchers: nil, Responses: map[string]Provider{"*": Static{}}})
	reg.Ignore(&IgnoreRule{Matchers: nil})
	reg.Clear()

	_, _, ok := reg.match(req(t, "GET", "https://api.example/any", nil), nil)
	assert.False(t, ok)
	assert.False(t, reg.shouldIgnore(req(t, "GET", "https://api.example/any", nil), nil))
}

func TestRegistry_ShouldIgnoreHonorsIgnoreRules(t *testing.T) {
	reg := NewRegistry()
	reg.Ignore(&IgnoreRule{Matchers: []Matcher{URLExact{URL: "https://passthrough.example/"}}})

	assert.True(t, reg.shouldIgnore(req(t, "GET", "https://passthrough.example/", nil), nil))
	assert.False(t, reg.shouldIgnore(req(t, "GET", "https://other.example/", nil), nil))
}
