package stub

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Matcher is the single-operation contract every built-in and
// user-supplied matcher implements (§4.6 "Matchers (built-ins)").
type Matcher interface {
	Match(req *http.Request, body []byte) bool
}

// MatcherFunc adapts a closure to Matcher — the "user-supplied closure
// matcher" built-in.
type MatcherFunc func(req *http.Request, body []byte) bool

func (f MatcherFunc) Match(req *http.Request, body []byte) bool { return f(req, body) }

// URLExact matches the request URL exactly, optionally ignoring query
// parameters entirely.
type URLExact struct {
	URL         string
	IgnoreQuery bool
}

func (m URLExact) Match(req *http.Request, _ []byte) bool {
	if !m.IgnoreQuery {
		return req.URL.String() == m.URL
	}
	want, err := url.Parse(m.URL)
	if err != nil {
		return false
	}
	got := *req.URL
	got.RawQuery = ""
	want.RawQuery = ""
	return got.String() == want.String()
}

// URLRegex matches the request URL against a compiled regular
// expression (pre-compiled at registration time, mirroring the
// teacher's validator.CompileAssertions pattern of paying regex-compile
// cost once).
type URLRegex struct {
	re *regexp.Regexp
}

func NewURLRegex(pattern string) (URLRegex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return URLRegex{}, err
	}
	return URLRegex{re: re}, nil
}

func (m URLRegex) Match(req *http.Request, _ []byte) bool {
	return m.re != nil && m.re.MatchString(req.URL.String())
}

// BodyEquals matches when the raw request body equals Want exactly.
type BodyEquals struct {
	Want []byte
}

func (m BodyEquals) Match(_ *http.Request, body []byte) bool {
	return string(body) == string(m.Want)
}

// JSONEquals matches when body, parsed as JSON, deep-equals the value at
// Path (empty Path compares the whole document) — grounded on the
// teacher's gjson-based AssertJSONPath in internal/validator/assertions.go.
type JSONEquals struct {
	Path string
	Want string // compared via gjson.Result.String() / Raw for structural values
}

func (m JSONEquals) Match(_ *http.Request, body []byte) bool {
	var result gjson.Result
	if m.Path == "" {
		result = gjson.ParseBytes(body)
	} else {
		result = gjson.GetBytes(body, m.Path)
	}
	if !result.Exists() {
		return false
	}
	return result.Raw == m.Want || result.String() == m.Want
}

// Expander resolves a URI template against req, returning the expanded
// string to compare against (§4.6 "URI-template (RFC 6570)"). RFC 6570
// expansion proper is an external collaborator per spec.md §1; Default
// below is a minimal "{var}" segment-substitution expander so the
// matcher type exists without over-claiming full conformance.
type Expander interface {
	Expand(template string, values map[string]string) string
}

// URITemplate matches by expanding Template with Values via Expander and
// comparing to the request URL's path.
type URITemplate struct {
	Template string
	Values   map[string]string
	Expander Expander
}

func (m URITemplate) Match(req *http.Request, _ []byte) bool {
	exp := m.Expander
	if exp == nil {
		exp = DefaultExpander{}
	}
	return exp.Expand(m.Template, m.Values) == req.URL.Path
}

// DefaultExpander implements bare "{var}" segment substitution only —
// no full RFC 6570 operators (+, #, ., /, ;, ?, &).
type DefaultExpander struct{}

func (DefaultExpander) Expand(template string, values map[string]string) string {
	result := template
	for k, v := range values {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}
