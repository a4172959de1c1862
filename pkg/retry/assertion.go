package retry

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/amr9/gofetch/pkg/gofetch"
)

// AssertionKind names the shape of a single body check an AssertionValidator
// runs, grounded on internal/validator/assertions.go's three-way
// Contains/Regex/JSONPath dispatch.
type AssertionKind int

const (
	AssertContains AssertionKind = iota
	AssertRegex
	AssertJSONPath
)

// Assertion is one check to run against a response body. Regex is
// pre-compiled by NewAssertionValidator so a Regex assertion's Value is
// only parsed once, not on every Validate call.
type Assertion struct {
	Kind     AssertionKind
	Value    string // literal (Contains), pattern source (Regex), expected value (JSONPath)
	Path     string // gjson path, only used when Kind == AssertJSONPath
	Message  string // overrides the generated error message when non-empty

	regex *regexp.Regexp
}

// AssertionError reports which assertion failed and what the response
// actually contained, truncated so large bodies don't blow up error logs.
type AssertionError struct {
	Kind     AssertionKind
	Expected string
	Actual   string
	Path     string
	Message  string
}

func (e *AssertionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case AssertContains:
		return fmt.Sprintf("assertion failed: response body does not contain %q", e.Expected)
	case AssertRegex:
		return fmt.Sprintf("assertion failed: response body does not match regex %q", e.Expected)
	case AssertJSONPath:
		if e.Expected != "" {
			return fmt.Sprintf("assertion failed: json path %q expected %q, got %q", e.Path, e.Expected, e.Actual)
		}
		return fmt.Sprintf("assertion failed: json path %q not found or empty", e.Path)
	default:
		return fmt.Sprintf("assertion failed: %s", e.Expected)
	}
}

// AssertionValidator runs a fixed list of body assertions against every
// response and FailChains on the first one that doesn't hold, mirroring
// internal/validator.ValidateAssertions's fail-fast order. Unlike the
// teacher's load-test assertions (evaluated once per completed attack
// request, result just recorded), this sits in the retry pipeline itself
// as a Validator, so a failed assertion can also be wired to Retry via a
// preceding validator in the chain — AssertionValidator only ever
// terminates with NextValidator or FailChain.
type AssertionValidator struct {
	assertions []Assertion
}

// NewAssertionValidator pre-compiles every Regex assertion up front, the
// same "compile at config load, match at request time" split the teacher
// enforces with CompileAssertions.
func NewAssertionValidator(assertions []Assertion) (*AssertionValidator, error) {
	compiled := make([]Assertion, len(assertions))
	copy(compiled, assertions)
	for i := range compiled {
		if compiled[i].Kind == AssertRegex {
			re, err := regexp.Compile(compiled[i].Value)
			if err != nil {
				return nil, fmt.Errorf("invalid regex pattern %q: %w", compiled[i].Value, err)
			}
			compiled[i].regex = re
		}
	}
	return &AssertionValidator{assertions: compiled}, nil
}

func (v *AssertionValidator) Validate(resp *gofetch.Response, req *gofetch.Request) gofetch.ValidatorResult {
	for _, a := range v.assertions {
		if err := a.check(resp.Bytes); err != nil {
			return gofetch.FailChain(gofetch.NewError(gofetch.CodeAssertionFailed, err.Error(), err))
		}
	}
	return gofetch.NextValidator()
}

func (a Assertion) check(body []byte) error {
	switch a.Kind {
	case AssertRegex:
		return a.checkRegex(body)
	case AssertJSONPath:
		return a.checkJSONPath(body)
	default:
		return a.checkContains(body)
	}
}

func (a Assertion) checkContains(body []byte) error {
	if bytes.Contains(body, []byte(a.Value)) {
		return nil
	}
	return &AssertionError{Kind: AssertContains, Expected: a.Value, Actual: truncateBody(body, 100), Message: a.Message}
}

func (a Assertion) checkRegex(body []byte) error {
	re := a.regex
	if re == nil {
		var err error
		re, err = regexp.Compile(a.Value)
		if err != nil {
			return &AssertionError{Kind: AssertRegex, Expected: a.Value, Message: fmt.Sprintf("invalid regex: %v", err)}
		}
	}
	if re.Match(body) {
		return nil
	}
	return &AssertionError{Kind: AssertRegex, Expected: a.Value, Actual: truncateBody(body, 100), Message: a.Message}
}

func (a Assertion) checkJSONPath(body []byte) error {
	path := a.Path
	if path == "" {
		path = a.Value
	}
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return &AssertionError{Kind: AssertJSONPath, Path: path, Expected: a.Value, Message: a.Message}
	}
	if a.Value != "" && a.Path != "" {
		expected := strings.TrimSpace(a.Value)
		actual := strings.TrimSpace(result.String())
		if actual != expected {
			return &AssertionError{Kind: AssertJSONPath, Path: path, Expected: expected, Actual: actual, Message: a.Message}
		}
	}
	return nil
}

func truncateBody(body []byte, maxLen int) string {
	if len(body) <= maxLen {
		return string(body)
	}
	return string(body[:maxLen]) + "..."
}
