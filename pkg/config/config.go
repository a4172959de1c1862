// Package config loads a YAML scenario file — one client plus an ordered
// list of requests to run against it — the same load-at-startup,
// validate-before-running shape the teacher's load-test config used,
// retargeted from "load profile" to "HTTP client scenario".
package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amr9/gofetch/internal/loader"
	"github.com/amr9/gofetch/pkg/body"
	"github.com/amr9/gofetch/pkg/gofetch"
	"github.com/amr9/gofetch/pkg/retry"
	"github.com/amr9/gofetch/pkg/stub"
)

// YAMLAssertion is one body check attached to a request, the same
// contains/regex/json_path three-way the teacher's step assertions used.
type YAMLAssertion struct {
	Type    string `yaml:"type"` // contains, regex, json_path
	Value   string `yaml:"value"`
	Path    string `yaml:"path,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// yamlConfig is the loosely-typed YAML shape LoadConfig decodes into
// before converting to the strongly-typed ScenarioConfig, the same split
// the teacher's YAMLConfig/models.Config pair used.
type yamlConfig struct {
	Client struct {
		BaseURL string            `yaml:"base_url"`
		Headers map[string]string `yaml:"headers,omitempty"`
		Timeout string            `yaml:"timeout,omitempty"`
		Follow  string            `yaml:"follow_redirects,omitempty"` // follow, follow_copy, refuse
	} `yaml:"client"`

	Requests []struct {
		Name       string            `yaml:"name"`
		Method     string            `yaml:"method"`
		Path       string            `yaml:"path,omitempty"`
		URL        string            `yaml:"url,omitempty"` // overrides client.base_url + path when set
		Headers    map[string]string `yaml:"headers,omitempty"`
		Query      map[string]string `yaml:"query,omitempty"`
		Body       string            `yaml:"body,omitempty"`
		BodyFile   string            `yaml:"body_file,omitempty"`
		BodyJSON   interface{}       `yaml:"body_json,omitempty"`
		MaxRetries int               `yaml:"max_retries,omitempty"`
		Assertions []YAMLAssertion   `yaml:"assertions,omitempty"`
	} `yaml:"requests"`
}

// RequestConfig is one strongly-typed scenario step, ready to become a
// *gofetch.Request plus its own assertion validator.
type RequestConfig struct {
	Name       string
	Method     string
	Path       string
	URL        string
	Headers    map[string]string
	Query      map[string]string
	Body       []byte
	BodyJSON   bool
	MaxRetries int
	Assertions []retry.Assertion
}

// ScenarioConfig is LoadConfig's strongly-typed result: client-wide
// settings plus the ordered requests to run against it.
type ScenarioConfig struct {
	BaseURL         string
	Headers         map[string]string
	Timeout         time.Duration
	FollowRedirects gofetch.RedirectMode
	Requests        []RequestConfig

	// StubRegistry, when non-nil, is installed as the built client's
	// transport override (§4.6 "a caller installs it as Client's
	// transport override") — the YAML scenario runner has no stub:
	// block of its own, so this is populated by embedders that load a
	// scenario and then want its requests served from stubs rather than
	// the network, e.g. in tests.
	StubRegistry *stub.Registry
}

// LoadConfig reads path and converts it into a ScenarioConfig, mirroring
// pkg/config.LoadConfig's "read file, unmarshal loosely, convert to
// strongly-typed domain struct, pre-compile what can be pre-compiled"
// shape almost one-to-one.
func LoadConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if result := ValidateFieldNames(raw); result.HasErrors() {
		return nil, fmt.Errorf("%s", result.FormatErrors())
	}

	cfg := &ScenarioConfig{
		BaseURL:         yc.Client.BaseURL,
		Headers:         yc.Client.Headers,
		FollowRedirects: parseFollow(yc.Client.Follow),
	}

	if yc.Client.Timeout != "" {
		d, err := time.ParseDuration(yc.Client.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid client.timeout: %w", err)
		}
		cfg.Timeout = d
	}

	for _, r := range yc.Requests {
		step := RequestConfig{
			Name:       r.Name,
			Method:     r.Method,
			Path:       r.Path,
			URL:        r.URL,
			Headers:    r.Headers,
			Query:      r.Query,
			MaxRetries: r.MaxRetries,
		}

		switch {
		case r.BodyFile != "":
			b, err := os.ReadFile(r.BodyFile)
			if err != nil {
				return nil, fmt.Errorf("request %q: failed to read body_file %q: %w", r.Name, r.BodyFile, err)
			}
			step.Body = b
		case r.Body != "":
			step.Body = []byte(r.Body)
		case r.BodyJSON != nil:
			b, err := json.Marshal(r.BodyJSON)
			if err != nil {
				return nil, fmt.Errorf("request %q: failed to marshal body_json: %w", r.Name, err)
			}
			step.Body = b
			step.BodyJSON = true
		}

		for _, a := range r.Assertions {
			kind := retry.AssertContains
			switch a.Type {
			case "regex":
				kind = retry.AssertRegex
			case "json_path":
				kind = retry.AssertJSONPath
			}
			step.Assertions = append(step.Assertions, retry.Assertion{
				Kind: kind, Value: a.Value, Path: a.Path, Message: a.Message,
			})
		}

		cfg.Requests = append(cfg.Requests, step)
	}

	return cfg, nil
}

func parseFollow(s string) gofetch.RedirectMode {
	switch s {
	case "follow_copy":
		return gofetch.RedirectFollowCopy
	case "refuse":
		return gofetch.RedirectRefuse
	case "inherit":
		return gofetch.RedirectInherit
	default:
		return gofetch.RedirectFollow
	}
}

// Validate checks cfg for obvious mistakes before a run starts, returning
// a single multi-error with field-level hints in the teacher's
// "fail fast, explain everything at once" style.
func Validate(cfg *ScenarioConfig) error {
	result := &ValidationResult{}

	if cfg.BaseURL == "" {
		hasAbsoluteURLs := true
		for _, r := range cfg.Requests {
			if r.URL == "" {
				hasAbsoluteURLs = false
			}
		}
		if !hasAbsoluteURLs {
			result.Add(ValidationError{
				Field:   "client.base_url",
				Message: "missing required field",
				Hint:    GetHint("client.base_url"),
			})
		}
	} else if _, err := url.Parse(cfg.BaseURL); err != nil {
		result.Add(ValidationError{Field: "client.base_url", Value: cfg.BaseURL, Message: "not a valid URL"})
	}

	if len(cfg.Requests) == 0 {
		result.Add(ValidationError{
			Field:   "requests",
			Message: "scenario has no requests",
			Hint:    "Add at least one entry under requests:",
		})
	}

	for i, r := range cfg.Requests {
		if r.Method == "" {
			result.Add(ValidationError{
				Field:   fmt.Sprintf("requests[%d].method", i),
				Message: "missing required HTTP method",
				Hint:    "Specify method: GET, POST, PUT, DELETE, etc.",
			})
		} else if valid, suggestion := ValidateHTTPMethod(r.Method); !valid {
			err := ValidationError{
				Field:    fmt.Sprintf("requests[%d].method", i),
				Value:    r.Method,
				Message:  "invalid HTTP method",
				Expected: "GET, POST, PUT, DELETE, PATCH, HEAD, or OPTIONS",
			}
			if suggestion != "" {
				err.DidYouMean = suggestion
			}
			result.Add(err)
		}
		if r.Path == "" && r.URL == "" {
			result.Add(ValidationError{
				Field:   fmt.Sprintf("requests[%d].path", i),
				Message: "missing both path and url",
				Hint:    "Set either path (joined with client.base_url) or an absolute url",
			})
		}
	}

	if result.HasErrors() {
		return fmt.Errorf("%s", result.FormatErrors())
	}
	return nil
}

// BuildClient constructs a *gofetch.Client from cfg's client-wide
// settings.
func BuildClient(cfg *ScenarioConfig) (*gofetch.Client, error) {
	var lcfg loader.Config
	if cfg.StubRegistry != nil {
		lcfg.RoundTripper = stub.NewTransport(cfg.StubRegistry)
	}
	c := gofetch.NewClient(lcfg)

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid client.base_url: %w", err)
		}
		c.BaseURL = u
	}
	for k, v := range cfg.Headers {
		c.Headers.Set(k, v)
	}
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	c.FollowRedirects = cfg.FollowRedirects

	return c, nil
}

// BuildRequest converts one RequestConfig into a *gofetch.Request plus
// the *retry.AssertionValidator a runner should check the response
// against, if the step declared any.
func BuildRequest(r RequestConfig) (*gofetch.Request, *retry.AssertionValidator, error) {
	req := gofetch.NewRequest(httpMethod(r.Method))

	if r.URL != "" {
		req.RawURL = r.URL
	} else {
		req.Path = r.Path
	}

	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Query {
		req.Query.Set(k, v)
	}
	req.MaxRetries = r.MaxRetries

	if len(r.Body) > 0 {
		if r.BodyJSON {
			req.Body = body.Raw{Data: r.Body, ContentType: "application/json"}
		} else {
			req.Body = body.Raw{Data: r.Body}
		}
	}

	var av *retry.AssertionValidator
	if len(r.Assertions) > 0 {
		var err error
		av, err = retry.NewAssertionValidator(r.Assertions)
		if err != nil {
			return nil, nil, fmt.Errorf("request %q: %w", r.Name, err)
		}
	}

	return req, av, nil
}

func httpMethod(m string) string {
	if m == "" {
		return http.MethodGet
	}
	return m
}
