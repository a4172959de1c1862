package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr9/gofetch/pkg/retry"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig_ParsesClientAndRequests(t *testing.T) {
	path := writeTempConfig(t, `
client:
  base_url: https://api.example.com
  timeout: 5s
  headers:
    X-Api-Key: secret

requests:
  - name: list-users
    method: GET
    path: /users
    assertions:
      - type: json_path
        path: status
        value: ok
  - name: create-user
    method: POST
    path: /users
    body_json:
      name: Ada
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.Headers["X-Api-Key"])
	require.Len(t, cfg.Requests, 2)
	assert.Equal(t, "GET", cfg.Requests[0].Method)
	require.Len(t, cfg.Requests[0].Assertions, 1)
	assert.Equal(t, "ok", cfg.Requests[0].Assertions[0].Value)
	assert.True(t, cfg.Requests[1].BodyJSON)
	assert.Contains(t, string(cfg.Requests[1].Body), `"name":"Ada"`)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/scenario.yaml")
	assert.Error(t, err)
}

func TestValidate_MissingBaseURLAndRelativePathFails(t *testing.T) {
	cfg := &ScenarioConfig{Requests: []RequestConfig{{Method: "GET", Path: "/x"}}}
	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidate_AbsoluteURLPerRequestSatisfiesMissingBaseURL(t *testing.T) {
	cfg := &ScenarioConfig{Requests: []RequestConfig{{Method: "GET", URL: "https://x.example.com/y"}}}
	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_InvalidMethodSuggestsCorrection(t *testing.T) {
	cfg := &ScenarioConfig{BaseURL: "https://x.example.com", Requests: []RequestConfig{{Method: "GTE", Path: "/x"}}}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean")
}

func TestValidate_EmptyRequestsFails(t *testing.T) {
	cfg := &ScenarioConfig{BaseURL: "https://x.example.com"}
	err := Validate(cfg)
	assert.Error(t, err)
}

func TestBuildClient_AppliesBaseURLHeadersAndTimeout(t *testing.T) {
	cfg := &ScenarioConfig{BaseURL: "https://x.example.com", Headers: map[string]string{"A": "b"}}
	c, err := BuildClient(cfg)
	require.NoError(t, err)
	assert.Equal(t, "x.example.com", c.BaseURL.Host)
	assert.Equal(t, "b", c.Headers.Get("A"))
}

func TestBuildRequest_PathAndQueryAndBody(t *testing.T) {
	req, av, err := BuildRequest(RequestConfig{
		Method: "POST", Path: "/users", Query: map[string]string{"page": "2"},
		Body: []byte(`{"a":1}`), BodyJSON: true,
	})
	require.NoError(t, err)
	assert.Nil(t, av)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/users", req.Path)
	assert.Equal(t, "2", req.Query.Get("page"))
}

func TestBuildRequest_AssertionsBuildValidator(t *testing.T) {
	req, av, err := BuildRequest(RequestConfig{
		Method: "GET", Path: "/x",
		Assertions: []retry.Assertion{{Kind: retry.AssertContains, Value: "ok"}},
	})
	require.NoError(t, err)
	require.NotNil(t, av)
	assert.NotNil(t, req)
}
