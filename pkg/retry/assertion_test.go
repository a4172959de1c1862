package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr9/gofetch/pkg/gofetch"
)

func respWithBody(body string) *gofetch.Response {
	return &gofetch.Response{Bytes: []byte(body)}
}

func TestAssertionValidator_ContainsPasses(t *testing.T) {
	v, err := NewAssertionValidator([]Assertion{{Kind: AssertContains, Value: "hello"}})
	require.NoError(t, err)

	result := v.Validate(respWithBody(`{"msg":"hello world"}`), gofetch.NewRequest("GET"))
	assert.Equal(t, gofetch.NextValidator(), result)
}

func TestAssertionValidator_ContainsFails(t *testing.T) {
	v, err := NewAssertionValidator([]Assertion{{Kind: AssertContains, Value: "goodbye"}})
	require.NoError(t, err)

	result := v.Validate(respWithBody(`{"msg":"hello world"}`), gofetch.NewRequest("GET"))
	assert.NotEqual(t, gofetch.NextValidator(), result)
}

func TestAssertionValidator_RegexCompileErrorSurfacesAtConstruction(t *testing.T) {
	_, err := NewAssertionValidator([]Assertion{{Kind: AssertRegex, Value: "("}})
	assert.Error(t, err)
}

func TestAssertionValidator_RegexPasses(t *testing.T) {
	v, err := NewAssertionValidator([]Assertion{{Kind: AssertRegex, Value: `^\{.*\}$`}})
	require.NoError(t, err)

	result := v.Validate(respWithBody(`{"ok":true}`), gofetch.NewRequest("GET"))
	assert.Equal(t, gofetch.NextValidator(), result)
}

func TestAssertionValidator_JSONPathExistsAndMatches(t *testing.T) {
	v, err := NewAssertionValidator([]Assertion{{Kind: AssertJSONPath, Path: "status", Value: "ok"}})
	require.NoError(t, err)

	result := v.Validate(respWithBody(`{"status":"ok"}`), gofetch.NewRequest("GET"))
	assert.Equal(t, gofetch.NextValidator(), result)
}

func TestAssertionValidator_JSONPathMismatchFails(t *testing.T) {
	v, err := NewAssertionValidator([]Assertion{{Kind: AssertJSONPath, Path: "status", Value: "ok"}})
	require.NoError(t, err)

	result := v.Validate(respWithBody(`{"status":"error"}`), gofetch.NewRequest("GET"))
	assert.NotEqual(t, gofetch.NextValidator(), result)
}

func TestAssertionValidator_JSONPathMissingFails(t *testing.T) {
	v, err := NewAssertionValidator([]Assertion{{Kind: AssertJSONPath, Path: "missing"}})
	require.NoError(t, err)

	result := v.Validate(respWithBody(`{"status":"ok"}`), gofetch.NewRequest("GET"))
	assert.NotEqual(t, gofetch.NextValidator(), result)
}

func TestAssertionValidator_MultipleChecksRunInOrder(t *testing.T) {
	v, err := NewAssertionValidator([]Assertion{
		{Kind: AssertContains, Value: "status"},
		{Kind: AssertJSONPath, Path: "status", Value: "ok"},
	})
	require.NoError(t, err)

	result := v.Validate(respWithBody(`{"status":"ok"}`), gofetch.NewRequest("GET"))
	assert.Equal(t, gofetch.NextValidator(), result)
}
