package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_SortsKeysAndEncodesReserved(t *testing.T) {
	f := Form{Values: map[string]any{
		"b": "x y",
		"a": "a/b?c",
	}}

	enc, err := f.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "a=a/b?c&b=x%20y", string(enc.Bytes))
	assert.Equal(t, "application/x-www-form-urlencoded", enc.Headers.Get("Content-Type"))
}

func TestForm_ArrayBracketConfig(t *testing.T) {
	f := Form{Values: map[string]any{"tag": []any{"a", "b"}}, ArrayBracket: true}
	enc, err := f.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "tag%5B%5D=a&tag%5B%5D=b", string(enc.Bytes))

	f2 := Form{Values: map[string]any{"tag": []any{"a", "b"}}}
	enc2, err := f2.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "tag=a&tag=b", string(enc2.Bytes))
}

func TestForm_BoolConfig(t *testing.T) {
	f := Form{Values: map[string]any{"x": true}}
	enc, _ := f.Serialize()
	assert.Equal(t, "x=1", string(enc.Bytes))

	f2 := Form{Values: map[string]any{"x": true}, BoolAsWord: true}
	enc2, _ := f2.Serialize()
	assert.Equal(t, "x=true", string(enc2.Bytes))
}

func TestForm_NestedMapFlattens(t *testing.T) {
	f := Form{Values: map[string]any{"outer": map[string]any{"inner": "v"}}}
	enc, _ := f.Serialize()
	assert.Equal(t, "outer%5Binner%5D=v", string(enc.Bytes))
}
