package gofetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

func TestDecode_JSONFallback(t *testing.T) {
	resp := &Response{Bytes: []byte(`{"name":"bolt","id":7}`)}

	out, err := Decode[widget](resp)
	require.NoError(t, err)
	assert.Equal(t, "bolt", out.Name)
	assert.Equal(t, 7, out.ID)
}

func TestDecode_PropagatesResponseError(t *testing.T) {
	resp := &Response{Err: newError(CodeNetwork, "boom", nil)}

	_, err := Decode[widget](resp)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeNetwork, gerr.Code)
}

func TestDecode_EmptyBodyFails(t *testing.T) {
	resp := &Response{}

	_, err := Decode[widget](resp)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeObjectDecodeFailed, gerr.Code)
}

func TestDecode_MalformedJSONFails(t *testing.T) {
	resp := &Response{Bytes: []byte(`not json`)}

	_, err := Decode[widget](resp)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeObjectDecodeFailed, gerr.Code)
}

func TestDecode_ResponseSelfDecodeHook(t *testing.T) {
	resp := &Response{Bytes: []byte("raw bytes")}

	out, err := Decode[Response](resp)
	require.NoError(t, err)
	assert.Equal(t, resp.Bytes, out.Bytes)
}
