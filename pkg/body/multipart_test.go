package body

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultipart_StaticPartsProduceExactWireFormat(t *testing.T) {
	m := Multipart{
		Boundary: "testboundary",
		Parts: []Field{
			{Name: "field1", Value: []byte("value1")},
			{Name: "file1", Value: []byte("filedata"), Filename: "a.txt", ContentType: "text/plain"},
		},
	}

	enc, err := m.Serialize()
	require.NoError(t, err)
	assert.False(t, enc.IsStream())

	want := "--testboundary\r\n" +
		`Content-Disposition: form-data; name="field1"` + "\r\n\r\n" +
		"value1\r\n" +
		"--testboundary\r\n" +
		`Content-Disposition: form-data; name="file1"; filename="a.txt"` + "\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"filedata\r\n" +
		"--testboundary--\r\n"

	assert.Equal(t, want, string(enc.Bytes))
	assert.Equal(t, "multipart/form-data; boundary=testboundary", enc.Headers.Get("Content-Type"))
}

func TestMultipart_StreamedPartOpensLazily(t *testing.T) {
	m := Multipart{
		Boundary: "b2",
		Parts: []Field{
			{Name: "meta", Value: []byte("hi")},
			{
				Name:   "blob",
				Length: 4,
				OpenStream: func() (io.ReadCloser, error) {
					return io.NopCloser(strings.NewReader("data")), nil
				},
			},
		},
	}

	enc, err := m.Serialize()
	require.NoError(t, err)
	require.True(t, enc.IsStream())

	rc, err := enc.Open()
	require.NoError(t, err)
	defer rc.Close()

	all, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(all), "name=\"blob\"")
	assert.Contains(t, string(all), "data")
	assert.Contains(t, string(all), "--b2--\r\n")
}
