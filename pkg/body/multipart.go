package body

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Field is one part of a Multipart body. Exactly one of Value or
// OpenStream should be set: Value for an in-memory part, OpenStream for
// a file-backed part whose bytes should not be held in memory (§4.2
// "provides a streamable source when parts are file-backed").
type Field struct {
	Name        string
	Value       []byte
	OpenStream  func() (io.ReadCloser, error)
	Length      int64 // length of the streamed part; -1 if unknown
	Filename    string
	ContentType string
}

func (f Field) isStream() bool { return f.OpenStream != nil }

// Multipart hand-assembles a multipart/form-data body to the exact byte
// layout §4.2 requires for server compatibility — deliberately not
// delegating to mime/multipart.Writer, whose boundary escaping and part
// framing are not guaranteed to match the wire contract this spec
// pins down.
type Multipart struct {
	Boundary string // generated (random 64-bit hex, fixed prefix) when empty
	Parts    []Field
}

func (m Multipart) Serialize() (Encoded, error) {
	boundary := m.Boundary
	if boundary == "" {
		boundary = generateBoundary()
	}

	streamed := false
	for _, p := range m.Parts {
		if p.isStream() {
			streamed = true
			break
		}
	}

	headers := headerWith(fmt.Sprintf("multipart/form-data; boundary=%s", boundary))

	if !streamed {
		var buf bytes.Buffer
		for _, p := range m.Parts {
			buf.WriteString("--" + boundary + "\r\n")
			buf.WriteString(partHeader(p))
			buf.Write(p.Value)
			buf.WriteString("\r\n")
		}
		buf.WriteString("--" + boundary + "--\r\n")
		headers.Set("Content-Length", fmt.Sprint(buf.Len()))
		return Encoded{Bytes: buf.Bytes(), Length: int64(buf.Len()), Headers: headers}, nil
	}

	total := int64(0)
	knownLength := true
	for _, p := range m.Parts {
		head := partHeader(p)
		total += int64(len("--"+boundary+"\r\n")) + int64(len(head))
		if p.isStream() {
			if p.Length < 0 {
				knownLength = false
			} else {
				total += p.Length
			}
		} else {
			total += int64(len(p.Value))
		}
		total += int64(len("\r\n"))
	}
	total += int64(len("--" + boundary + "--\r\n"))
	if !knownLength {
		total = -1
	} else {
		headers.Set("Content-Length", fmt.Sprint(total))
	}

	parts := m.Parts
	open := func() (io.ReadCloser, error) {
		return newMultipartReader(boundary, parts)
	}

	return Encoded{Open: open, Length: total, Headers: headers}, nil
}

func partHeader(p Field) string {
	var sb strings.Builder
	sb.WriteString(`Content-Disposition: form-data; name="` + p.Name + `"`)
	if p.Filename != "" {
		sb.WriteString(`; filename="` + p.Filename + `"`)
	}
	sb.WriteString("\r\n")
	if p.ContentType != "" {
		sb.WriteString("Content-Type: " + p.ContentType + "\r\n")
	}
	sb.WriteString("\r\n")
	return sb.String()
}

func generateBoundary() string {
	raw := make([]byte, 8)
	_, _ = rand.Read(raw)
	return "gofetch-boundary-" + hex.EncodeToString(raw)
}

// multipartReader streams the assembled part sequence lazily so large
// file-backed parts never sit fully in memory.
type multipartReader struct {
	boundary string
	parts    []Field
	idx      int
	cur      io.Reader
	curClose io.Closer
	done     bool
}

func newMultipartReader(boundary string, parts []Field) (io.ReadCloser, error) {
	return &multipartReader{boundary: boundary, parts: parts}, nil
}

func (m *multipartReader) Read(p []byte) (int, error) {
	for {
		if m.done {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.parts) {
				m.cur = bytes.NewReader([]byte("--" + m.boundary + "--\r\n"))
				m.done = true
				continue
			}
			part := m.parts[m.idx]
			m.idx++
			head := "--" + m.boundary + "\r\n" + partHeader(part)
			if part.isStream() {
				rc, err := part.OpenStream()
				if err != nil {
					return 0, err
				}
				m.curClose = rc
				m.cur = io.MultiReader(bytes.NewReader([]byte(head)), rc, bytes.NewReader([]byte("\r\n")))
			} else {
				m.cur = bytes.NewReader([]byte(head + string(part.Value) + "\r\n"))
			}
		}

		n, err := m.cur.Read(p)
		if err == io.EOF {
			if m.curClose != nil {
				m.curClose.Close()
				m.curClose = nil
			}
			m.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (m *multipartReader) Close() error {
	if m.curClose != nil {
		return m.curClose.Close()
	}
	return nil
}
