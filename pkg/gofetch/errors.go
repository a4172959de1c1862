package gofetch

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/amr9/gofetch/pkg/stub"
)

// Code enumerates the wire/observable error taxonomy from the spec's
// external-interfaces error list. Every Error carries exactly one Code.
type Code string

const (
	CodeInvalidURL                Code = "invalid_url"
	CodeMultipartInvalidFile      Code = "multipart_invalid_file"
	CodeMultipartFailedEncoding   Code = "multipart_failed_string_encoding"
	CodeMultipartStreamReadFailed Code = "multipart_stream_read_failed"
	CodeJSONEncodingFailed        Code = "json_encoding_failed"
	CodeURLEncodingFailed         Code = "url_encoding_failed"
	CodeNetwork                   Code = "network"
	CodeMissingConnection         Code = "missing_connection"
	CodeInvalidResponse           Code = "invalid_response"
	CodeFailedBuildingWireRequest Code = "failed_building_wire_request"
	CodeObjectDecodeFailed        Code = "object_decode_failed"
	CodeEmptyResponse             Code = "empty_response"
	CodeMaxRetryAttemptsReached   Code = "max_retry_attempts_reached"
	CodeSessionError              Code = "session_error"
	CodeCancelled                 Code = "cancelled"
	CodeInternal                  Code = "internal"
	CodeMatchStubNotFound         Code = "match_stub_not_found"
	CodeAssertionFailed           Code = "assertion_failed"
)

// Error is the single carrier type for every error gofetch can produce.
// It mirrors the rich, inspectable style of the teacher's
// pkg/config.ValidationError: callers can branch on Code instead of
// string-matching messages, while still getting a readable Error().
type Error struct {
	Code       Code
	Message    string
	StatusCode int   // 0 when not applicable
	Err        error // wrapped underlying error, if any
	Request    any   // *Request, set for CodeMatchStubNotFound
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, &gofetch.Error{Code: gofetch.CodeNetwork})
// style checks by comparing codes when the target is itself an *Error.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

func newError(code Code, msg string, wrapped error) *Error {
	return &Error{Code: code, Message: msg, Err: wrapped}
}

// NewError lets collaborators outside this package (pkg/retry's concrete
// Validator implementations) build an *Error carrying one of the codes
// above, rather than exposing a separate error type per subpackage.
func NewError(code Code, msg string, wrapped error) *Error {
	return newError(code, msg, wrapped)
}

func newErrorStatus(code Code, msg string, status int, wrapped error) *Error {
	return &Error{Code: code, Message: msg, StatusCode: status, Err: wrapped}
}

// errorFromResponse re-categorizes a raw transport error the way §7 and the
// teacher's isRetryableError classify failures: by substring match over the
// error's message, since net/http does not expose a closed taxonomy for
// dial/DNS failures any more than the Swift original's URLError domain is
// closed for embedding purposes.
func errorFromResponse(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}

	if errors.Is(err, stub.ErrMatchNotFound) {
		return newError(CodeMatchStubNotFound, "no stub rule matched the request", err)
	}
	if isMissingConnection(err) {
		return newError(CodeMissingConnection, "target unreachable", err)
	}
	return newError(CodeNetwork, "transport error", err)
}

var missingConnectionPatterns = []string{
	"no such host",
	"connection refused",
	"network is unreachable",
	"no route to host",
	"connection reset",
}

func isMissingConnection(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		msg := strings.ToLower(netErr.Error())
		for _, p := range missingConnectionPatterns {
			if strings.Contains(msg, p) {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range missingConnectionPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// isRetryableTransportError classifies transport-level failures the default
// validator treats as immediately retryable (§4.4): timedOut,
// cannotFindHost, cannotConnectToHost, networkConnectionLost,
// dnsLookupFailed. Grounded directly on attacker.isRetryableError.
func isRetryableTransportError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout",
		"i/o timeout",
		"connection reset",
		"connection refused",
		"no such host",
		"eof",
		"tls handshake timeout",
		"network is unreachable",
		"no route to host",
	}
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
