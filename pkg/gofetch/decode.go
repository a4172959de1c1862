package gofetch

import "encoding/json"

// HTTPDecodableResponse is the domain-specific decode hook (§4.5): a
// type that knows how to populate itself from a raw Response instead of
// going through encoding/json.
type HTTPDecodableResponse interface {
	DecodeResponse(r *Response) error
}

// DecodeResponse lets Response itself satisfy HTTPDecodableResponse, so
// Decode[Response] realizes the spec's "stamped typealias" for asking
// for the untouched response through the same Decode call.
func (r *Response) DecodeResponse(src *Response) error {
	*r = *src
	return nil
}

// Decode dispatches on T (§4.5): if T implements HTTPDecodableResponse,
// its DecodeResponse is called; otherwise T is decoded generically via
// encoding/json against the response body. Decoding errors are returned
// here, not raised from Fetch, matching §7 ("raised from decode<T>()").
func Decode[T any](r *Response) (T, error) {
	var out T
	if r.Err != nil {
		return out, r.Err
	}
	if decodable, ok := any(&out).(HTTPDecodableResponse); ok {
		if err := decodable.DecodeResponse(r); err != nil {
			return out, newError(CodeObjectDecodeFailed, "decode hook failed", err)
		}
		return out, nil
	}
	if len(r.Bytes) == 0 {
		return out, newError(CodeObjectDecodeFailed, "empty response body", nil)
	}
	if err := json.Unmarshal(r.Bytes, &out); err != nil {
		return out, newError(CodeObjectDecodeFailed, "json decode failed", err)
	}
	return out, nil
}
