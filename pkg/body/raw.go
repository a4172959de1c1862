package body

// Raw emits bytes unchanged with a caller-chosen Content-Type (§4.2
// "Raw bytes").
type Raw struct {
	Data        []byte
	ContentType string
}

func (r Raw) Serialize() (Encoded, error) {
	ct := r.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Encoded{Bytes: r.Data, Length: int64(len(r.Data)), Headers: headerWith(ct)}, nil
}

// String UTF-8 encodes s; default Content-Type is text/plain (§4.2
// "String").
type String struct {
	Value       string
	ContentType string
}

func (s String) Serialize() (Encoded, error) {
	ct := s.ContentType
	if ct == "" {
		ct = "text/plain; charset=utf-8"
	}
	b := []byte(s.Value)
	return Encoded{Bytes: b, Length: int64(len(b)), Headers: headerWith(ct)}, nil
}
