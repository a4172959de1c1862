package body

import "encoding/json"

// JSON serializes any encodable value as a JSON document, covering both
// §4.2 variants: "JSON-from-encodable" when Value is a struct/slice/etc,
// "JSON-from-opaque-object" when Value is a map[string]any — encoding/json
// already marshals map keys in sorted order, satisfying the "sorted keys
// by default" rule for the object variant without extra work.
type JSON struct {
	Value any
}

func (j JSON) Serialize() (Encoded, error) {
	b, err := json.Marshal(j.Value)
	if err != nil {
		return Encoded{}, err
	}
	return Encoded{Bytes: b, Length: int64(len(b)), Headers: headerWith("application/json")}, nil
}
