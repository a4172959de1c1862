package body

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Form serializes Values as application/x-www-form-urlencoded, matching
// §4.2's wire-compatibility requirements exactly: percent-encoding per
// RFC 3986 with "?" and "/" left unescaped, ascending key order, and
// configurable array/bool rendering. Supported value kinds: string,
// bool, any fmt.Stringer/numeric (rendered via fmt.Sprint), []any
// (arrays), and map[string]any (nested maps, flattened recursively as
// k[inner]=v).
type Form struct {
	Values map[string]any

	// ArrayBracket renders array values as "k[]=v" when true, or as
	// repeated "k=v" pairs when false (the default).
	ArrayBracket bool
	// BoolAsWord renders booleans as "true"/"false" when true, or as
	// "1"/"0" when false (the default).
	BoolAsWord bool
}

func (f Form) Serialize() (Encoded, error) {
	pairs := flattenForm("", f.Values, f)
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })

	var sb strings.Builder
	for i, kv := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(encodeFormComponent(kv[0]))
		sb.WriteByte('=')
		sb.WriteString(encodeFormComponent(kv[1]))
	}

	b := []byte(sb.String())
	return Encoded{Bytes: b, Length: int64(len(b)), Headers: headerWith("application/x-www-form-urlencoded")}, nil
}

func flattenForm(prefix string, values map[string]any, cfg Form) [][2]string {
	var out [][2]string
	for k, v := range values {
		key := k
		if prefix != "" {
			key = prefix + "[" + k + "]"
		}
		out = append(out, flattenValue(key, v, cfg)...)
	}
	return out
}

func flattenValue(key string, v any, cfg Form) [][2]string {
	switch val := v.(type) {
	case map[string]any:
		return flattenForm(key, val, cfg)
	case []any:
		var out [][2]string
		arrKey := key
		if cfg.ArrayBracket {
			arrKey = key + "[]"
		}
		for _, item := range val {
			out = append(out, flattenValue(arrKey, item, cfg)...)
		}
		return out
	case bool:
		word := "0"
		if cfg.BoolAsWord {
			word = strconv.FormatBool(val)
		} else if val {
			word = "1"
		}
		return [][2]string{{key, word}}
	case string:
		return [][2]string{{key, val}}
	default:
		return [][2]string{{key, fmt.Sprint(val)}}
	}
}

func encodeFormComponent(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isFormUnreserved(b) || b == '?' || b == '/' {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "%%%02X", b)
		}
	}
	return sb.String()
}

func isFormUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~':
		return true
	default:
		return false
	}
}
