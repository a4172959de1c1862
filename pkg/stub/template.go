package stub

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lucasjones/reggen"
)

// Template is a pre-parsed `{{fn(args)}}` fixture body template, adapted
// line-for-line from the teacher's attacker.CompiledTemplate: parsing
// happens once in CompileTemplate, substitution runs on every Execute
// call. Registry and the built-in responders do not compile or execute
// templates themselves. Repurposed from synthesizing attack payloads to synthesizing
// fixture response bodies.
type Template struct {
	parts   []templatePart
	hasVars bool
}

type templatePart struct {
	literal   string
	isLiteral bool
	ref       string
}

// CompileTemplate parses input once; Execute is cheap to call per match.
func CompileTemplate(input string) *Template {
	if strings.IndexByte(input, '{') == -1 || !strings.Contains(input, "{{") {
		return &Template{parts: []templatePart{{isLiteral: true, literal: input}}}
	}

	t := &Template{hasVars: true}
	remaining := input
	for {
		start := strings.Index(remaining, "{{")
		if start == -1 {
			if remaining != "" {
				t.parts = append(t.parts, templatePart{isLiteral: true, literal: remaining})
			}
			break
		}
		if start > 0 {
			t.parts = append(t.parts, templatePart{isLiteral: true, literal: remaining[:start]})
		}
		afterOpen := remaining[start+2:]
		end := strings.Index(afterOpen, "}}")
		if end == -1 {
			t.parts = append(t.parts, templatePart{isLiteral: true, literal: remaining[start:]})
			break
		}
		ref := strings.TrimSpace(afterOpen[:end])
		t.parts = append(t.parts, templatePart{ref: ref})
		remaining = afterOpen[end+2:]
	}
	return t
}

// Execute renders the template against the shared fixture function
// table.
func (t *Template) Execute() string {
	if !t.hasVars {
		return t.parts[0].literal
	}

	literalLen := 0
	for _, p := range t.parts {
		if p.isLiteral {
			literalLen += len(p.literal)
		}
	}

	var sb strings.Builder
	sb.Grow(literalLen + 64)

	for _, p := range t.parts {
		if p.isLiteral {
			sb.WriteString(p.literal)
			continue
		}
		if idx := strings.IndexByte(p.ref, '('); idx != -1 && strings.HasSuffix(p.ref, ")") {
			funcName := strings.TrimSpace(p.ref[:idx])
			argStr := p.ref[idx+1 : len(p.ref)-1]
			if f, ok := fixtureFuncs[funcName]; ok {
				sb.WriteString(f(parseArgs(argStr)))
				continue
			}
			sb.WriteString("{{" + p.ref + "}}")
		} else if p.ref == "uuid" {
			sb.WriteString(uuid.NewString())
		} else {
			sb.WriteString("{{" + p.ref + "}}")
		}
	}

	return sb.String()
}

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// fixtureFuncs is the subset of the teacher's funcMap a fixture author
// plausibly needs for synthesizing response bodies: hashing/encoding and
// randomized data, minus the teacher's time-travel and attack-specific
// generators.
var fixtureFuncs = map[string]func([]string) string{
	"uuid": func([]string) string { return uuid.NewString() },

	"hmac_sha256": func(args []string) string {
		if len(args) != 2 {
			return "ERROR:hmac_sha256_needs_2_args"
		}
		h := hmac.New(sha256.New, []byte(args[0]))
		h.Write([]byte(args[1]))
		return hex.EncodeToString(h.Sum(nil))
	},
	"base64_encode": func(args []string) string {
		if len(args) != 1 {
			return "ERROR:base64_encode_needs_1_arg"
		}
		return base64.StdEncoding.EncodeToString([]byte(args[0]))
	},
	"sha256": func(args []string) string {
		if len(args) != 1 {
			return "ERROR:sha256_needs_1_arg"
		}
		sum := sha256.Sum256([]byte(args[0]))
		return hex.EncodeToString(sum[:])
	},
	"md5": func(args []string) string {
		if len(args) != 1 {
			return "ERROR:md5_needs_1_arg"
		}
		sum := md5.Sum([]byte(args[0]))
		return hex.EncodeToString(sum[:])
	},

	"random_choice": func(args []string) string {
		if len(args) == 0 {
			return ""
		}
		return args[rand.IntN(len(args))]
	},
	"random_int_range": func(args []string) string {
		if len(args) != 2 {
			return "ERROR:random_int_range_needs_min_max"
		}
		min, _ := strconv.Atoi(strings.TrimSpace(args[0]))
		max, _ := strconv.Atoi(strings.TrimSpace(args[1]))
		if max <= min {
			return strconv.Itoa(min)
		}
		return strconv.Itoa(rand.IntN(max-min) + min)
	},
	"random_string": func(args []string) string {
		length := 10
		if len(args) >= 1 {
			if l, err := strconv.Atoi(args[0]); err == nil {
				length = l
			}
		}
		chars := alphanum
		if len(args) >= 2 {
			chars = args[1]
		}
		b := make([]byte, length)
		for i := range b {
			b[i] = chars[rand.IntN(len(chars))]
		}
		return string(b)
	},
	"regex_gen": func(args []string) string {
		if len(args) != 1 {
			return "ERROR:regex_gen_needs_pattern"
		}
		res, err := reggen.Generate(args[0], 10)
		if err != nil {
			return "ERROR:regex_gen_failed"
		}
		return res
	},
}

// parseArgs splits a comma-separated argument string, honoring simple
// double-quoted segments — adapted directly from the teacher's
// variables.go parser.
func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false

	for _, r := range s {
		switch r {
		case '"':
			inQuote = !inQuote
		case ',':
			if inQuote {
				current.WriteRune(r)
			} else {
				args = append(args, strings.TrimSpace(current.String()))
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 || len(args) > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}
	return args
}
