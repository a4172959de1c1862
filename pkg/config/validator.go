package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation error with context and suggestions
type ValidationError struct {
	Field      string // Field path (e.g., "requests[0].method")
	Value      string // The actual value provided (if any)
	Message    string // Error description
	Expected   string // Expected format/type
	Hint       string // Helpful suggestion
	DidYouMean string // Typo correction suggestion
}

// ValidationResult holds all validation errors
type ValidationResult struct {
	Errors []ValidationError
}

// Add adds a new validation error
func (v *ValidationResult) Add(err ValidationError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationResult) HasErrors() bool {
	return len(v.Errors) > 0
}

// FormatErrors formats all errors into a user-friendly string
func (v *ValidationResult) FormatErrors() string {
	if !v.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n❌ Configuration Errors:\n")

	for i, err := range v.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s\n", i+1, err.Field))

		if err.Value != "" {
			sb.WriteString(fmt.Sprintf("     ├─ Value: %q\n", truncate(err.Value, 50)))
		}

		sb.WriteString(fmt.Sprintf("     ├─ Error: %s\n", err.Message))

		if err.Expected != "" {
			sb.WriteString(fmt.Sprintf("     ├─ Expected: %s\n", err.Expected))
		}

		if err.DidYouMean != "" {
			sb.WriteString(fmt.Sprintf("     ├─ Did you mean: %q?\n", err.DidYouMean))
		}

		if err.Hint != "" {
			sb.WriteString(fmt.Sprintf("     └─ 💡 Hint: %s\n", err.Hint))
		} else {
			// Replace last ├ with └ for cleaner output
			// This is handled by putting hint last
		}
	}

	sb.WriteString("\n📖 For documentation, see the scenario YAML schema in README.md\n")

	return sb.String()
}

// Known valid field names for typo detection
var validClientFields = []string{"base_url", "headers", "timeout", "follow_redirects"}
var validRequestFields = []string{"name", "method", "path", "url", "headers", "query", "body", "body_file", "body_json", "max_retries", "assertions"}
var validHTTPMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// Hints for common fields
var fieldHints = map[string]string{
	"client.base_url":       "Provide the full base URL including protocol (e.g., https://api.example.com)",
	"client.timeout":        "Request timeout with unit (e.g., '10s', '30s', '1m')",
	"requests[].method":     "HTTP method: GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
	"requests[].path":       "Path joined against client.base_url (e.g., /v1/users), or set url for an absolute address",
	"requests[].assertions": "List of {type: contains|regex|json_path, value, path, message}",
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FindClosestMatch finds the closest matching field name from valid options
func FindClosestMatch(input string, validOptions []string) string {
	if input == "" {
		return ""
	}

	bestMatch := ""
	bestDistance := 100 // arbitrary large number

	for _, option := range validOptions {
		distance := levenshteinDistance(input, option)
		// Only suggest if distance is reasonable (at most half the option's length, plus one)
		if distance < bestDistance && distance <= len(option)/2+1 {
			bestDistance = distance
			bestMatch = option
		}
	}

	// Don't return exact matches as "did you mean"
	if strings.EqualFold(input, bestMatch) {
		return ""
	}

	return bestMatch
}

// ValidateFieldNames scans raw's client and requests sections for keys
// outside validClientFields/validRequestFields and flags them as likely
// typos, the same "did you mean" pass the teacher ran over its load.yaml
// keys before this was retargeted to a scenario file.
func ValidateFieldNames(raw map[string]interface{}) *ValidationResult {
	result := &ValidationResult{}

	if client, ok := raw["client"].(map[string]interface{}); ok {
		for k := range client {
			if !containsField(validClientFields, k) {
				result.Add(unknownFieldError("client."+k, k, validClientFields))
			}
		}
	}

	if requests, ok := raw["requests"].([]interface{}); ok {
		for i, r := range requests {
			fields, ok := r.(map[string]interface{})
			if !ok {
				continue
			}
			for k := range fields {
				if !containsField(validRequestFields, k) {
					result.Add(unknownFieldError(fmt.Sprintf("requests[%d].%s", i, k), k, validRequestFields))
				}
			}
		}
	}

	return result
}

func unknownFieldError(field, key string, valid []string) ValidationError {
	err := ValidationError{Field: field, Message: "unknown field"}
	if suggestion := FindClosestMatch(key, valid); suggestion != "" {
		err.DidYouMean = suggestion
	}
	return err
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// GetHint returns a helpful hint for a field
func GetHint(field string) string {
	if hint, ok := fieldHints[field]; ok {
		return hint
	}
	return ""
}

// ValidateHTTPMethod checks if a method is valid and suggests corrections
func ValidateHTTPMethod(method string) (bool, string) {
	upper := strings.ToUpper(method)
	for _, valid := range validHTTPMethods {
		if upper == valid {
			return true, ""
		}
	}

	// Try to find close match
	suggestion := FindClosestMatch(method, validHTTPMethods)
	return false, suggestion
}

// truncate shortens a string for display
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// min returns the minimum of three integers
func min(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
