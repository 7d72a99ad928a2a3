package ai

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Envelope is the loosely-typed decoded model reply. Models frequently
// return slightly malformed JSON or wrap values in unexpected types, so
// fields are accessed through coercing helpers instead of a struct.
type Envelope map[string]any

var (
	fenceRe         = regexp.MustCompile("(?i)```(?:json|js|txt)?")
	blockCommentRe  = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	lineCommentRe   = regexp.MustCompile(`(?m)//.*$`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	smartSingleRe   = regexp.MustCompile("[‘’]")
	smartDoubleRe   = regexp.MustCompile("[“”]")
)

// ParseLoose recovers a JSON object from free-form model output. It strips
// markdown fences, isolates the first balanced {...} substring, cleans up
// common model mistakes (comments, smart quotes, trailing commas) and
// falls back to parsing the whole cleaned text. Returns nil when no JSON
// object can be recovered. Never panics.
func ParseLoose(raw string) Envelope {
	if raw == "" {
		return nil
	}

	s := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	if sub := findBalancedJSON(s); sub != "" {
		if env := tryUnmarshal(cleanPotentialJSON(sub)); env != nil {
			return env
		}
	}

	// Last attempt: the whole cleaned text.
	return tryUnmarshal(cleanPotentialJSON(s))
}

func tryUnmarshal(s string) Envelope {
	var env Envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return nil
	}
	return env
}

// findBalancedJSON returns the first balanced {...} substring using brace
// counting, or "" when none exists.
func findBalancedJSON(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// cleanPotentialJSON removes JS-style comments and trailing commas and
// replaces smart quotes, the malformations models produce most often.
func cleanPotentialJSON(s string) string {
	cleaned := blockCommentRe.ReplaceAllString(s, "")
	cleaned = lineCommentRe.ReplaceAllString(cleaned, "")
	cleaned = smartSingleRe.ReplaceAllString(cleaned, "'")
	cleaned = smartDoubleRe.ReplaceAllString(cleaned, `"`)
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}

// Number returns the field coerced to a number. ok is false when the
// field is absent, zero, empty or not coercible, which callers treat as
// "use the fallback score".
func (e Envelope) Number(key string) (float64, bool) {
	v, exists := e[key]
	if !exists || v == nil {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		if n == 0 {
			return 0, false
		}
		return n, true
	case string:
		if strings.TrimSpace(n) == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case bool:
		return 0, false
	default:
		return 0, false
	}
}

// String returns the field stringified. ok is false for absent, nil or
// empty values.
func (e Envelope) String(key string) (string, bool) {
	v, exists := e[key]
	if !exists || v == nil {
		return "", false
	}

	switch s := v.(type) {
	case string:
		if s == "" {
			return "", false
		}
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// StringSlice returns the field as a string slice when it is a JSON
// array, coercing scalar elements to strings. Non-array values yield an
// empty slice.
func (e Envelope) StringSlice(key string) []string {
	v, exists := e[key]
	if !exists {
		return []string{}
	}

	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(arr))
	for _, item := range arr {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case float64:
			out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
		}
	}
	return out
}

// HasItems reports whether the field holds a non-empty array.
func (e Envelope) HasItems(key string) bool {
	v, exists := e[key]
	if !exists || v == nil {
		return false
	}
	if arr, ok := v.([]any); ok {
		return len(arr) > 0
	}
	if s, ok := v.(string); ok {
		return len(s) > 0
	}
	return false
}
