// Package answer converts raw model answers into canonical option letters.
package answer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAnswer marks a raw value whose shape cannot carry an answer
// (numbers, booleans, mappings, nested containers).
var ErrInvalidAnswer = errors.New("answer: invalid value")

// Normalize converts a raw prediction value into an ordered, deduplicated
// set of uppercase option letters. Accepted shapes: nil, string, []string,
// and []any holding strings. An empty result means "unanswered".
func Normalize(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return normalizeString(v), nil
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, normalizeToken(item)...)
		}
		return dedup(out), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: sequence element %T", ErrInvalidAnswer, item)
			}
			out = append(out, normalizeToken(s)...)
		}
		return dedup(out), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidAnswer, raw)
	}
}

// Letters extracts the uppercase ASCII letters of s in order, without
// deduplication.
func Letters(s string) []string {
	var out []string
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			out = append(out, string(r))
		}
	}
	return out
}

func normalizeString(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})

	var out []string
	for _, tok := range tokens {
		out = append(out, normalizeToken(tok)...)
	}
	return dedup(out)
}

func normalizeToken(tok string) []string {
	tok = strings.TrimSpace(tok)
	tok = strings.Trim(tok, `"'`)
	if tok == "" {
		return nil
	}
	return Letters(tok)
}

func dedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Equal reports whether two normalized answers match as sets, ignoring
// element order. Two empty answers are equal.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
