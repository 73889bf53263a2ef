package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NonePlaceholder is the literal that record stores use for "no value".
const NonePlaceholder = "none"

// Clean trims s and returns "" when the result is the "none" placeholder (any case).
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, NonePlaceholder) {
		return ""
	}
	return s
}

// NFC returns s in Unicode normalization form C.
func NFC(s string) string {
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}

// Filter returns the cleaned, NFC-normalized values, dropping the empty ones.
func Filter(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = Clean(v); v != "" {
			out = append(out, NFC(v))
		}
	}
	return out
}

// JoinLines filters values and joins them with newlines.
func JoinLines(values []string) string {
	return strings.Join(Filter(values), "\n")
}
