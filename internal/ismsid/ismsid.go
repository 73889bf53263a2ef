// Package ismsid implements ordering of hierarchical ISMS control identifiers
// such as "2.3.1". Parts are compared numerically from left to right and a
// missing trailing part counts as 0, so "1.2.10" sorts after "1.2.9" and
// "2.1" equals "2.1.0".
package ismsid

import (
	"strings"
)

// Parts splits id on dots and returns every part as a decimal digit string
// without leading zeros. Parts that are not non-negative integers become "0".
// Parts of any length are kept exactly, so very large numbers never collapse.
func Parts(id string) []string {
	fields := strings.Split(strings.TrimSpace(id), ".")
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = normalizePart(strings.TrimSpace(f))
	}
	return parts
}

func normalizePart(p string) string {
	if p == "" {
		return "0"
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return "0"
		}
	}
	p = strings.TrimLeft(p, "0")
	if p == "" {
		return "0"
	}
	return p
}

// comparePart compares two normalized digit strings numerically.
func comparePart(x, y string) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	return strings.Compare(x, y)
}

// Compare returns a negative number when a sorts before b, a positive number
// when it sorts after, and 0 when both denote the same control.
func Compare(a, b string) int {
	pa, pb := Parts(a), Parts(b)
	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		x, y := "0", "0"
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if c := comparePart(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// Canonical returns a key that is identical for two identifiers exactly when
// Compare reports them equal: normalized parts with trailing zeros removed.
func Canonical(id string) string {
	parts := Parts(id)
	end := len(parts)
	for end > 1 && parts[end-1] == "0" {
		end--
	}
	return strings.Join(parts[:end], ".")
}

// HasPrefix reports whether id, trimmed, starts with prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), prefix)
}
