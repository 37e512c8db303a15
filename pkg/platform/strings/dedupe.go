// Package strings holds small list-parsing helpers shared by config and CLI
// flag handling.
package strings

import (
	"strings"
)

// SplitDedupe splits raw on sep, trims every element and drops empty and
// repeated ones. First occurrences keep their order.
//
//	SplitDedupe(" a, b,,a ", ",") // []string{"a", "b"}
func SplitDedupe(raw, sep string) []string {
	return Dedupe(strings.Split(raw, sep))
}

// Dedupe trims values and drops empty and repeated ones, preserving order.
// It returns nil when nothing remains.
func Dedupe(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
