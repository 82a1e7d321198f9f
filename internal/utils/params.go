// Package utils holds small parsing helpers shared by configuration, HTTP
// handlers and the CLI. Nothing here knows about contact requests.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault converts s to an int, returning def when s is empty or not a
// base-10 integer. Surrounding spaces are not trimmed.
//
//	utils.AtoiDefault("42", 0) // 42
//	utils.AtoiDefault("x", 5)  // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// SplitCSV splits a comma separated list, trimming items and dropping empty
// ones. It returns nil for an empty input.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitIDs is SplitCSV over several arguments, so both "a,b" and "a b" work
// on a command line. Duplicates are kept; callers dedupe where it matters.
func SplitIDs(args ...string) []string {
	var out []string
	for _, a := range args {
		out = append(out, SplitCSV(a)...)
	}
	return out
}
