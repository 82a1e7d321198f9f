// Package search turns contact request text and admin search queries into a
// comparable form: lower-cased, accent-folded and whitespace-collapsed.
//
// Records store Document(...) in their search_text column at creation; the
// list query splits the admin's input with Terms and requires every term to
// appear (AND semantics, substring match). "Zoé" therefore matches "zoe",
// "ZOE" and "Zoé".
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxTerms bounds the number of terms taken from one query.
const DefaultMaxTerms = 8

// Fold lower-cases s and strips combining marks.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Lower(language.Und).String(out)
}

// Document builds the search_text value for a record from its searchable
// fields.
func Document(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = collapse(Fold(f)); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// Terms splits a raw query on whitespace and returns its folded, de-duplicated
// terms in input order, at most DefaultMaxTerms of them.
func Terms(q string) []string {
	fields := strings.Fields(Fold(q))
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
		if len(out) == DefaultMaxTerms {
			break
		}
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
