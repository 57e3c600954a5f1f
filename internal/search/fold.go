// Package search provides small, deterministic, accent-insensitive text
// matching used to filter patient lists and session histories.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options (Option pattern)
//   - Safe for concurrent use once constructed
//
// Matching folds both sides to lower-case ASCII-ish form ("Avaliação" and
// "avaliacao" compare equal) and requires every query term to appear as a
// substring of at least one field.
package search

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder pairs the stateful transformers Fold needs; neither is safe for
// concurrent use, so they are pooled.
type folder struct {
	strip transform.Transformer
	lower cases.Caser
}

var foldPool = sync.Pool{
	New: func() any {
		return &folder{
			strip: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
			lower: cases.Lower(language.BrazilianPortuguese),
		}
	},
}

// Fold strips diacritics and lower-cases s.
func Fold(s string) string {
	f := foldPool.Get().(*folder)
	defer foldPool.Put(f)
	out, _, err := transform.String(f.strip, s)
	if err != nil {
		out = s
	}
	return f.lower.String(out)
}

// Terms splits a folded query into unique terms, dropping anything shorter
// than minRunes runes.
func Terms(q string, minRunes int) []string {
	fields := strings.FieldsFunc(Fold(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '@' && r != '.' && r != '-' && r != '_'
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minRunes {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
