package search

import "strings"

// Option configures a Matcher.
type Option func(*config)

type config struct {
	minTermRunes int
	stopwords    map[string]struct{}
}

func defaultConfig() config {
	return config{minTermRunes: 1}
}

// WithMinTermRunes ignores query terms shorter than n runes.
func WithMinTermRunes(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.minTermRunes = n
		}
	}
}

// WithStopwords drops the given words from queries. Words are folded first.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			if w = Fold(w); w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// Matcher tests folded text fields against a query.
type Matcher struct {
	cfg config
}

// NewMatcher returns a Matcher with the given options applied.
func NewMatcher(opts ...Option) *Matcher {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Matcher{cfg: cfg}
}

// Query is a pre-folded query ready to be tested against many records.
type Query struct {
	terms []string
}

// Empty reports whether the query has no usable terms and so matches all.
func (q Query) Empty() bool { return len(q.terms) == 0 }

// Compile folds q and splits it into terms.
func (m *Matcher) Compile(q string) Query {
	all := Terms(q, m.cfg.minTermRunes)
	if m.cfg.stopwords == nil {
		return Query{terms: all}
	}
	kept := all[:0]
	for _, t := range all {
		if _, stop := m.cfg.stopwords[t]; !stop {
			kept = append(kept, t)
		}
	}
	return Query{terms: kept}
}

// Match reports whether every term occurs in at least one of fields.
func (q Query) Match(fields ...string) bool {
	if q.Empty() {
		return true
	}
	folded := make([]string, len(fields))
	for i, f := range fields {
		folded[i] = Fold(f)
	}
	for _, t := range q.terms {
		hit := false
		for _, f := range folded {
			if strings.Contains(f, t) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Filter returns the items whose fields match q, preserving order.
func Filter[T any](m *Matcher, q string, items []T, fields func(T) []string) []T {
	query := m.Compile(q)
	if query.Empty() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if query.Match(fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
