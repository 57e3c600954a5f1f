// Package guard tracks entity keys that are currently undergoing a mutating
// operation so a second submission for the same key is rejected instead of
// racing the first.
//
// The set is advisory and process-local: it serializes callers that share a
// Set, nothing more. Cross-process uniqueness belongs to the store.
package guard

import (
	"errors"
	"sync"
)

// ErrInFlight is returned by Begin when the key is already held.
var ErrInFlight = errors.New("operation already in flight")

// Key builds the canonical guard key for an entity, e.g. Key("request", id).
func Key(kind, id string) string { return kind + ":" + id }

// Set is a concurrency-safe set of in-flight keys. The zero value is ready
// to use.
type Set struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// New returns an empty Set.
func New() *Set { return &Set{keys: make(map[string]struct{})} }

// Token releases the key it was issued for. End is idempotent.
type Token struct {
	set  *Set
	key  string
	once sync.Once
}

// End releases the key. Calling it more than once is a no-op.
func (t *Token) End() {
	if t == nil {
		return
	}
	t.once.Do(func() { t.set.End(t.key) })
}

// Begin marks key in flight and returns a token that releases it. If the key
// is already held it returns ErrInFlight and does not wait.
func (s *Set) Begin(key string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	if _, held := s.keys[key]; held {
		return nil, ErrInFlight
	}
	s.keys[key] = struct{}{}
	return &Token{set: s, key: key}, nil
}

// IsInFlight reports whether key is currently held.
func (s *Set) IsInFlight(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, held := s.keys[key]
	return held
}

// End releases key unconditionally. Prefer Token.End, which cannot release a
// key re-acquired by someone else after the token's own release.
func (s *Set) End(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

// Len returns the number of held keys.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
