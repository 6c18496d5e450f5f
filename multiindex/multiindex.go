// Package multiindex implements a compact one-to-many index: most keys map
// to exactly one value, and the index avoids paying for a set allocation
// until a key actually accumulates more than one.
package multiindex

import (
	"fmt"

	"github.com/docgraph/docgraph/docerr"
)

// MultiIndex maps keys to either a single value or a set of values. K must
// be comparable (map key); V must be comparable too, since membership in
// the promoted-to-set representation is tracked with a map[V]struct{}.
type MultiIndex[K comparable, V comparable] struct {
	entries map[K]any // V, or map[V]struct{} once a key holds more than one value
}

// New returns an empty MultiIndex.
func New[K comparable, V comparable]() *MultiIndex[K, V] {
	return &MultiIndex[K, V]{entries: map[K]any{}}
}

// Add associates value with key. Adding the same (key, value) pair twice
// promotes the entry to a set representation holding just that one value;
// this is accepted, if slightly wasteful, rather than treated as an error.
func (mi *MultiIndex[K, V]) Add(key K, value V) error {
	var zeroK K
	var zeroV V
	if key == zeroK {
		return fmt.Errorf("multiindex: key: %w", docerr.ErrBadValue)
	}
	if value == zeroV {
		return fmt.Errorf("multiindex: value: %w", docerr.ErrBadValue)
	}

	existing, ok := mi.entries[key]
	if !ok {
		mi.entries[key] = value
		return nil
	}
	switch cur := existing.(type) {
	case V:
		mi.entries[key] = map[V]struct{}{cur: {}, value: {}}
	case map[V]struct{}:
		cur[value] = struct{}{}
	}
	return nil
}

// Remove disassociates value from key. It is a no-op if the pair is not
// present. A key whose last value is removed is deleted outright.
func (mi *MultiIndex[K, V]) Remove(key K, value V) {
	existing, ok := mi.entries[key]
	if !ok {
		return
	}
	switch cur := existing.(type) {
	case V:
		if cur == value {
			delete(mi.entries, key)
		}
	case map[V]struct{}:
		delete(cur, value)
		if len(cur) == 0 {
			delete(mi.entries, key)
		}
	}
}

// GetOne returns the single value under key. If key holds more than one
// value, it returns an *docerr.AmbiguousError (wrapping docerr.ErrAmbiguous)
// built from dupErr and the candidate list, in no particular order.
func (mi *MultiIndex[K, V]) GetOne(key K, dupErr string) (V, bool, error) {
	var zero V
	existing, ok := mi.entries[key]
	if !ok {
		return zero, false, nil
	}
	switch cur := existing.(type) {
	case V:
		return cur, true, nil
	case map[V]struct{}:
		if len(cur) == 1 {
			for v := range cur {
				return v, true, nil
			}
		}
		candidates := make([]string, 0, len(cur))
		for v := range cur {
			candidates = append(candidates, fmt.Sprintf("%v", v))
		}
		return zero, false, &docerr.AmbiguousError{Key: dupErr, Candidates: candidates}
	}
	return zero, false, nil
}

// GetAll returns every value currently under key, in no particular order.
func (mi *MultiIndex[K, V]) GetAll(key K) []V {
	existing, ok := mi.entries[key]
	if !ok {
		return nil
	}
	switch cur := existing.(type) {
	case V:
		return []V{cur}
	case map[V]struct{}:
		out := make([]V, 0, len(cur))
		for v := range cur {
			out = append(out, v)
		}
		return out
	}
	return nil
}

// Len reports the number of distinct keys currently indexed.
func (mi *MultiIndex[K, V]) Len() int { return len(mi.entries) }
