// Package sets provides a minimal generic set used for slug bookkeeping.
package sets

import (
	"cmp"
	"slices"
)

// Set is a simple generic hash set for comparable keys.
// Usage: s := sets.New[string]("a","b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Insert adds v and reports whether it was not already present.
func (s Set[T]) Insert(v T) bool {
	if s.Has(v) {
		return false
	}
	s.Add(v)
	return true
}

// Delete removes v if present.
func (s Set[T]) Delete(v T) { delete(s, v) }

// Sorted returns the members of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
