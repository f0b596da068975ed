package generic

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Set is an unordered collection of unique values.
// The zero value is readable; call NewSet or make before adding.
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Add inserts v and reports whether it was absent before.
func (s Set[T]) Add(v T) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Remove deletes v and reports whether it was present.
func (s Set[T]) Remove(v T) bool {
	if _, ok := s[v]; !ok {
		return false
	}
	delete(s, v)
	return true
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	maps.Copy(out, s)
	return out
}

// Merge adds every value of other to s.
func (s Set[T]) Merge(other Set[T]) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// All iterates the values in unspecified order.
func (s Set[T]) All() iter.Seq[T] {
	return maps.Keys(s)
}

func (s Set[T]) Items() []T {
	return slices.Collect(maps.Keys(s))
}

// Intersect returns a new set holding the values present in every input.
// With no inputs the result is empty.
func Intersect[T comparable](sets ...Set[T]) Set[T] {
	if len(sets) == 0 {
		return Set[T]{}
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if len(s) < len(smallest) {
			smallest = s
		}
	}

	out := make(Set[T], len(smallest))
outer:
	for v := range smallest {
		for _, s := range sets {
			if !s.Has(v) {
				continue outer
			}
		}
		out[v] = struct{}{}
	}
	return out
}

// SortedFunc returns the values ordered by compare.
func SortedFunc[T comparable](s Set[T], compare func(a, b T) int) []T {
	return slices.SortedFunc(maps.Keys(s), compare)
}

// Sorted returns the values in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}
