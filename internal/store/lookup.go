package store

import (
	"fmt"
	"strings"
)

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// resolve finds the record whose id equals ref or, failing that, the single
// record whose id starts with ref
func resolve[T any](items []T, ref string, idOf func(T) string) (int, error) {
	if ref == "" {
		return -1, fmt.Errorf("empty id: %w", ErrNotFound)
	}
	if i := indexOf(items, ref, idOf); i >= 0 {
		return i, nil
	}

	found := -1
	for i, item := range items {
		if strings.HasPrefix(idOf(item), ref) {
			if found >= 0 {
				return -1, fmt.Errorf("%q matches more than one record: %w", ref, ErrAmbiguousID)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	return found, nil
}
