package utils

import (
	"cmp"
	"slices"
)

// GetKeys returns the keys of a map
// TODO: Remove this function when https://github.com/golang/go/issues/61900 is resolved
func GetKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns the keys of a map in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := GetKeys(m)
	slices.Sort(keys)
	return keys
}
