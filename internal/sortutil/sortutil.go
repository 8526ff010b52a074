// Package sortutil provides small, deterministic sort helpers; the
// compressor's dictionary-ordering pass uses ByLenThenLex, where
// reproducible tie-breaking is part of the contract (spec.md §3: "shorter
// fragments get shorter IDs").
package sortutil

import "sort"

// StableStringSort returns a new slice containing the input strings sorted
// lexicographically. The original slice is not modified.
func StableStringSort(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	sort.Strings(out)
	return out
}

// ByLenThenLex sorts entries ascending by length first, breaking ties
// lexicographically — the ordering rule dictionary entries use so that
// shorter, cheaper-to-reference fragments claim the shorter ids.
func ByLenThenLex(entries []string) {
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i]) != len(entries[j]) {
			return len(entries[i]) < len(entries[j])
		}
		return entries[i] < entries[j]
	})
}
