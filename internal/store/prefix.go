package store

import "slices"

// DefaultIDFloor is the shortest id prefix shown to users.
const DefaultIDFloor = 5

// ShortestIDLength returns the smallest length L >= floor such that the first
// L characters of every id are pairwise distinct.
//
// After sorting, only neighbours can share a longer prefix than any other pair,
// so each adjacent pair needs firstDifference+1 characters. An id in the middle
// of the order has to be protected against both neighbours: the longer of the
// two requirements is carried forward so that a shorter requirement seen later
// never masks one already established.
func ShortestIDLength(ids []string, floor int) int {
	if floor < 0 {
		floor = 0
	}
	if len(ids) < 2 {
		return floor
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	// need[i] is the prefix length that keeps sorted[i] apart from its neighbours.
	need := make([]int, len(sorted))
	carry := 0
	for i := 0; i+1 < len(sorted); i++ {
		pair := distinguishingLength(sorted[i], sorted[i+1])
		need[i] = max(carry, pair)
		carry = pair
	}
	need[len(sorted)-1] = carry

	return max(floor, slices.Max(need))
}

// distinguishingLength is the number of leading bytes needed to tell a and b
// apart. Identical strings need their full length.
func distinguishingLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i + 1
		}
	}
	if len(a) != len(b) {
		return n + 1
	}
	return n
}
