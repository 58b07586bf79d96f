// Package permutation provides distances between integer permutations of 0..n-1.
package permutation

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrLengthMismatch = errors.New("permutations have different lengths")
	ErrNotPermutation = errors.New("not a permutation of 0..n-1")
)

// Validate checks that p holds every value in 0..len(p)-1 exactly once.
func Validate(p []int) error {
	seen := make([]bool, len(p))
	for i, v := range p {
		if v < 0 || v >= len(p) {
			return fmt.Errorf("%w: value %d at position %d out of range", ErrNotPermutation, v, i)
		}
		if seen[v] {
			return fmt.Errorf("%w: value %d repeated", ErrNotPermutation, v)
		}
		seen[v] = true
	}
	return nil
}

// Inverse returns q with q[p[i]] = i.
func Inverse(p []int) []int {
	q := make([]int, len(p))
	for i, v := range p {
		q[v] = i
	}
	return q
}

// Distance returns the Ulam distance between p1 and p2: n minus the length of the longest
// increasing subsequence of p2 composed with the inverse of p1.
func Distance(p1, p2 []int) (int, error) {
	if len(p1) != len(p2) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(p1), len(p2))
	}
	if err := Validate(p1); err != nil {
		return 0, fmt.Errorf("p1: %w", err)
	}
	if err := Validate(p2); err != nil {
		return 0, fmt.Errorf("p2: %w", err)
	}

	// Items ordered by their position in p1, read off at their position in p2.
	inv1 := Inverse(p1)
	composed := make([]int, len(p1))
	for k, item := range inv1 {
		composed[k] = p2[item]
	}

	return len(p1) - LongestIncreasingSubsequence(composed), nil
}

// LongestIncreasingSubsequence returns the length of the longest strictly increasing
// subsequence of seq in O(n log n) using patience sorting: tails[k] holds the smallest
// possible tail of an increasing subsequence of length k+1.
func LongestIncreasingSubsequence(seq []int) int {
	tails := make([]int, 0, len(seq))
	for _, v := range seq {
		k := sort.SearchInts(tails, v)
		if k == len(tails) {
			tails = append(tails, v)
		} else {
			tails[k] = v
		}
	}
	return len(tails)
}
