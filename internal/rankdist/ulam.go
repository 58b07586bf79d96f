package rankdist

import (
	"fmt"
	"math"

	"github.com/tensorplex-labs/mallows/internal/permutation"
)

// UlamDistance is the number of delete-and-reinsert moves turning r1 into r2. Both vectors
// must hold integer ranks forming a permutation of 1..n.
func UlamDistance(r1, r2 []float64) (float64, error) {
	p1, err := zeroBasedPermutation(r1)
	if err != nil {
		return 0, fmt.Errorf("ulam distance: r1: %w", err)
	}
	p2, err := zeroBasedPermutation(r2)
	if err != nil {
		return 0, fmt.Errorf("ulam distance: r2: %w", err)
	}

	d, err := permutation.Distance(p1, p2)
	if err != nil {
		return 0, fmt.Errorf("%w: ulam distance: %v", ErrInvalidArgument, err)
	}
	return float64(d), nil
}

// zeroBasedPermutation converts ranks 1..n to the permutation 0..n-1.
func zeroBasedPermutation(ranks []float64) ([]int, error) {
	p := make([]int, len(ranks))
	for i, r := range ranks {
		if r != math.Trunc(r) {
			return nil, fmt.Errorf("%w: rank %v at position %d is not an integer", ErrInvalidArgument, r, i)
		}
		p[i] = int(r) - 1
	}
	return p, nil
}
