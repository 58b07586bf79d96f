package partition

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// EnumerateCardinalities counts, for every integer distance d, how many permutations of n
// items lie at distance d from the identity. Index d of the result holds that count; the
// slice ends at the largest distance observed. All n! permutations are visited, so n is
// capped at MaxEnumerationItems.
func EnumerateCardinalities(n int, metric rankdist.Metric) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", rankdist.ErrInvalidArgument, n)
	}
	if n > MaxEnumerationItems {
		return nil, fmt.Errorf("%w: n > %d cannot be enumerated exhaustively",
			rankdist.ErrDomainBoundExceeded, MaxEnumerationItems)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: %q", rankdist.ErrUnsupportedMetric, string(metric))
	}

	identity := make([]float64, n)
	for i := range identity {
		identity[i] = float64(i + 1)
	}

	var counts []float64
	ranks := make([]float64, n)
	perm := make([]int, n)
	gen := combin.NewPermutationGenerator(n, n)
	for gen.Next() {
		gen.Permutation(perm)
		for i, v := range perm {
			ranks[i] = float64(v + 1)
		}

		d, err := rankdist.Distance(ranks, identity, metric)
		if err != nil {
			return nil, err
		}

		idx := int(d)
		for len(counts) <= idx {
			counts = append(counts, 0)
		}
		counts[idx]++
	}

	return counts, nil
}
