// Package partition supports computing the Mallows partition function: the distance values
// reachable for a given item count, their cardinalities, and the log normalizing constant.
package partition

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// AchievableDistances returns the ascending distances 0, 1, ..., max summed over when the
// partition function is computed exactly from cardinalities. Only footrule and Spearman
// are supported.
func AchievableDistances(n int, metric rankdist.Metric) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", rankdist.ErrInvalidArgument, n)
	}

	var maxDistance int
	switch metric {
	case rankdist.Footrule:
		if n > MaxFootruleItems {
			return nil, fmt.Errorf("%w: n > %d currently not supported for footrule",
				rankdist.ErrDomainBoundExceeded, MaxFootruleItems)
		}
		maxDistance = n * n / 2
	case rankdist.Spearman:
		if n > MaxSpearmanItems {
			return nil, fmt.Errorf("%w: n > %d currently not supported for Spearman distance",
				rankdist.ErrDomainBoundExceeded, MaxSpearmanItems)
		}
		if n >= 3 {
			maxDistance = 2 * combin.Binomial(n, 3)
		}
	default:
		return nil, fmt.Errorf("%w: %q has no exact summation support",
			rankdist.ErrUnsupportedMetric, string(metric))
	}

	distances := make([]float64, maxDistance+1)
	for i := range distances {
		distances[i] = float64(i)
	}
	return distances, nil
}
