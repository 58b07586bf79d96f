// Package rankdist computes distances between rank vectors and aggregates them over
// ranking samples.
package rankdist

import "fmt"

// Distance returns the distance between r1 and r2 under metric.
//
// Note that the Spearman distance is the squared L2 norm, whereas the footrule distance is
// the L1 norm.
func Distance(r1, r2 []float64, metric Metric) (float64, error) {
	if len(r1) != len(r2) {
		return 0, fmt.Errorf("%w: r1 and r2 must have the same length, got %d and %d",
			ErrDimensionMismatch, len(r1), len(r2))
	}

	switch metric {
	case Cayley:
		return CayleyDistance(r1, r2), nil
	case Footrule:
		return FootruleDistance(r1, r2), nil
	case Hamming:
		return HammingDistance(r1, r2), nil
	case Kendall:
		return KendallDistance(r1, r2), nil
	case Spearman:
		return SpearmanDistance(r1, r2), nil
	case Ulam:
		return UlamDistance(r1, r2)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMetric, string(metric))
	}
}
