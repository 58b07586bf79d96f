package partition

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// LogPartition returns the log of the Mallows normalizing constant for nItems items at
// scale alpha.
//
// The first applicable strategy wins: exact summation over cardinalities, the polynomial
// logzEstimate (coefficients in increasing powers of alpha), then the closed forms for
// Cayley, Hamming and Kendall. Footrule, Spearman and Ulam therefore need cardinalities or
// an estimate.
func LogPartition(nItems int, alpha float64, cardinalities, logzEstimate []float64, metric rankdist.Metric) (float64, error) {
	if nItems < 1 {
		return 0, fmt.Errorf("%w: n_items must be positive, got %d", rankdist.ErrInvalidArgument, nItems)
	}
	if !metric.Valid() {
		return 0, fmt.Errorf("%w: %q", rankdist.ErrUnsupportedMetric, string(metric))
	}

	if cardinalities != nil {
		return exactLogPartition(nItems, alpha, cardinalities, metric)
	}

	if logzEstimate != nil {
		return polynomialLogPartition(alpha, logzEstimate), nil
	}

	switch metric {
	case rankdist.Cayley:
		return cayleyLogPartition(nItems, alpha), nil
	case rankdist.Hamming:
		return hammingLogPartition(nItems, alpha), nil
	case rankdist.Kendall:
		return kendallLogPartition(nItems, alpha), nil
	default:
		return 0, fmt.Errorf("%w: %q requires cardinalities or a partition function estimate",
			rankdist.ErrUnsupportedMetric, string(metric))
	}
}

func exactLogPartition(nItems int, alpha float64, cardinalities []float64, metric rankdist.Metric) (float64, error) {
	distances, err := AchievableDistances(nItems, metric)
	if err != nil {
		return 0, err
	}
	if len(distances) != len(cardinalities) {
		return 0, fmt.Errorf("%w: %d cardinalities for %d achievable distances",
			rankdist.ErrDimensionMismatch, len(cardinalities), len(distances))
	}
	return logSumWeighted(nItems, alpha, cardinalities), nil
}

// logSumWeighted computes log(sum_d counts[d] * exp(-alpha * d / n)) with d the index.
// Zero counts are skipped.
func logSumWeighted(nItems int, alpha float64, counts []float64) float64 {
	terms := make([]float64, 0, len(counts))
	for d, c := range counts {
		if c <= 0 {
			continue
		}
		terms = append(terms, math.Log(c)-alpha*float64(d)/float64(nItems))
	}
	if len(terms) == 0 {
		return math.Inf(-1)
	}
	return floats.LogSumExp(terms)
}

func polynomialLogPartition(alpha float64, coefficients []float64) float64 {
	var logz float64
	power := 1.0
	for _, c := range coefficients {
		logz += c * power
		power *= alpha
	}
	return logz
}

func cayleyLogPartition(nItems int, alpha float64) float64 {
	var res float64
	for i := 1; i < nItems; i++ {
		res += math.Log1p(float64(i) * math.Exp(-alpha/float64(nItems)))
	}
	return res
}

func hammingLogPartition(nItems int, alpha float64) float64 {
	n := float64(nItems)
	base := math.Expm1(alpha / n)
	lgammaN, _ := math.Lgamma(n + 1)

	terms := make([]float64, nItems+1)
	terms[0] = lgammaN - alpha
	for k := 1; k <= nItems; k++ {
		lgammaK, _ := math.Lgamma(float64(k) + 1)
		terms[k] = lgammaN - alpha + float64(k)*math.Log(base) - lgammaK
	}
	return floats.LogSumExp(terms)
}

func kendallLogPartition(nItems int, alpha float64) float64 {
	n := float64(nItems)
	if alpha == 0 {
		res, _ := math.Lgamma(n + 1)
		return res
	}

	var res float64
	for i := 1; i <= nItems; i++ {
		res += math.Log(-math.Expm1(-float64(i)*alpha/n)) - math.Log(-math.Expm1(-alpha/n))
	}
	return res
}
