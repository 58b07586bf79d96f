package mallows

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// LogLikelihood is the unnormalized Mallows log-likelihood -alpha/n * sum of distances to
// the consensus. Passing a difference of scales yields the difference of log-likelihoods.
func LogLikelihood(alpha float64, consensus []float64, nItems int, rankings *mat.Dense, metric rankdist.Metric) (float64, error) {
	total, err := rankdist.TotalDistance(rankings, consensus, metric)
	if err != nil {
		return 0, err
	}
	return -alpha / float64(nItems) * total, nil
}
