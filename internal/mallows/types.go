package mallows

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// RandomSource supplies the two draws an alpha update consumes. *rand.Rand from
// math/rand/v2 satisfies it.
type RandomSource interface {
	NormFloat64() float64
	Float64() float64
}

// LikelihoodFunc evaluates the Mallows log-likelihood of rankings at scale alpha.
type LikelihoodFunc func(alpha float64, consensus []float64, nItems int, rankings *mat.Dense, metric rankdist.Metric) (float64, error)

// PartitionFunc evaluates the log normalizing constant at scale alpha.
type PartitionFunc func(nItems int, alpha float64, cardinalities, logzEstimate []float64, metric rankdist.Metric) (float64, error)

// AlphaUpdateParams holds the inputs of one Metropolis-Hastings update of alpha.
type AlphaUpdateParams struct {
	Alpha        float64         // current scale, strictly positive
	NItems       int             // number of ranked items
	Rankings     *mat.Dense      // NItems x N, one observation per column
	Metric       rankdist.Metric // distance used by the model
	Consensus    []float64       // current consensus ranking rho
	LogZEstimate []float64       // optional polynomial estimate of log Z(alpha)
	AlphaPropSD  float64         // sd of the log-normal proposal
	Lambda       float64         // rate of the truncated exponential prior
	AlphaMax     float64         // truncation point of the prior
}

// AlphaStep records the outcome of a single update.
type AlphaStep struct {
	Alpha    float64 // value after the step
	Proposal float64 // proposed alpha'
	LogRatio float64 // log acceptance ratio
	Accepted bool
}

// ChainResult is the trace of one alpha-only chain.
type ChainResult struct {
	Seed       uint64    `json:"seed"`
	Iterations int       `json:"iterations"`
	Accepted   int       `json:"accepted"`
	Trace      []float64 `json:"trace"`
}
