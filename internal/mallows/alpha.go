// Package mallows implements the Metropolis-Hastings update of the Mallows scale parameter.
package mallows

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/mallows/internal/partition"
	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

type AlphaSampler struct {
	rng          RandomSource
	logLik       LikelihoodFunc
	logPartition PartitionFunc
}

type AlphaSamplerOption func(*AlphaSampler)

// WithLikelihood replaces the default log-likelihood evaluator.
func WithLikelihood(f LikelihoodFunc) AlphaSamplerOption {
	return func(s *AlphaSampler) {
		s.logLik = f
	}
}

// WithPartition replaces the default partition function evaluator.
func WithPartition(f PartitionFunc) AlphaSamplerOption {
	return func(s *AlphaSampler) {
		s.logPartition = f
	}
}

func NewAlphaSampler(rng RandomSource, opts ...AlphaSamplerOption) *AlphaSampler {
	s := &AlphaSampler{
		rng:          rng,
		logLik:       LogLikelihood,
		logPartition: partition.LogPartition,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// UpdateAlpha performs one update with the default collaborators and returns the new alpha.
func UpdateAlpha(rng RandomSource, p AlphaUpdateParams) (float64, error) {
	step, err := NewAlphaSampler(rng).Step(p)
	if err != nil {
		return 0, err
	}
	return step.Alpha, nil
}

// Update returns the accepted proposal or the unchanged alpha.
func (s *AlphaSampler) Update(p AlphaUpdateParams) (float64, error) {
	step, err := s.Step(p)
	if err != nil {
		return 0, err
	}
	return step.Alpha, nil
}

// Step proposes alpha' on the log scale and accepts it with the Metropolis-Hastings
// probability under the truncated exponential prior. It draws one normal and one uniform
// variate per call. Proposals at or above AlphaMax are always rejected.
func (s *AlphaSampler) Step(p AlphaUpdateParams) (AlphaStep, error) {
	if err := validateParams(p); err != nil {
		return AlphaStep{}, err
	}

	z := s.rng.NormFloat64()
	alphaPrimeLog := z*p.AlphaPropSD + math.Log(p.Alpha)
	alphaPrime := math.Exp(alphaPrimeLog)

	loglikDiff, err := s.logLik(alphaPrime-p.Alpha, p.Consensus, p.NItems, p.Rankings, p.Metric)
	if err != nil {
		return AlphaStep{}, fmt.Errorf("log-likelihood: %w", err)
	}

	logzAlpha, err := s.logPartition(p.NItems, p.Alpha, nil, p.LogZEstimate, p.Metric)
	if err != nil {
		return AlphaStep{}, fmt.Errorf("log partition at alpha: %w", err)
	}
	logzAlphaPrime, err := s.logPartition(p.NItems, alphaPrime, nil, p.LogZEstimate, p.Metric)
	if err != nil {
		return AlphaStep{}, fmt.Errorf("log partition at proposal: %w", err)
	}

	rows, cols := p.Rankings.Dims()
	obsFreq := float64(rows*cols) / float64(p.NItems)

	// log(alpha') - log(alpha) is the Jacobian of the log-scale proposal.
	loga := loglikDiff +
		p.Lambda*(p.Alpha-alphaPrime) +
		obsFreq*(logzAlpha-logzAlphaPrime) +
		math.Log(alphaPrime) - math.Log(p.Alpha)

	u := s.rng.Float64()
	accepted := math.Log(u) <= loga && alphaPrime < p.AlphaMax

	step := AlphaStep{
		Alpha:    p.Alpha,
		Proposal: alphaPrime,
		LogRatio: loga,
		Accepted: accepted,
	}
	if accepted {
		step.Alpha = alphaPrime
	}

	log.Trace().
		Float64("alpha", p.Alpha).
		Float64("proposal", alphaPrime).
		Float64("log_ratio", loga).
		Bool("accepted", accepted).
		Msg("alpha step")

	return step, nil
}

func validateParams(p AlphaUpdateParams) error {
	if !(p.Alpha > 0) || math.IsInf(p.Alpha, 1) {
		return fmt.Errorf("%w: alpha must be positive and finite, got %v", rankdist.ErrInvalidArgument, p.Alpha)
	}
	if p.NItems < 1 {
		return fmt.Errorf("%w: n_items must be positive, got %d", rankdist.ErrInvalidArgument, p.NItems)
	}
	if !p.Metric.Valid() {
		return fmt.Errorf("%w: %q", rankdist.ErrUnsupportedMetric, string(p.Metric))
	}
	if p.Rankings == nil {
		return fmt.Errorf("%w: rankings are required", rankdist.ErrInvalidArgument)
	}

	rows, _ := p.Rankings.Dims()
	if rows != p.NItems {
		return fmt.Errorf("%w: rankings have %d items, n_items is %d", rankdist.ErrDimensionMismatch, rows, p.NItems)
	}
	if len(p.Consensus) != p.NItems {
		return fmt.Errorf("%w: consensus has %d items, n_items is %d", rankdist.ErrDimensionMismatch, len(p.Consensus), p.NItems)
	}
	return nil
}
