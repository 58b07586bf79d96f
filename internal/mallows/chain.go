package mallows

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// maxTracePrealloc bounds the trace capacity reserved up front; longer chains grow it.
const maxTracePrealloc = 1 << 16

// NewRandomSource returns a PCG-backed source for seed. Chains given different seeds draw
// from independent streams.
func NewRandomSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RunChain repeatedly updates alpha with the consensus held fixed and records the value
// after every iteration. The context is checked between iterations.
func RunChain(ctx context.Context, sampler *AlphaSampler, p AlphaUpdateParams, iterations int) (ChainResult, error) {
	if iterations < 1 {
		return ChainResult{}, fmt.Errorf("%w: iterations must be positive, got %d", rankdist.ErrInvalidArgument, iterations)
	}

	result := ChainResult{
		Iterations: iterations,
		Trace:      make([]float64, 0, min(iterations, maxTracePrealloc)),
	}

	for i := range iterations {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("chain stopped at iteration %d: %w", i, err)
		}

		step, err := sampler.Step(p)
		if err != nil {
			return result, fmt.Errorf("iteration %d: %w", i, err)
		}

		if step.Accepted {
			result.Accepted++
		}
		p.Alpha = step.Alpha
		result.Trace = append(result.Trace, step.Alpha)
	}

	return result, nil
}

// RunChains runs one chain per seed in parallel. Each chain owns its random source, so the
// results depend only on the seeds.
func RunChains(ctx context.Context, p AlphaUpdateParams, iterations int, seeds []uint64, opts ...AlphaSamplerOption) ([]ChainResult, error) {
	results := make([]ChainResult, len(seeds))
	g, gctx := errgroup.WithContext(ctx)

	for i, seed := range seeds {
		g.Go(func() error {
			startTime := time.Now()
			sampler := NewAlphaSampler(NewRandomSource(seed), opts...)

			res, err := RunChain(gctx, sampler, p, iterations)
			if err != nil {
				return fmt.Errorf("chain %d (seed %d): %w", i, seed, err)
			}
			res.Seed = seed
			results[i] = res

			log.Debug().
				Int("chain", i).
				Uint64("seed", seed).
				Int("accepted", res.Accepted).
				Float64("final_alpha", res.Trace[len(res.Trace)-1]).
				Dur("elapsed", time.Since(startTime)).
				Msg("chain finished")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
