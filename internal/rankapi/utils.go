package rankapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/tensorplex-labs/mallows/internal/mallows"
	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// createResponse creates a StdResponse with the given body and error
func createResponse[T any](body T, err error) StdResponse[T] {
	if err != nil {
		errMsg := err.Error()
		return StdResponse[T]{
			Body:  body,
			Error: &errMsg,
		}
	}
	return StdResponse[T]{
		Body:  body,
		Error: nil,
	}
}

// statusFor maps library errors to HTTP status codes.
func statusFor(err error) int {
	if rankdist.IsInputError(err) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// toParams converts a request into sampler parameters, filling defaults.
func (r AlphaUpdateRequest) toParams() (mallows.AlphaUpdateParams, error) {
	metric, err := rankdist.ParseMetric(r.Metric)
	if err != nil {
		return mallows.AlphaUpdateParams{}, err
	}

	rankings, err := rankdist.NewRankingMatrix(r.Rankings)
	if err != nil {
		return mallows.AlphaUpdateParams{}, fmt.Errorf("rankings: %w", err)
	}

	p := mallows.DefaultAlphaParams()
	p.Rankings = rankings
	p.Metric = metric
	p.Consensus = r.Consensus
	p.LogZEstimate = r.LogZEstimate
	p.NItems = r.NItems
	if p.NItems == 0 {
		p.NItems = len(r.Consensus)
	}
	if r.Alpha != nil {
		p.Alpha = *r.Alpha
	}
	if r.AlphaPropSD != nil {
		p.AlphaPropSD = *r.AlphaPropSD
	}
	if r.Lambda != nil {
		p.Lambda = *r.Lambda
	}
	if r.AlphaMax != nil {
		p.AlphaMax = *r.AlphaMax
	}
	return p, nil
}
