package rankapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/tensorplex-labs/mallows/internal/mallows"
	"github.com/tensorplex-labs/mallows/internal/partition"
	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

func (s *Server) handleDistance(_ *fiber.Ctx, req DistanceRequest) (DistanceResponse, error) {
	metric, err := rankdist.ParseMetric(req.Metric)
	if err != nil {
		return DistanceResponse{}, err
	}

	d, err := rankdist.Distance(req.R1, req.R2, metric)
	if err != nil {
		return DistanceResponse{}, err
	}
	return DistanceResponse{Distance: d}, nil
}

func (s *Server) handleAggregate(_ *fiber.Ctx, req AggregateRequest) (AggregateResponse, error) {
	metric, err := rankdist.ParseMetric(req.Metric)
	if err != nil {
		return AggregateResponse{}, err
	}

	rankings, err := rankdist.NewRankingMatrix(req.Rankings)
	if err != nil {
		return AggregateResponse{}, err
	}

	per, err := rankdist.PerObservationDistance(rankings, req.Reference, metric)
	if err != nil {
		return AggregateResponse{}, err
	}

	return AggregateResponse{Total: floats.Sum(per), PerObservation: per}, nil
}

func (s *Server) handleAchievableDistances(_ *fiber.Ctx, req AchievableDistancesRequest) (AchievableDistancesResponse, error) {
	metric, err := rankdist.ParseMetric(req.Metric)
	if err != nil {
		return AchievableDistancesResponse{}, err
	}

	distances, err := partition.AchievableDistances(req.NItems, metric)
	if err != nil {
		return AchievableDistancesResponse{}, err
	}
	return AchievableDistancesResponse{Distances: distances}, nil
}

func (s *Server) handleAlphaUpdate(_ *fiber.Ctx, req AlphaUpdateRequest) (AlphaUpdateResponse, error) {
	p, err := req.toParams()
	if err != nil {
		return AlphaUpdateResponse{}, err
	}

	step, err := mallows.NewAlphaSampler(mallows.NewRandomSource(req.Seed)).Step(p)
	if err != nil {
		return AlphaUpdateResponse{}, err
	}

	return AlphaUpdateResponse{
		Alpha:    step.Alpha,
		Proposal: step.Proposal,
		LogRatio: step.LogRatio,
		Accepted: step.Accepted,
	}, nil
}

func (s *Server) handleAlphaChains(c *fiber.Ctx, req AlphaChainsRequest) (AlphaChainsResponse, error) {
	if req.Iterations < 1 || len(req.Seeds) == 0 || req.Iterations > s.config.MaxIterations/len(req.Seeds) {
		return AlphaChainsResponse{}, fmt.Errorf("%w: need iterations >= 1 and at least one seed, with at most %d iterations in total",
			rankdist.ErrInvalidArgument, s.config.MaxIterations)
	}

	p, err := req.toParams()
	if err != nil {
		return AlphaChainsResponse{}, err
	}

	chains, err := mallows.RunChains(c.UserContext(), p, req.Iterations, req.Seeds)
	if err != nil {
		return AlphaChainsResponse{}, err
	}
	return AlphaChainsResponse{Chains: chains}, nil
}
