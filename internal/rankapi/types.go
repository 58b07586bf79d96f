package rankapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tensorplex-labs/mallows/internal/mallows"
)

const (
	// Server defaults
	DefaultServerHost    = "0.0.0.0"
	DefaultServerPort    = 8888
	DefaultBodyLimit     = 4 * 1024 * 1024 // 4MB
	DefaultMaxIterations = 100_000

	// Client defaults
	DefaultClientTimeout = 30 // seconds
	DefaultRetryMax      = 3
)

const (
	RouteHealth              = "/health"
	RouteDistance            = "/v1/distance"
	RouteAggregate           = "/v1/distance/aggregate"
	RouteAchievableDistances = "/v1/partition/distances"
	RouteAlphaUpdate         = "/v1/alpha/update"
	RouteAlphaChains         = "/v1/alpha/chains"
)

// Server exposes the distance and sampling library over HTTP.
type Server struct {
	App    *fiber.App
	config *ServerConfig
}

type ServerConfig struct {
	Host          string
	Port          int
	BodyLimit     int
	MaxIterations int
}

// StdResponse represents the standardized response structure
type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
}

// RouteHandler handles a decoded request body.
type RouteHandler[Req, Resp any] func(*fiber.Ctx, Req) (Resp, error)

type HealthResponse struct {
	Status string `json:"status"`
}

type DistanceRequest struct {
	R1     []float64 `json:"r1"`
	R2     []float64 `json:"r2"`
	Metric string    `json:"metric"`
}

type DistanceResponse struct {
	Distance float64 `json:"distance"`
}

// AggregateRequest carries one rank vector per observation.
type AggregateRequest struct {
	Rankings  [][]float64 `json:"rankings"`
	Reference []float64   `json:"reference"`
	Metric    string      `json:"metric"`
}

type AggregateResponse struct {
	Total          float64   `json:"total"`
	PerObservation []float64 `json:"per_observation"`
}

type AchievableDistancesRequest struct {
	NItems int    `json:"n_items"`
	Metric string `json:"metric"`
}

type AchievableDistancesResponse struct {
	Distances []float64 `json:"distances"`
}

// AlphaUpdateRequest mirrors mallows.AlphaUpdateParams. Unset alpha and tuning parameters
// take the library defaults and NItems defaults to the consensus length.
type AlphaUpdateRequest struct {
	Alpha        *float64    `json:"alpha,omitempty"`
	NItems       int         `json:"n_items"`
	Rankings     [][]float64 `json:"rankings"`
	Metric       string      `json:"metric"`
	Consensus    []float64   `json:"consensus"`
	LogZEstimate []float64   `json:"logz_estimate,omitempty"`
	AlphaPropSD  *float64    `json:"alpha_prop_sd,omitempty"`
	Lambda       *float64    `json:"lambda,omitempty"`
	AlphaMax     *float64    `json:"alpha_max,omitempty"`
	Seed         uint64      `json:"seed"`
}

type AlphaUpdateResponse struct {
	Alpha    float64 `json:"alpha"`
	Proposal float64 `json:"proposal"`
	LogRatio float64 `json:"log_ratio"`
	Accepted bool    `json:"accepted"`
}

type AlphaChainsRequest struct {
	AlphaUpdateRequest
	Iterations int      `json:"iterations"`
	Seeds      []uint64 `json:"seeds"`
}

type AlphaChainsResponse struct {
	Chains []mallows.ChainResult `json:"chains"`
}
