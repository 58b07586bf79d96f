// Package config defines environment configuration structs and loaders.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	SamplerEnvConfig
	ServerEnvConfig
	ClientEnvConfig
	Environment string `env:"ENVIRONMENT, default=prod"`
}

func LoadConfig(ctx context.Context) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// SamplerEnvConfig configures the alpha chains run by cmd/sampler.
type SamplerEnvConfig struct {
	Input       string   `env:"SAMPLER_INPUT"`
	Output      string   `env:"SAMPLER_OUTPUT"`
	Iterations  int      `env:"SAMPLER_ITERATIONS, default=2000"`
	Chains      int      `env:"SAMPLER_CHAINS, default=4"`
	Seed        uint64   `env:"SAMPLER_SEED, default=1"`
	AlphaPropSD float64  `env:"ALPHA_PROP_SD, default=0.1"`
	Lambda      float64  `env:"ALPHA_LAMBDA, default=0.1"`
	AlphaMax    float64  `env:"ALPHA_MAX, default=1000000"`
	Seeds       []uint64 `env:"SAMPLER_SEEDS"`
}

// ChainSeeds returns the explicit seeds if set, otherwise Chains consecutive seeds
// starting at Seed.
func (c SamplerEnvConfig) ChainSeeds() []uint64 {
	if len(c.Seeds) > 0 {
		return c.Seeds
	}

	seeds := make([]uint64, c.Chains)
	for i := range seeds {
		seeds[i] = c.Seed + uint64(i)
	}
	return seeds
}

// ServerEnvConfig configures the HTTP API server.
type ServerEnvConfig struct {
	Host          string `env:"SERVER_HOST, default=0.0.0.0"`
	Port          int    `env:"SERVER_PORT, default=8888"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT, default=4194304"`
	MaxIterations int    `env:"SERVER_MAX_ITERATIONS, default=100000"`
}


// ClientEnvConfig configures the HTTP API client.
type ClientEnvConfig struct {
	BaseURL       string        `env:"CLIENT_BASE_URL, default=http://127.0.0.1:8888"`
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT, default=30s"`
	RetryMax      int           `env:"CLIENT_RETRY_MAX, default=3"`
}
