package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/tensorplex-labs/mallows/internal/config"
	"github.com/tensorplex-labs/mallows/internal/dataset"
	"github.com/tensorplex-labs/mallows/internal/mallows"
	"github.com/tensorplex-labs/mallows/internal/rankapi"
	"github.com/tensorplex-labs/mallows/internal/utils/logger"
)

var (
	input  = flag.String("input", "", "path to the ranking dataset (overrides SAMPLER_INPUT)")
	output = flag.String("output", "", "path for the trace output (overrides SAMPLER_OUTPUT)")
	burnin = flag.Int("burnin", 0, "iterations dropped from each chain before summarising")
	remote = flag.Bool("remote", false, "run the chains on the rank api at CLIENT_BASE_URL")
)

func main() {
	logger.Init()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	inputPath := cfg.Input
	if *input != "" {
		inputPath = *input
	}
	if inputPath == "" {
		log.Fatal().Msg("no dataset given; set SAMPLER_INPUT or pass --input")
	}
	outputPath := cfg.Output
	if *output != "" {
		outputPath = *output
	}

	ds, err := dataset.Load(inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", inputPath).Msg("failed to load dataset")
	}

	base := mallows.DefaultAlphaParams()
	base.AlphaPropSD = cfg.AlphaPropSD
	base.Lambda = cfg.Lambda
	base.AlphaMax = cfg.AlphaMax

	params, err := ds.Params(base)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid dataset")
	}

	seeds := cfg.ChainSeeds()
	log.Info().
		Str("metric", params.Metric.String()).
		Int("n_items", params.NItems).
		Int("iterations", cfg.Iterations).
		Int("chains", len(seeds)).
		Msg("Starting alpha chains")

	var chains []mallows.ChainResult
	if *remote {
		chains, err = runRemote(ctx, cfg.ClientEnvConfig, ds, base, cfg.Iterations, seeds)
	} else {
		chains, err = mallows.RunChains(ctx, params, cfg.Iterations, seeds)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("alpha chains failed")
	}

	sugar := logger.Sugar()
	for _, chain := range chains {
		kept := chain.Trace
		if *burnin > 0 && *burnin < len(kept) {
			kept = kept[*burnin:]
		}
		mean, sd := stat.MeanStdDev(kept, nil)
		sugar.Infow("chain summary",
			"seed", chain.Seed,
			"acceptance", float64(chain.Accepted)/float64(chain.Iterations),
			"alpha_mean", mean,
			"alpha_sd", sd,
		)
	}

	raw, err := sonic.Marshal(chains)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode trace")
	}

	if outputPath == "" {
		if _, err := os.Stdout.Write(append(raw, '\n')); err != nil {
			log.Fatal().Err(err).Msg("failed to write trace")
		}
		return
	}
	if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", outputPath).Msg("failed to write trace")
	}
	log.Info().Str("path", outputPath).Msg("Trace written")
}

func runRemote(
	ctx context.Context,
	clientCfg config.ClientEnvConfig,
	ds *dataset.Dataset,
	base mallows.AlphaUpdateParams,
	iterations int,
	seeds []uint64,
) ([]mallows.ChainResult, error) {
	client, err := rankapi.NewClient(rankapi.NewClientConfig(clientCfg))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	alpha := base.Alpha
	if ds.Alpha != 0 {
		alpha = ds.Alpha
	}

	resp, err := client.RunChains(ctx, rankapi.AlphaChainsRequest{
		AlphaUpdateRequest: rankapi.AlphaUpdateRequest{
			Alpha:        &alpha,
			NItems:       len(ds.Consensus),
			Rankings:     ds.Rankings,
			Metric:       ds.Metric,
			Consensus:    ds.Consensus,
			LogZEstimate: ds.LogZEstimate,
			AlphaPropSD:  &base.AlphaPropSD,
			Lambda:       &base.Lambda,
			AlphaMax:     &base.AlphaMax,
		},
		Iterations: iterations,
		Seeds:      seeds,
	})
	if err != nil {
		return nil, err
	}
	return resp.Chains, nil
}
