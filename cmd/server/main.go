package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/mallows/internal/config"
	"github.com/tensorplex-labs/mallows/internal/rankapi"
	"github.com/tensorplex-labs/mallows/internal/utils/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()
	log.Info().Msg("Starting rank api server...")

	// setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	server := rankapi.NewServer(rankapi.NewServerConfig(cfg.ServerEnvConfig))
	if err := server.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}
