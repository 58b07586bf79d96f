// Package rankapi serves rank distances, partition support and alpha updates over HTTP.
package rankapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/mallows/internal/config"
)

// NewServerConfig builds a ServerConfig from environment configuration.
func NewServerConfig(env config.ServerEnvConfig) *ServerConfig {
	return &ServerConfig{
		Host:          env.Host,
		Port:          env.Port,
		BodyLimit:     env.BodySizeLimit,
		MaxIterations: env.MaxIterations,
	}
}

// Address returns the host:port the server listens on.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewServer creates a server with all routes registered.
func NewServer(serverConfig *ServerConfig) *Server {
	if serverConfig == nil {
		serverConfig = &ServerConfig{}
	}
	if serverConfig.Host == "" {
		serverConfig.Host = DefaultServerHost
	}
	if serverConfig.Port == 0 {
		serverConfig.Port = DefaultServerPort
	}
	if serverConfig.BodyLimit == 0 {
		serverConfig.BodyLimit = DefaultBodyLimit
	}
	if serverConfig.MaxIterations == 0 {
		serverConfig.MaxIterations = DefaultMaxIterations
	}

	log.Info().
		Any("serverConfig", serverConfig).
		Msg("Server configuration loaded")

	app := fiber.New(fiber.Config{
		Prefork:               false,
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		BodyLimit:             serverConfig.BodyLimit,
	})

	app.Use(recover.New()) // add panic recovery
	app.Use(ZstdMiddleware([]string{RouteHealth}, serverConfig.BodyLimit))

	server := &Server{
		App:    app,
		config: serverConfig,
	}

	app.Get(RouteHealth, func(c *fiber.Ctx) error {
		return c.JSON(createResponse(HealthResponse{Status: "ok"}, nil))
	})
	ServeRoute(server, RouteDistance, server.handleDistance)
	ServeRoute(server, RouteAggregate, server.handleAggregate)
	ServeRoute(server, RouteAchievableDistances, server.handleAchievableDistances)
	ServeRoute(server, RouteAlphaUpdate, server.handleAlphaUpdate)
	ServeRoute(server, RouteAlphaChains, server.handleAlphaChains)

	return server
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(createResponse(map[string]any{}, err))
}

// ServeRoute registers a POST handler that decodes Req and replies with a StdResponse.
func ServeRoute[Req, Resp any](s *Server, path string, handler RouteHandler[Req, Resp]) {
	s.App.Post(path, func(c *fiber.Ctx) error {
		var req Req
		if err := c.BodyParser(&req); err != nil {
			log.Error().
				Err(err).
				Str("route", path).
				Msg("Failed to parse request body")
			return c.Status(fiber.StatusBadRequest).
				JSON(createResponse(map[string]any{}, err))
		}

		startTime := time.Now()
		resp, err := handler(c, req)
		if err != nil {
			status := statusFor(err)
			log.Warn().
				Err(err).
				Str("route", path).
				Int("status_code", status).
				Msg("Handler returned error")
			return c.Status(status).JSON(createResponse(map[string]any{}, err))
		}

		log.Debug().
			Str("route", path).
			Dur("elapsed", time.Since(startTime)).
			Msg("Handled request")
		return c.JSON(createResponse(resp, nil))
	})
}

// Start listens on the configured address until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Address()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", ln.Addr().String()).Msg("Server listening")
		errCh <- s.App.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.App.ShutdownWithContext(shutdownCtx)
}
