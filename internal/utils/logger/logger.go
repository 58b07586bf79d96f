// Package logger provides a global logger for the application
package logger

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/zap"
)

var Logger = zap.NewNop()

var (
	debug = flag.Bool("debug", false, "sets log level to debug")
	trace = flag.Bool("trace", false, "sets log level to trace")
	info  = flag.Bool("info", false, "sets log level to info (default)")
)

func initLogger() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	if !flag.Parsed() {
		flag.Parse()
	}

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "prod"
	}

	logLevel := levelForEnvironment(environment)

	if *debug {
		logLevel = zerolog.DebugLevel
		log.Info().Msg("Debug flag detected - overriding environment log level")
	} else if *trace {
		logLevel = zerolog.TraceLevel
		log.Info().Msg("Trace flag detected - overriding environment log level")
	} else if *info {
		logLevel = zerolog.InfoLevel
		log.Info().Msg("Info flag detected - overriding environment log level")
	}

	zerolog.SetGlobalLevel(logLevel)
	Logger = newZapLogger(environment)

	switch logLevel {
	case zerolog.DebugLevel:
		log.Debug().Str("environment", environment).Msg("Debug logging enabled")
	case zerolog.TraceLevel:
		log.Trace().Str("environment", environment).Msg("Trace logging enabled")
	case zerolog.InfoLevel:
		log.Info().Str("environment", environment).Msg("Info logging enabled")
	}
}

func levelForEnvironment(environment string) zerolog.Level {
	switch environment {
	case "dev", "test":
		log.Info().Str("environment", environment).Msg("Development/Test environment detected - enabling all log levels")
		return zerolog.TraceLevel
	case "prod":
		log.Info().Str("environment", environment).Msg("Production environment detected - enabling info level and above")
		return zerolog.InfoLevel
	default:
		log.Warn().Str("environment", environment).Msg("Unknown environment - defaulting to production log level (info and above)")
		return zerolog.InfoLevel
	}
}

func newZapLogger(environment string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "prod" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to build zap logger, summaries disabled")
		return zap.NewNop()
	}
	return l
}

// Init initializes the logger with the configuration from the environment
// and command line flags. Flags defined by the caller must be registered
// before Init, since Init parses the command line.
// Example usage:
//
//	logger.Init() <- inside whichever main() function in your entrypoint
//
// Then, `go run cmd/sampler/main.go --debug`
func Init() {
	initLogger()
}

// Sugar returns a sugared logger used for run summaries
func Sugar() *zap.SugaredLogger {
	return Logger.Sugar()
}

// Sync flushes the zap logger
func Sync() {
	_ = Logger.Sync()
}
