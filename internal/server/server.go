// Package server defines the Server container that composes the
// application's shared dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool and bun handle
package server

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/users-service/internal/config"
	"github.com/deppfellow/users-service/internal/database"
	loggerPkg "github.com/deppfellow/users-service/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not an HTTP server; request handling lives upstream and reaches
// the database only through the repositories built from this container.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application, if configured.
	LoggerService *loggerPkg.LoggerService

	DB *database.Database
}

// New constructs a Server and connects to the database.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}, nil
}

// Bootstrap loads configuration, builds the logger and New Relic service,
// and constructs the Server.
func Bootstrap() (*Server, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := loggerPkg.NewLoggerService(cfg.Observability)
	logger := loggerPkg.NewLoggerWithService(cfg.Observability, loggerService)

	s, err := New(cfg, &logger, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, err
	}

	s.Logger.Info().
		Str("env", cfg.Primary.Env).
		Msg("server initialized")

	return s, nil
}

// Shutdown closes the database and flushes New Relic.
//
// Both steps always run; their errors are joined.
func (s *Server) Shutdown() error {
	var errs []error

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	s.LoggerService.Shutdown()

	return errors.Join(errs...)
}
