package server

import (
	"context"
	"errors"
	"time"
)

// healthCheckTimeout bounds a single dependency check.
const healthCheckTimeout = 5 * time.Second

var errNotConnected = errors.New("database not connected")

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Healthy      bool          `json:"healthy"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
}

// HealthReport is what CheckHealth returns to the caller's health endpoint.
type HealthReport struct {
	Healthy     bool                   `json:"healthy"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth pings the database and reports the result.
//
// Failures are logged and, when New Relic is enabled, recorded as a
// HealthCheckError custom event.
func (s *Server) CheckHealth(ctx context.Context) HealthReport {
	start := time.Now()
	log := s.Logger.With().Str("operation", "health_check").Logger()

	report := HealthReport{
		Healthy:   true,
		Timestamp: start.UTC(),
		Checks:    make(map[string]CheckResult, 1),
	}
	if s.Config != nil {
		report.Environment = s.Config.Primary.Env
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	dbStart := time.Now()
	err := errNotConnected
	if s.DB != nil && s.DB.Pool != nil {
		err = s.DB.Pool.Ping(pingCtx)
	}
	elapsed := time.Since(dbStart)

	if err != nil {
		report.Healthy = false
		report.Checks["database"] = CheckResult{ResponseTime: elapsed, Error: err.Error()}

		log.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msg("database health check failed")

		if app := s.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       "database",
				"operation":        "health_check",
				"error_type":       "database_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}

		return report
	}

	report.Checks["database"] = CheckResult{Healthy: true, ResponseTime: elapsed}

	log.Info().
		Dur("response_time", elapsed).
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return report
}
