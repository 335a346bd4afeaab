package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/platform/logger"
)

// Dependency states reported by CheckUpTime.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// ProbeTimeout bounds each dependency probe.
const ProbeTimeout = 2 * time.Second

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus reports the state of each dependency.
type HealthStatus struct {
	Redis string `json:"redis"`
	DB    string `json:"db"`
}

// HealthService checks the application's dependencies.
type HealthService interface {
	// CheckUpTime probes every dependency. Probe failures are reported in the
	// status, not as an error; an error means the check itself was abandoned.
	CheckUpTime(ctx context.Context) (HealthStatus, error)
}

type healthServiceImpl struct {
	db     Pinger
	cache  Pinger
	logger *slog.Logger
}

// NewHealthService creates a new HealthService.
// It returns an error if any of the probes are nil.
func NewHealthService(db Pinger, cache Pinger, logger *slog.Logger) (HealthService, error) {
	if db == nil {
		return nil, errors.New("db probe cannot be nil")
	}
	if cache == nil {
		return nil, errors.New("cache probe cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &healthServiceImpl{
		db:     db,
		cache:  cache,
		logger: logger.With("component", "health_service"),
	}, nil
}

// CheckUpTime probes the database and the cache concurrently.
func (s *healthServiceImpl) CheckUpTime(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		status.DB = s.probe(ctx, "db", s.db)
	}()
	go func() {
		defer wg.Done()
		status.Redis = s.probe(ctx, "redis", s.cache)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return status, err
	}
	return status, nil
}

func (s *healthServiceImpl) probe(ctx context.Context, name string, p Pinger) string {
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	if err := p.Ping(probeCtx); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("dependency probe failed",
			"dependency", name,
			"error", err)
		return StatusUnhealthy
	}
	return StatusHealthy
}
