package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"orderdesk/internal/caching"
	"orderdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db      Pinger
	cache   caching.CacheService
	storage services.ObjectStorage
	bucket  string
	version string
	started time.Time
}

func NewHealthHandlers(db Pinger, cache caching.CacheService, storage services.ObjectStorage, bucket, version string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		storage: storage,
		bucket:  bucket,
		version: version,
		started: time.Now(),
	}
}

// HealthCheck reports liveness only.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type dependencyCheck struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// DetailedHealthCheck pings every dependency. Only the database is critical; a failing cache or
// object store degrades the report without failing it.
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	checks := map[string]dependencyCheck{
		"database": checkDependency(ctx, h.db.Ping),
		"redis":    checkDependency(ctx, h.cache.Ping),
	}
	if h.storage != nil && h.bucket != "" {
		checks["storage"] = checkDependency(ctx, func(ctx context.Context) error {
			_, err := h.storage.BucketExists(ctx, h.bucket)
			return err
		})
	}

	overall, code := "healthy", http.StatusOK
	for name, check := range checks {
		if check.Status == "healthy" {
			continue
		}
		if name == "database" {
			overall, code = "unhealthy", http.StatusServiceUnavailable
			break
		}
		overall = "degraded"
	}

	return c.JSON(code, map[string]interface{}{
		"overall_status": overall,
		"checks":         checks,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"version":        h.version,
		"uptime":         time.Since(h.started).Round(time.Second).String(),
		"goroutines":     runtime.NumGoroutine(),
	})
}

func checkDependency(ctx context.Context, ping func(context.Context) error) dependencyCheck {
	start := time.Now()
	err := ping(ctx)
	check := dependencyCheck{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = "unhealthy"
		check.Message = err.Error()
	}
	return check
}
