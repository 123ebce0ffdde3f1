package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"claims-intake/internal/shared/server/respond"
	"claims-intake/internal/shared/telemetry"
)

const checkTimeout = 2 * time.Second

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Check
}

// NewService constructs a health service over the named checks.
func NewService(checks map[string]Check) *Service {
	return &Service{checks: checks}
}

// Status runs every check and reports the per-check result. ok is false when
// any check failed.
func (s *Service) Status(ctx context.Context) (map[string]string, bool) {
	out := make(map[string]string, len(s.checks))
	ok := true
	for name, check := range s.checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check(cctx)
		cancel()
		if err != nil {
			ok = false
			out[name] = "error"
			telemetry.Warn("health.check.failed", map[string]any{"check": name, "err": err})
			continue
		}
		out[name] = "ok"
	}
	return out, ok
}

// Handler answers 200 when every check passes and 503 otherwise.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks, ok := s.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, gin.H{"ok": ok, "checks": checks})
	}
}
