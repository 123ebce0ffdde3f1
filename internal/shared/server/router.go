package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"claims-intake/internal/records"
	"claims-intake/internal/services/health"
	"claims-intake/internal/shared/config"
	"claims-intake/internal/shared/metrics"
	"claims-intake/internal/shared/server/middleware"
)

// RouterDeps holds handlers wired into the router.
type RouterDeps struct {
	Config         config.Config
	Templates      *template.Template
	RecordsHandler *records.Handler
	Health         *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 10 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
	)
	if deps.Templates != nil {
		r.SetHTMLTemplate(deps.Templates)
	}

	if deps.Health != nil {
		r.GET("/healthz", deps.Health.Handler())
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api", middleware.CORS(deps.Config.CORSAllowOrigin))
	api.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	if deps.RecordsHandler != nil {
		deps.RecordsHandler.RegisterRoutes(r)
		deps.RecordsHandler.RegisterAPIRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
