package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"claims-intake/internal/shared/server/respond"
	"claims-intake/internal/shared/telemetry"
)

// Recovery recovers from panics. JSON routes get the error envelope, pages
// get a plain-text body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				if strings.HasPrefix(c.Request.URL.Path, "/api/") {
					respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
					return
				}
				respond.Text(c, http.StatusInternalServerError, "internal", "Unexpected server error")
			}
		}()
		c.Next()
	}
}
