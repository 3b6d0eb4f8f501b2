package middleware

import (
	"github.com/NomadCrew/nomad-diary-backend/config"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the response headers every JSON endpoint
// carries. HSTS is only sent in production so local HTTP keeps working.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	production := cfg.IsProduction()
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// Share links carry their token in the path.
		h.Set("Cache-Control", "no-store")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		if production {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
