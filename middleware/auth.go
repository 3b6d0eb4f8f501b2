package middleware

import (
	"errors"
	"strings"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid Supabase access token and stores the
// subject under UserIDKey. Browsers cannot set headers on WebSocket upgrades,
// so those requests may pass the token as the "token" query parameter.
func AuthMiddleware(v Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && isWebSocketUpgrade(c) {
			token = c.Query("token")
		}
		if token == "" {
			_ = c.Error(apperrors.Unauthorized("missing_token", "Authorization required"))
			c.Abort()
			return
		}

		userID, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			log.Warnw("Rejected access token",
				"error", err,
				"path", c.Request.URL.Path,
				"clientIP", c.ClientIP(),
				"token", logger.MaskJWT(token))

			if errors.Is(err, ErrTokenExpired) {
				_ = c.Error(apperrors.Unauthorized("token_expired", "Your session has expired"))
			} else {
				_ = c.Error(apperrors.Unauthorized("invalid_token", "Invalid authentication token"))
			}
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), userID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func isWebSocketUpgrade(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Connection")), "upgrade") &&
		strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}
