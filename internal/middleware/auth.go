package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/requestdata"
	"github.com/plately/plately-backend/internal/services"
)

// RequireAuth validates the bearer token and stashes the resolved request
// data on the request context for downstream handlers.
func RequireAuth(authService services.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		ctx, err := authService.SetContextFromToken(c.Request.Context(), parts[1])
		if err != nil {
			log.Debug("token rejected", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if rt := c.GetHeader("X-Refresh-Token"); rt != "" {
			if rd := requestdata.GetRequestData(ctx); rd != nil {
				rd.RefreshToken = rt
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
