package middleware

import (
	"strings"

	"marketplace-backend/internal/shared/response"
	"marketplace-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
	ClaimsKey   = "claims"
)

// AuthMiddleware requires a valid "Bearer <token>" header and puts the caller identity on the context.
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("token rejected")
			response.Unauthorized(c, "invalid token")
			return
		}

		if claims.UserID == "" {
			response.Unauthorized(c, "invalid user ID in token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}
