package middleware

import (
	"womart-storefront/auth"
	apperrors "womart-storefront/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole guards role-prefixed sections (/admin, /fornecedor, /usuario).
// Guests are sent to the login page and users of another role to the
// unauthorized page. Public paths pass through.
func RequireRole(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		required, guarded := auth.RequiredRole(c.Request.URL.Path)
		if !guarded {
			c.Next()
			return
		}

		role := CurrentRole(c)
		switch {
		case role == auth.RoleGuest:
			deny(c, apperrors.ErrUnauthorized, auth.PathLogin)
		case role != required:
			logger.Warn("Access denied",
				zap.String("path", c.Request.URL.Path),
				zap.String("role", role.String()),
				zap.String("required", required.String()),
			)
			deny(c, apperrors.ErrForbidden, auth.PathUnauthorized)
		default:
			c.Next()
		}
	}
}

func deny(c *gin.Context, err *apperrors.Error, redirect string) {
	c.AbortWithStatusJSON(err.Code, gin.H{
		"error":    err.Message,
		"code":     err.Code,
		"redirect": redirect,
	})
}
