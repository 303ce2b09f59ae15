package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/store"
)

// RequireRole allows the request through only when the authenticated
// user holds one of the given roles. Must run after RequireAuth. The
// role is read from the database, not the token, so demotions take
// effect immediately.
func RequireRole(s *store.Store, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDRaw, ok := c.Get("userID")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access denied. Please login first.",
			})
			return
		}
		userID := userIDRaw.(int64)

		role, err := s.UserRole(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"success": false,
					"message": "User not found.",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error occurred.",
			})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Set("userRole", role)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied. Only " + strings.Join(roles, ", ") + " can access this endpoint.",
		})
	}
}
