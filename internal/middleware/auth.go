package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/auth"
)

// TokenCookieName is the cookie the login handlers set.
const TokenCookieName = "token"

// RequireAuth validates the caller's JWT and stores the user ID on the
// context. The token is taken from the Authorization header (Bearer) or,
// failing that, the auth cookie set at login.
func RequireAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Invalid token format (must be Bearer)",
				})
				return
			}
			tokenString = parts[1]
		} else if cookie, err := c.Cookie(TokenCookieName); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication token required",
			})
			return
		}

		userID, err := auth.ValidateToken(jwtSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
