package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/incvoting/voting-api/internal/response"
	"github.com/incvoting/voting-api/internal/services"
)

// SessionCookie is the cookie the admin session token is stored in.
const SessionCookie = "admin_session"

// RequireAdmin rejects requests without a valid admin session. The token is
// read from the session cookie or a Bearer Authorization header.
func RequireAdmin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)

		username, err := auth.ValidateSession(token)
		if err != nil {
			response.UnauthorizedError(c, "Authentication required")
			c.Abort()
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
