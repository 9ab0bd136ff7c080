package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfoliocms/internal/pkg/jwt"
	"portfoliocms/internal/pkg/response"
)

const (
	// SessionCookie carries the signed session token set at login.
	SessionCookie = "session"

	ctxAdminID  = "admin_id"
	ctxUsername = "username"
)

// SessionGate rejects every request without a valid session token with 401.
// The token is read from the session cookie or an "Authorization: Bearer"
// header; the handler is never reached otherwise.
func SessionGate(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			response.CustomError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ctxAdminID, claims.AdminID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AdminID returns the id of the logged-in admin, 0 outside the gate.
func AdminID(c *gin.Context) uint {
	if v, ok := c.Get(ctxAdminID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// Username returns the logged-in admin's name, "" outside the gate.
func Username(c *gin.Context) string {
	return c.GetString(ctxUsername)
}
