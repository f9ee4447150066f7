package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the caller from a Bearer token or, failing that, the
// session cookie. Anonymous requests pass through; a bad token is rejected.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
				c.Abort()
				return
			}
			c.Set(utils.ContextUserID, claims.UserID)
			c.Set(utils.ContextRole, claims.Role)
			c.Next()
			return
		}

		if id := utils.SessionValue(c, utils.SessionAccountKey); id != "" {
			c.Set(utils.ContextUserID, id)
			c.Set(utils.ContextRole, utils.SessionValue(c, utils.SessionRoleKey))
		}
		c.Next()
	}
}

// LoginRequired sends anonymous browsers to the login page with a next parameter.
func LoginRequired(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.CurrentUserID(c); ok {
			c.Next()
			return
		}
		target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// RoleMiddleware hides routes from callers without the role. It answers 404
// rather than 403 so the route's existence is not confirmed.
func RoleMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(utils.ContextRole) != requiredRole {
			utils.RespondError(c, http.StatusNotFound, "Not found")
			c.Abort()
			return
		}
		c.Next()
	}
}
