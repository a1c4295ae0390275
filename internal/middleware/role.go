package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketadmin/internal/authz"
	"ticketadmin/internal/pkg/response"
)

// AdminOnly is the coarse gate in front of every admin route.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := Principal(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}
		if !u.IsAdmin {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission lets the request through when the principal holds perm
// through a role, or holds the Super Admin role.
func RequirePermission(gate *authz.Gate, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := Principal(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		allowed, err := gate.HasPermission(c.Request.Context(), u, perm)
		if err != nil {
			response.Internal(c, err)
			c.Abort()
			return
		}
		if !allowed {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
