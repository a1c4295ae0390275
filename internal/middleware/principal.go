package middleware

import (
	"github.com/gin-gonic/gin"

	"ticketadmin/internal/domain"
	"ticketadmin/internal/pkg/jwt"
)

const (
	ctxUserID    = "user_id"
	ctxPrincipal = "principal"
	ctxClaims    = "claims"
)

// Principal returns the authenticated user stored by JWTAuth.
func Principal(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

// MustPrincipal is for handlers mounted behind JWTAuth.
func MustPrincipal(c *gin.Context) *domain.User {
	u, ok := Principal(c)
	if !ok {
		panic("middleware: no principal in context, route is missing JWTAuth")
	}
	return u
}

func Claims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// SetPrincipal stores u the same way JWTAuth does. Handler tests use it to skip token handling.
func SetPrincipal(c *gin.Context, u *domain.User) {
	c.Set(ctxUserID, u.ID)
	c.Set(ctxPrincipal, u)
}
