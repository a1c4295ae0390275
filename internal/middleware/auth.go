package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ticketadmin/internal/domain"
	"ticketadmin/internal/pkg/jwt"
	"ticketadmin/internal/pkg/response"
)

type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTAuth resolves the bearer token into a live principal. Tokens revoked by
// logout, soft-deleted accounts, blocked accounts and accounts waiting for
// approval are turned away, the same way login refuses them.
func JWTAuth(jwtService *jwt.Service, users UserLoader, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			response.Internal(c, err)
			c.Abort()
			return
		}
		if isRevoked {
			response.Error(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
			c.Abort()
			return
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}
		if err != nil {
			response.Internal(c, err)
			c.Abort()
			return
		}

		if user.IsBlocked || user.Status == domain.StatusBlocked {
			response.Error(c, http.StatusForbidden, "ACCOUNT_BLOCKED", "Your account has been blocked.")
			c.Abort()
			return
		}
		if user.Status == domain.StatusPendingApproval {
			response.Error(c, http.StatusForbidden, "ACCOUNT_PENDING", "Your account is awaiting approval.")
			c.Abort()
			return
		}

		logger := zerolog.Ctx(ctx).With().Int64("principal_id", user.ID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx))

		SetPrincipal(c, user)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}
