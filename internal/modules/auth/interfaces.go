package auth

import (
	"context"
	"time"

	"ticketadmin/internal/domain"
	"ticketadmin/internal/pkg/jwt"
)

// UserRepository lists only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type LoginHistoryRepository interface {
	Append(ctx context.Context, h *domain.LoginHistory) error
}

type TokenRepository interface {
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
}

type TeamRoleReader interface {
	GetByID(ctx context.Context, id int64) (*domain.TeamRole, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, isAdmin bool) (string, *jwt.Claims, error)
	ExpiresAt(claims *jwt.Claims) time.Time
}

// AccessResolver is satisfied by *authz.Gate.
type AccessResolver interface {
	IsSuperAdmin(ctx context.Context, u *domain.User) (bool, error)
	EffectivePermissions(ctx context.Context, u *domain.User) ([]string, error)
}
