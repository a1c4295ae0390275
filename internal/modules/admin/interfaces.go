package admin

import (
	"context"
	"time"

	"ticketadmin/internal/domain"
	"ticketadmin/internal/repository"
)

type UserRepository interface {
	GetByIDWithTrashed(ctx context.Context, id int64) (*domain.User, error)
	SaveLifecycle(ctx context.Context, u *domain.User) error
	ForceDelete(ctx context.Context, id int64) error
	ListNonAdmins(ctx context.Context, f repository.UserFilter) ([]domain.User, error)
}

type LoginHistoryRepository interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.LoginHistory, error)
	LatestLogins(ctx context.Context, userIDs []int64) (map[int64]time.Time, error)
}

type AuditLogger interface {
	Info(ctx context.Context, action string, actorID, targetID int64, reason string)
	Warn(ctx context.Context, action string, actorID, targetID int64, reason string)
}

type TransitionRecorder interface {
	Transition(name string, err error)
}

// Authorizer is satisfied by *authz.Gate.
type Authorizer interface {
	Authorize(ctx context.Context, u *domain.User, perm string) error
}
