package team

import (
	"context"

	"ticketadmin/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByParent(ctx context.Context, parentID int64) ([]domain.User, error)
	SaveLifecycle(ctx context.Context, u *domain.User) error
	ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64, teamRoleID *int64) error
}

type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

type TeamRoleRepository interface {
	Create(ctx context.Context, role *domain.TeamRole) error
	GetByID(ctx context.Context, id int64) (*domain.TeamRole, error)
	ListByParent(ctx context.Context, parentID int64) ([]domain.TeamRole, error)
	GetByParentAndName(ctx context.Context, parentID int64, name string) (*domain.TeamRole, error)
	Update(ctx context.Context, role *domain.TeamRole) error
	Delete(ctx context.Context, id int64) error
}

type Authorizer interface {
	TeamLeaderFor(ctx context.Context, u *domain.User, teamPerm string) (int64, error)
}
