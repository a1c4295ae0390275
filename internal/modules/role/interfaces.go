package role

import (
	"context"

	"ticketadmin/internal/domain"
)

type RoleRepository interface {
	List(ctx context.Context, roleType domain.RoleType) ([]domain.Role, error)
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Role, error)
	Create(ctx context.Context, role *domain.Role, permissionIDs []int64) error
	Update(ctx context.Context, role *domain.Role, permissionIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

type PermissionRepository interface {
	List(ctx context.Context) ([]domain.Permission, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64, teamRoleID *int64) error
}
