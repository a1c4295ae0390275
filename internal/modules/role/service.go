package role

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"ticketadmin/internal/domain"
)

type Service struct {
	roles       RoleRepository
	permissions PermissionRepository
	users       UserRepository
}

func NewService(roles RoleRepository, permissions PermissionRepository, users UserRepository) *Service {
	return &Service{roles: roles, permissions: permissions, users: users}
}

func (s *Service) List(ctx context.Context, roleType string) ([]domain.Role, error) {
	return s.roles.List(ctx, domain.RoleType(roleType))
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Role, error) {
	return s.roles.GetByID(ctx, id)
}

func (s *Service) Permissions(ctx context.Context) ([]domain.Permission, error) {
	return s.permissions.List(ctx)
}

// Create adds a global role with the given permission ids. Unknown ids reject
// the whole request.
func (s *Service) Create(ctx context.Context, req RoleRequest) (*domain.Role, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}
	permIDs, err := s.checkPermissions(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}

	roleType := domain.RoleType(req.Type)
	if roleType == "" {
		roleType = domain.RoleTypeAdmin
	}

	role := &domain.Role{Name: name, Type: roleType, GuardName: domain.DefaultGuard}
	if err := s.roles.Create(ctx, role, permIDs); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("name", "The name has already been taken.")
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role created")
	return s.roles.GetByID(ctx, role.ID)
}

// Update renames the role and syncs its permissions: ids not listed are
// detached, an empty list strips them all.
func (s *Service) Update(ctx context.Context, id int64, req RoleRequest) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkName(ctx, name, id); err != nil {
		return nil, err
	}
	permIDs, err := s.checkPermissions(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}

	role.Name = name
	if req.Type != "" {
		role.Type = domain.RoleType(req.Type)
	}
	if err := s.roles.Update(ctx, role, permIDs); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("name", "The name has already been taken.")
		}
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("role_id", id).Int("permissions", len(permIDs)).Msg("role updated")
	return s.roles.GetByID(ctx, id)
}

// Delete removes the role together with its assignments in one transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete role %d: %w", id, err)
	}
	zerolog.Ctx(ctx).Info().Int64("role_id", id).Msg("role deleted")
	return nil
}

// AssignRoles replaces the global roles of a user. The team role is kept.
func (s *Service) AssignRoles(ctx context.Context, userID int64, roleIDs []int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := unique(roleIDs)
	found, err := s.roles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.NewValidationError("roles", "The selected roles are invalid.")
	}

	if err := s.users.ReplaceRoles(ctx, user.ID, ids, user.TeamRoleID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, user.ID)
}

func (s *Service) checkName(ctx context.Context, name string, excludeID int64) error {
	if name == "" {
		return domain.NewValidationError("name", "The name field is required.")
	}
	taken, err := s.roles.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.NewValidationError("name", "The name has already been taken.")
	}
	return nil
}

func (s *Service) checkPermissions(ctx context.Context, ids []int64) ([]int64, error) {
	ids = unique(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	found, err := s.permissions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.NewValidationError("permissions", "The selected permissions are invalid.")
	}
	return ids, nil
}

func unique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
