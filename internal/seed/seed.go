package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"ticketadmin/internal/domain"
	"ticketadmin/internal/modules/auth"
	"ticketadmin/internal/repository"
)

type Summary struct {
	Permissions  int
	RolesCreated int
	RolesUpdated int
	AdminCreated bool
}

// Apply upserts the catalog. Existing roles get their type and permission set
// synced to the file. With reset, the role and permission tables are emptied
// first; accounts are never touched.
func Apply(ctx context.Context, db *gorm.DB, c *Catalog, reset bool) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	if reset {
		if err := resetCatalog(ctx, db); err != nil {
			return nil, err
		}
		logger.Warn().Msg("role and permission catalog wiped")
	}

	permissions := repository.NewPermissionRepository(db)
	roles := repository.NewRoleRepository(db)
	users := repository.NewUserRepository(db)
	sum := &Summary{}

	permIDs := make(map[string]int64, len(c.Permissions))
	for _, name := range c.Permissions {
		p, err := permissions.Ensure(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("permission %q: %w", name, err)
		}
		permIDs[name] = p.ID
		sum.Permissions++
	}

	roleIDs := make(map[string]int64, len(c.Roles))
	for _, spec := range c.Roles {
		ids := make([]int64, 0, len(spec.Permissions))
		for _, p := range spec.Permissions {
			ids = append(ids, permIDs[p])
		}

		existing, err := roles.GetByName(ctx, spec.Name)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			role := &domain.Role{Name: spec.Name, Type: domain.RoleType(spec.Type), GuardName: domain.DefaultGuard}
			if err := roles.Create(ctx, role, ids); err != nil {
				return nil, fmt.Errorf("create role %q: %w", spec.Name, err)
			}
			roleIDs[spec.Name] = role.ID
			sum.RolesCreated++
		case err != nil:
			return nil, fmt.Errorf("load role %q: %w", spec.Name, err)
		default:
			existing.Type = domain.RoleType(spec.Type)
			if err := roles.Update(ctx, existing, ids); err != nil {
				return nil, fmt.Errorf("update role %q: %w", spec.Name, err)
			}
			roleIDs[spec.Name] = existing.ID
			sum.RolesUpdated++
		}
	}

	if c.Admin != nil {
		created, err := ensureAdmin(ctx, users, c.Admin, roleIDs, reset)
		if err != nil {
			return nil, err
		}
		sum.AdminCreated = created
	}

	logger.Info().
		Int("permissions", sum.Permissions).
		Int("roles_created", sum.RolesCreated).
		Int("roles_updated", sum.RolesUpdated).
		Bool("admin_created", sum.AdminCreated).
		Msg("catalog applied")
	return sum, nil
}

// ensureAdmin creates the bootstrap admin. An existing account is left alone,
// except after a reset where it gets its catalog roles back.
func ensureAdmin(ctx context.Context, users *repository.UserRepository, spec *AdminSpec, roleIDs map[string]int64, reset bool) (bool, error) {
	ids := make([]int64, 0, len(spec.Roles))
	for _, r := range spec.Roles {
		ids = append(ids, roleIDs[r])
	}

	existing, err := users.GetByEmail(ctx, spec.Email)
	switch {
	case err == nil:
		zerolog.Ctx(ctx).Info().Str("email", spec.Email).Msg("bootstrap admin already present")
		if reset {
			return false, users.ReplaceRoles(ctx, existing.ID, ids, nil)
		}
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, err
	}

	hash, err := auth.HashPassword(spec.Password)
	if err != nil {
		return false, err
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = "Administrator"
	}

	admin := &domain.User{
		Name:         name,
		Email:        spec.Email,
		PasswordHash: hash,
		IsAdmin:      true,
		Status:       domain.StatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	if err := users.ReplaceRoles(ctx, admin.ID, ids, nil); err != nil {
		return false, fmt.Errorf("assign admin roles: %w", err)
	}
	return true, nil
}

func resetCatalog(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{
			domain.RolePermissionsTable,
			domain.UserRolesTable,
			domain.Role{}.TableName(),
			domain.Permission{}.TableName(),
		} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}
