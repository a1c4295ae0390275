package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ticketadmin/internal/database"
	"ticketadmin/internal/domain"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns global roles with their permissions, optionally narrowed to one type.
func (r *RoleRepository) List(ctx context.Context, roleType domain.RoleType) ([]domain.Role, error) {
	q := r.db.WithContext(ctx).Preload("Permissions")
	if roleType != "" {
		q = q.Where("type = ?", roleType)
	}
	var roles []domain.Role
	err := q.Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ? AND guard_name = ?", name, domain.DefaultGuard).
		First(&role).Error
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// NameTaken reports whether another role already uses name. excludeID skips the
// role being renamed; pass 0 on create.
func (r *RoleRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&domain.Role{}).
		Where("name = ? AND guard_name = ?", name, domain.DefaultGuard)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// FindByIDs loads the roles whose ids are given. Missing ids are simply absent.
func (r *RoleRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []domain.Role
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

// Create inserts the role and its permission assignments together.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role, permissionIDs []int64) error {
	if role.GuardName == "" {
		role.GuardName = domain.DefaultGuard
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Create(role).Error; err != nil {
			return err
		}
		return insertRolePermissions(tx, role.ID, permissionIDs)
	})
	if database.IsUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

// Update renames the role and replaces its whole permission set. An empty
// permissionIDs strips every permission.
func (r *RoleRepository) Update(ctx context.Context, role *domain.Role, permissionIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Role{}).
			Where("id = ?", role.ID).
			Updates(map[string]any{"name": role.Name, "type": role.Type})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Exec("DELETE FROM "+domain.RolePermissionsTable+" WHERE role_id = ?", role.ID).Error; err != nil {
			return err
		}
		return insertRolePermissions(tx, role.ID, permissionIDs)
	})
	if database.IsUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

// Delete removes the role with its permission and user assignment rows. Either
// all of them go or none does.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	if err := tx.Exec("DELETE FROM "+domain.RolePermissionsTable+" WHERE role_id = ?", id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("detach permissions: %w", err)
	}

	if err := tx.Exec("DELETE FROM "+domain.UserRolesTable+" WHERE role_id = ?", id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("detach users: %w", err)
	}

	res := tx.Delete(&domain.Role{}, id)
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("delete role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return domain.ErrNotFound
	}

	return tx.Commit().Error
}

// RoleNamesForUser returns the names of the global roles assigned to a user.
func (r *RoleRepository) RoleNamesForUser(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN "+domain.UserRolesTable+" mr ON mr.role_id = roles.id").
		Where("mr.user_id = ?", userID).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	return names, err
}

// PermissionNamesForUser resolves the permission closure of a user's global roles.
func (r *RoleRepository) PermissionNamesForUser(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN "+domain.RolePermissionsTable+" rp ON rp.permission_id = permissions.id").
		Joins("JOIN "+domain.UserRolesTable+" mr ON mr.role_id = rp.role_id").
		Where("mr.user_id = ?", userID).
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	return names, err
}

func insertRolePermissions(tx *gorm.DB, roleID int64, permissionIDs []int64) error {
	for _, pid := range permissionIDs {
		row := map[string]any{"role_id": roleID, "permission_id": pid}
		if err := tx.Table(domain.RolePermissionsTable).Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}
