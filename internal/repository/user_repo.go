package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"ticketadmin/internal/database"
	"ticketadmin/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// lifecycleColumns are written together by SaveLifecycle in one UPDATE.
var lifecycleColumns = []string{
	"status",
	"status_reason",
	"is_blocked",
	"blocked_at",
	"blocked_reason",
	"deleted_at",
	"deleted_reason",
	"updated_at",
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Status string
	Query  string
}

func (r *UserRepository) DB() *gorm.DB {
	return r.db
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Omit("Roles").Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID finds a live (not soft-deleted) account with its global roles.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetByIDWithTrashed also finds soft-deleted accounts.
func (r *UserRepository) GetByIDWithTrashed(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Unscoped().Preload("Roles").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ExistsByEmail includes soft-deleted rows: their addresses stay reserved.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&domain.User{}).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// SaveLifecycle persists every lifecycle column of u in a single statement, so
// a delete reason is never stored without its deletion marker.
func (r *UserRepository) SaveLifecycle(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&domain.User{ID: u.ID}).
		Select(lifecycleColumns).
		Updates(u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ForceDelete erases the row. Sub-users, sessions and assignments go with it
// through the foreign key cascades.
func (r *UserRepository) ForceDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Unscoped().Delete(&domain.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListNonAdmins returns every non-admin account, soft-deleted ones included.
func (r *UserRepository) ListNonAdmins(ctx context.Context, f UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Unscoped().
		Preload("Roles").
		Where("is_admin = ?", false)

	if status := strings.TrimSpace(f.Status); status != "" {
		if status == "deleted" {
			q = q.Where("deleted_at IS NOT NULL")
		} else {
			q = q.Where("status = ? AND deleted_at IS NULL", status)
		}
	}

	if query := strings.TrimSpace(f.Query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var users []domain.User
	if err := q.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByParent returns the live sub-users of an organizer.
func (r *UserRepository) ListByParent(ctx context.Context, parentID int64) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("parent_id = ?", parentID).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// ReplaceRoles swaps the whole role set of a user: the given global roles and
// an optional team role. It runs in one transaction.
func (r *UserRepository) ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64, teamRoleID *int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+domain.UserRolesTable+" WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			row := map[string]any{"user_id": userID, "role_id": roleID}
			if err := tx.Table(domain.UserRolesTable).Create(row).Error; err != nil {
				return err
			}
		}
		return tx.Model(&domain.User{}).
			Where("id = ?", userID).
			Update("team_role_id", teamRoleID).Error
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
