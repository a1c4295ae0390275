package repository

import (
	"context"

	"gorm.io/gorm"

	"ticketadmin/internal/domain"
)

type TeamRoleRepository struct {
	db *gorm.DB
}

func NewTeamRoleRepository(db *gorm.DB) *TeamRoleRepository {
	return &TeamRoleRepository{db: db}
}

func (r *TeamRoleRepository) Create(ctx context.Context, role *domain.TeamRole) error {
	return r.db.WithContext(ctx).Omit("Parent").Create(role).Error
}

func (r *TeamRoleRepository) GetByID(ctx context.Context, id int64) (*domain.TeamRole, error) {
	var role domain.TeamRole
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *TeamRoleRepository) ListByParent(ctx context.Context, parentID int64) ([]domain.TeamRole, error) {
	var roles []domain.TeamRole
	err := r.db.WithContext(ctx).
		Where("parent_user_id = ?", parentID).
		Order("id ASC").
		Find(&roles).Error
	return roles, err
}

func (r *TeamRoleRepository) GetByParentAndName(ctx context.Context, parentID int64, name string) (*domain.TeamRole, error) {
	var role domain.TeamRole
	err := r.db.WithContext(ctx).
		Where("parent_user_id = ? AND name = ?", parentID, name).
		First(&role).Error
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *TeamRoleRepository) Update(ctx context.Context, role *domain.TeamRole) error {
	res := r.db.WithContext(ctx).
		Model(&domain.TeamRole{ID: role.ID}).
		Select("name", "permissions", "updated_at").
		Updates(role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete drops the team role and detaches every sub-user that held it.
func (r *TeamRoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&domain.User{}).
			Where("team_role_id = ?", id).
			Update("team_role_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.TeamRole{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
