package repository

import (
	"context"

	"gorm.io/gorm"

	"ticketadmin/internal/domain"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	var perms []domain.Permission
	err := r.db.WithContext(ctx).Order("name ASC").Find(&perms).Error
	return perms, err
}

func (r *PermissionRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []domain.Permission
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error
	return perms, err
}

// Ensure returns the permission called name, creating it when missing.
func (r *PermissionRepository) Ensure(ctx context.Context, name string) (*domain.Permission, error) {
	p := domain.Permission{Name: name, GuardName: domain.DefaultGuard}
	err := r.db.WithContext(ctx).
		Where(domain.Permission{Name: name, GuardName: domain.DefaultGuard}).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
