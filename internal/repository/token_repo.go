package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ticketadmin/internal/domain"
)

// TokenRepository stores the ids of access tokens revoked by logout.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	row := &domain.RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired drops revocations whose tokens can no longer validate anyway.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.RevokedToken{})
	return res.RowsAffected, res.Error
}
