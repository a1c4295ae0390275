package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ticketadmin/internal/domain"
)

type LoginHistoryRepository struct {
	db *gorm.DB
}

func NewLoginHistoryRepository(db *gorm.DB) *LoginHistoryRepository {
	return &LoginHistoryRepository{db: db}
}

func (r *LoginHistoryRepository) Append(ctx context.Context, h *domain.LoginHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// ListByUser returns the newest entries first.
func (r *LoginHistoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.LoginHistory, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []domain.LoginHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("login_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// LatestLogins maps each user id to its most recent login time. Users that
// never logged in are absent from the map.
func (r *LoginHistoryRepository) LatestLogins(ctx context.Context, userIDs []int64) (map[int64]time.Time, error) {
	out := make(map[int64]time.Time, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []domain.LoginHistory
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where("login_at = (SELECT MAX(lh.login_at) FROM login_histories lh WHERE lh.user_id = login_histories.user_id)").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.UserID] = row.LoginAt
	}
	return out, nil
}
