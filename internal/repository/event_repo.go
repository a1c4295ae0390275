package repository

import (
	"context"

	"gorm.io/gorm"

	"ticketadmin/internal/domain"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(e).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	var e domain.Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	return r.db.WithContext(ctx).
		Model(&domain.Event{ID: e.ID}).
		Select("title", "description", "venue", "starts_at", "updated_at").
		Updates(e).Error
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EventRepository) CreateTicket(ctx context.Context, t *domain.Ticket) error {
	return r.db.WithContext(ctx).Omit("Event").Create(t).Error
}

func (r *EventRepository) ListTickets(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *EventRepository) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	return r.db.WithContext(ctx).Omit("Event").Create(c).Error
}

func (r *EventRepository) ListCoupons(ctx context.Context, eventID int64) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&coupons).Error
	return coupons, err
}
