package event

import (
	"context"

	"ticketadmin/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id int64) error
	CreateTicket(ctx context.Context, t *domain.Ticket) error
	ListTickets(ctx context.Context, eventID int64) ([]domain.Ticket, error)
	CreateCoupon(ctx context.Context, c *domain.Coupon) error
	ListCoupons(ctx context.Context, eventID int64) ([]domain.Coupon, error)
}

type Authorizer interface {
	CanActOnEvent(ctx context.Context, u *domain.User, e *domain.Event, teamPerm string) error
}
