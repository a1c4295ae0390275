package event

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"ticketadmin/internal/domain"
)

// Service holds the event, ticket and coupon records of an account. Callers
// reach the per-event methods only after the ownership check has loaded the event.
type Service struct {
	events EventRepository
	gate   Authorizer
}

func NewService(events EventRepository, gate Authorizer) *Service {
	return &Service{events: events, gate: gate}
}

func (s *Service) List(ctx context.Context, u *domain.User) ([]domain.Event, error) {
	return s.events.ListByOwner(ctx, u.AccountOwnerID())
}

// Create files the event under the principal's account. Sub-users need
// create-events on their team role.
func (s *Service) Create(ctx context.Context, u *domain.User, req EventRequest) (*domain.Event, error) {
	if err := s.gate.CanActOnEvent(ctx, u, nil, domain.TeamPermCreateEvents); err != nil {
		return nil, err
	}

	e := &domain.Event{
		OwnerID:     u.AccountOwnerID(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Venue:       strings.TrimSpace(req.Venue),
		StartsAt:    req.StartsAt,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("event_id", e.ID).Int64("owner_id", e.OwnerID).Msg("event created")
	return e, nil
}

func (s *Service) Update(ctx context.Context, e *domain.Event, req EventRequest) (*domain.Event, error) {
	e.Title = strings.TrimSpace(req.Title)
	e.Description = req.Description
	e.Venue = strings.TrimSpace(req.Venue)
	e.StartsAt = req.StartsAt
	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, e *domain.Event) error {
	if err := s.events.Delete(ctx, e.ID); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Int64("event_id", e.ID).Msg("event deleted")
	return nil
}

func (s *Service) Tickets(ctx context.Context, e *domain.Event) ([]domain.Ticket, error) {
	return s.events.ListTickets(ctx, e.ID)
}

func (s *Service) CreateTicket(ctx context.Context, e *domain.Event, req TicketRequest) (*domain.Ticket, error) {
	t := &domain.Ticket{
		EventID:    e.ID,
		Name:       strings.TrimSpace(req.Name),
		PriceCents: req.PriceCents,
		Quantity:   req.Quantity,
	}
	if err := s.events.CreateTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Coupons never fails: a read error is logged and reported as no coupons yet.
func (s *Service) Coupons(ctx context.Context, e *domain.Event) []domain.Coupon {
	coupons, err := s.events.ListCoupons(ctx, e.ID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("event_id", e.ID).Msg("coupons unavailable, showing none")
		return []domain.Coupon{}
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	return coupons
}

// CreateCoupon stores the code upper-cased; codes are unique within an event.
func (s *Service) CreateCoupon(ctx context.Context, e *domain.Event, req CouponRequest) (*domain.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	for _, existing := range s.Coupons(ctx, e) {
		if existing.Code == code {
			return nil, domain.NewValidationError("code", "The code has already been taken.")
		}
	}

	c := &domain.Coupon{EventID: e.ID, Code: code, DiscountPercent: req.DiscountPercent}
	if err := s.events.CreateCoupon(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
