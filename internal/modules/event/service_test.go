package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticketadmin/internal/domain"
)

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEventRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Event, error) {
	args := m.Called(ctx, ownerID)
	events, _ := args.Get(0).([]domain.Event)
	return events, args.Error(1)
}

func (m *mockEventRepo) Update(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEventRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEventRepo) CreateTicket(ctx context.Context, t *domain.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockEventRepo) ListTickets(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, eventID)
	tickets, _ := args.Get(0).([]domain.Ticket)
	return tickets, args.Error(1)
}

func (m *mockEventRepo) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockEventRepo) ListCoupons(ctx context.Context, eventID int64) ([]domain.Coupon, error) {
	args := m.Called(ctx, eventID)
	coupons, _ := args.Get(0).([]domain.Coupon)
	return coupons, args.Error(1)
}

type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) CanActOnEvent(ctx context.Context, u *domain.User, e *domain.Event, perm string) error {
	return m.Called(ctx, u, e, perm).Error(0)
}

func TestService_CouponsSoftFail(t *testing.T) {
	repo := new(mockEventRepo)
	repo.On("ListCoupons", mock.Anything, int64(3)).Return(nil, errors.New("relation does not exist"))
	svc := NewService(repo, new(mockAuthorizer))

	coupons := svc.Coupons(context.Background(), &domain.Event{ID: 3})

	require.NotNil(t, coupons)
	assert.Empty(t, coupons)
	repo.AssertExpectations(t)
}

func TestService_CreateCouponRejectsDuplicateCode(t *testing.T) {
	repo := new(mockEventRepo)
	repo.On("ListCoupons", mock.Anything, int64(3)).Return([]domain.Coupon{{ID: 1, EventID: 3, Code: "EARLY10"}}, nil)
	svc := NewService(repo, new(mockAuthorizer))

	_, err := svc.CreateCoupon(context.Background(), &domain.Event{ID: 3}, CouponRequest{Code: "early10", DiscountPercent: 10})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "code")
	repo.AssertNotCalled(t, "CreateCoupon", mock.Anything, mock.Anything)
}

func TestService_CreateUsesAccountOwner(t *testing.T) {
	repo := new(mockEventRepo)
	gate := new(mockAuthorizer)
	parent := int64(10)
	sub := &domain.User{ID: 11, ParentID: &parent}

	gate.On("CanActOnEvent", mock.Anything, sub, (*domain.Event)(nil), domain.TeamPermCreateEvents).Return(nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.OwnerID == parent && e.Title == "Launch"
	})).Return(nil)

	e, err := NewService(repo, gate).Create(context.Background(), sub, EventRequest{Title: " Launch "})
	require.NoError(t, err)
	assert.Equal(t, parent, e.OwnerID)
	repo.AssertExpectations(t)
	gate.AssertExpectations(t)
}

func TestService_CreateForbidden(t *testing.T) {
	repo := new(mockEventRepo)
	gate := new(mockAuthorizer)
	gate.On("CanActOnEvent", mock.Anything, mock.Anything, mock.Anything, domain.TeamPermCreateEvents).Return(domain.ErrForbidden)

	_, err := NewService(repo, gate).Create(context.Background(), &domain.User{ID: 1}, EventRequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
