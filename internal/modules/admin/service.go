package admin

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ticketadmin/internal/audit"
	"ticketadmin/internal/domain"
	"ticketadmin/internal/repository"
)

const (
	ActionApprove     = "approve"
	ActionBlock       = "block"
	ActionUnblock     = "unblock"
	ActionDelete      = "delete"
	ActionRestore     = "restore"
	ActionForceDelete = "force-delete"
)

type noopRecorder struct{}

func (noopRecorder) Transition(string, error) {}

type Service struct {
	users   UserRepository
	history LoginHistoryRepository
	audit   AuditLogger
	metrics TransitionRecorder
	now     func() time.Time
}

func NewService(users UserRepository, history LoginHistoryRepository, auditLog AuditLogger, metrics TransitionRecorder) *Service {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &Service{
		users:   users,
		history: history,
		audit:   auditLog,
		metrics: metrics,
		now:     time.Now,
	}
}

// -------------------- Listing --------------------

// ListUsers returns every non-admin account, soft-deleted ones included, each
// with its most recent login time.
func (s *Service) ListUsers(ctx context.Context, q ListUsersQuery) ([]domain.User, error) {
	users, err := s.users.ListNonAdmins(ctx, repository.UserFilter{Status: q.Status, Query: q.Query})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	latest, err := s.history.LatestLogins(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if at, ok := latest[users[i].ID]; ok {
			users[i].LastLoginAt = &at
		}
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByIDWithTrashed(ctx, id)
	if err != nil {
		return nil, err
	}
	latest, err := s.history.LatestLogins(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if at, ok := latest[id]; ok {
		u.LastLoginAt = &at
	}
	return u, nil
}

func (s *Service) LoginHistory(ctx context.Context, id int64, limit int) ([]domain.LoginHistory, error) {
	if _, err := s.users.GetByIDWithTrashed(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByUser(ctx, id, limit)
}

// -------------------- Lifecycle --------------------

func (s *Service) Approve(ctx context.Context, actorID, id int64) (*domain.User, error) {
	return s.transition(ctx, ActionApprove, id, func(u *domain.User) error {
		return u.Approve()
	})
}

func (s *Service) Block(ctx context.Context, actorID, id int64, reason string) (*domain.User, error) {
	u, err := s.transition(ctx, ActionBlock, id, func(u *domain.User) error {
		return u.Block(reason, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.audit.Info(ctx, audit.ActionUserBlocked, actorID, u.ID, u.BlockedReason)
	return u, nil
}

func (s *Service) Unblock(ctx context.Context, actorID, id int64) (*domain.User, error) {
	return s.transition(ctx, ActionUnblock, id, func(u *domain.User) error {
		return u.Unblock()
	})
}

func (s *Service) SoftDelete(ctx context.Context, actorID, id int64, reason string) (*domain.User, error) {
	u, err := s.transition(ctx, ActionDelete, id, func(u *domain.User) error {
		return u.SoftDelete(reason, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.audit.Info(ctx, audit.ActionUserDeleted, actorID, u.ID, u.DeletedReason)
	return u, nil
}

func (s *Service) Restore(ctx context.Context, actorID, id int64) (*domain.User, error) {
	return s.transition(ctx, ActionRestore, id, func(u *domain.User) error {
		return u.Restore()
	})
}

// ForceDelete erases an already soft-deleted account. There is no way back.
func (s *Service) ForceDelete(ctx context.Context, actorID, id int64) error {
	u, err := s.users.GetByIDWithTrashed(ctx, id)
	if err != nil {
		return err
	}
	if err := u.CanForceDelete(); err != nil {
		s.metrics.Transition(ActionForceDelete, err)
		return err
	}
	if err := s.users.ForceDelete(ctx, u.ID); err != nil {
		return err
	}
	s.metrics.Transition(ActionForceDelete, nil)
	s.audit.Warn(ctx, audit.ActionUserForceDeleted, actorID, u.ID, u.DeletedReason)
	return nil
}

// transition loads the target including soft-deleted rows, applies the
// in-memory state change and persists it in one write.
func (s *Service) transition(ctx context.Context, name string, id int64, apply func(*domain.User) error) (*domain.User, error) {
	u, err := s.users.GetByIDWithTrashed(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(u); err != nil {
		s.metrics.Transition(name, err)
		return nil, err
	}
	if err := s.users.SaveLifecycle(ctx, u); err != nil {
		return nil, err
	}
	s.metrics.Transition(name, nil)
	zerolog.Ctx(ctx).Info().Str("transition", name).Int64("user_id", u.ID).Msg("account transition")
	return u, nil
}

// -------------------- Bulk --------------------

// Bulk applies one action to every listed user. A failure on one user is
// reported in its outcome and does not stop the others.
func (s *Service) Bulk(ctx context.Context, actorID int64, req BulkActionRequest) ([]BulkOutcome, error) {
	if req.Action == ActionBlock || req.Action == ActionDelete {
		if err := domain.ValidateReason(req.Reason); err != nil {
			return nil, err
		}
	}

	outcomes := make([]BulkOutcome, 0, len(req.UserIDs))
	seen := make(map[int64]bool, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		err := s.apply(ctx, actorID, req.Action, id, req.Reason)
		outcome := BulkOutcome{ID: id, OK: err == nil, Message: "Done."}
		if err != nil {
			outcome.Message = outcomeMessage(ctx, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (s *Service) apply(ctx context.Context, actorID int64, action string, id int64, reason string) error {
	var err error
	switch action {
	case ActionApprove:
		_, err = s.Approve(ctx, actorID, id)
	case ActionBlock:
		_, err = s.Block(ctx, actorID, id, reason)
	case ActionUnblock:
		_, err = s.Unblock(ctx, actorID, id)
	case ActionDelete:
		_, err = s.SoftDelete(ctx, actorID, id, reason)
	case ActionRestore:
		_, err = s.Restore(ctx, actorID, id)
	case ActionForceDelete:
		err = s.ForceDelete(ctx, actorID, id)
	default:
		err = domain.NewValidationError("action", "The selected action is invalid.")
	}
	return err
}

func outcomeMessage(ctx context.Context, err error) string {
	var conflict *domain.ConflictError
	var invalid *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrAdminImmune):
		return "Admin users cannot be modified by this action."
	case errors.Is(err, domain.ErrNotFound):
		return "User not found."
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &invalid):
		for _, msg := range invalid.Fields {
			return msg
		}
	}
	zerolog.Ctx(ctx).Error().Err(err).Msg("bulk action failed")
	return "Something went wrong."
}
