package audit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ticketadmin/internal/pkg/ids"
)

const (
	ActionUserBlocked      = "user.blocked"
	ActionUserDeleted      = "user.deleted"
	ActionUserForceDeleted = "user.force_deleted"
)

// Entry is one audit record. ID is a ULID so entries sort by creation time.
type Entry struct {
	ID        string        `json:"id"`
	Action    string        `json:"action"`
	ActorID   int64         `json:"actor_id"`
	TargetID  int64         `json:"target_id"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Level     zerolog.Level `json:"-"`
	At        time.Time     `json:"at"`
}

// Sink is a destination for audit entries.
type Sink interface {
	Write(ctx context.Context, e Entry) error
}

type ctxKey struct{}

// WithRequestID attaches the request identifier to the context for audit entries.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// Logger fans audit entries out to every configured sink. A failing sink is
// logged and never fails the caller: the audited change is already committed.
type Logger struct {
	sinks []Sink
	now   func() time.Time
}

func NewLogger(sinks ...Sink) *Logger {
	return &Logger{sinks: sinks, now: time.Now}
}

// Info records a reversible moderation action.
func (l *Logger) Info(ctx context.Context, action string, actorID, targetID int64, reason string) {
	l.record(ctx, zerolog.InfoLevel, action, actorID, targetID, reason)
}

// Warn records an irreversible action.
func (l *Logger) Warn(ctx context.Context, action string, actorID, targetID int64, reason string) {
	l.record(ctx, zerolog.WarnLevel, action, actorID, targetID, reason)
}

func (l *Logger) record(ctx context.Context, level zerolog.Level, action string, actorID, targetID int64, reason string) {
	if l == nil {
		return
	}
	e := Entry{
		ID:        ids.New(),
		Action:    action,
		ActorID:   actorID,
		TargetID:  targetID,
		Reason:    reason,
		RequestID: requestIDFromContext(ctx),
		Level:     level,
		At:        l.now().UTC(),
	}
	for _, s := range l.sinks {
		if err := s.Write(ctx, e); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("audit_id", e.ID).Str("action", action).Msg("audit sink failed")
		}
	}
}
