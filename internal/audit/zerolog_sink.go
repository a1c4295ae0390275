package audit

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink writes entries as structured log lines.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("type", "audit").Logger()}
}

func (s *LogSink) Write(_ context.Context, e Entry) error {
	s.logger.WithLevel(e.Level).
		Str("audit_id", e.ID).
		Str("action", e.Action).
		Int64("actor_id", e.ActorID).
		Int64("target_id", e.TargetID).
		Str("reason", e.Reason).
		Str("request_id", e.RequestID).
		Time("at", e.At).
		Msg("audit")
	return nil
}
