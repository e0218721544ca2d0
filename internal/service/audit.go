package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/steward/internal/repository"
	"github.com/google/uuid"
)

// AuditSink records successful mutations. It is fire-and-forget: a failing
// sink must never fail or roll back the operation that produced the event.
type AuditSink interface {
	Record(ctx context.Context, actor, action, entityType, entityID, detail string)
}

// NoopAuditSink discards all events.
type NoopAuditSink struct{}

func (NoopAuditSink) Record(context.Context, string, string, string, string, string) {}

// repoAuditSink appends to the audit_log table, logging and swallowing any
// append failure.
type repoAuditSink struct {
	repo   repository.AuditRepo
	logger *slog.Logger
}

// NewAuditSink creates a sink over the given audit repo. logger may be nil.
func NewAuditSink(repo repository.AuditRepo, logger *slog.Logger) AuditSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &repoAuditSink{repo: repo, logger: logger}
}

func (s *repoAuditSink) Record(ctx context.Context, actor, action, entityType, entityID, detail string) {
	ev := &repository.AuditEvent{
		ID:         uuid.New().String(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, ev); err != nil {
		s.logger.Warn("audit append failed", "action", action, "error", err)
	}
}
