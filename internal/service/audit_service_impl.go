package service

import (
	"context"

	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
)

type auditService struct {
	engine *authz.Engine
	repo   repository.AuditRepo
}

func NewAuditService(engine *authz.Engine, repo repository.AuditRepo) AuditService {
	return &auditService{engine: engine, repo: repo}
}

func (s *auditService) ListRecent(ctx context.Context, actor domain.Actor, limit int) ([]*repository.AuditEvent, error) {
	if err := authorize(ctx, s.engine, actor, authz.ViewAudit{}); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
