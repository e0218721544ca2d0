package service

import (
	"context"

	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
)

type freezeService struct {
	engine *authz.Engine
	freeze repository.FreezeRepo
	audit  AuditSink
}

func NewFreezeService(engine *authz.Engine, freeze repository.FreezeRepo, audit AuditSink) FreezeService {
	return &freezeService{engine: engine, freeze: freeze, audit: audit}
}

func (s *freezeService) Get(ctx context.Context) (*domain.SystemFreeze, error) {
	return s.freeze.Get(ctx)
}

func (s *freezeService) SetFreeze(ctx context.Context, actor domain.Actor, reason string) error {
	if err := authorize(ctx, s.engine, actor, authz.ControlFreeze{}); err != nil {
		return err
	}
	if err := s.freeze.Set(ctx, true, reason, actor.UserID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "freeze.set", "SYSTEM", "", reason)
	return nil
}

func (s *freezeService) ClearFreeze(ctx context.Context, actor domain.Actor) error {
	if err := authorize(ctx, s.engine, actor, authz.ControlFreeze{}); err != nil {
		return err
	}
	if err := s.freeze.Set(ctx, false, "", actor.UserID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "freeze.clear", "SYSTEM", "", "")
	return nil
}
