package service

import (
	"context"
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/db"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/governance"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/google/uuid"
)

type releaseService struct {
	engine   *authz.Engine
	releases repository.ReleaseRepo
	products repository.ProductRepo
	uow      db.UnitOfWork
	audit    AuditSink
}

func NewReleaseService(engine *authz.Engine, releases repository.ReleaseRepo, products repository.ProductRepo, uow db.UnitOfWork, audit AuditSink) ReleaseService {
	return &releaseService{engine: engine, releases: releases, products: products, uow: uow, audit: audit}
}

func (s *releaseService) Create(ctx context.Context, actor domain.Actor, r *domain.Release) error {
	if r.ProductID == "" {
		return apperr.Validation("release requires a product id")
	}
	if _, err := s.products.GetByID(ctx, r.ProductID); err != nil {
		return err
	}
	if err := authorize(ctx, s.engine, actor, authz.CreateRelease{ProductID: r.ProductID}); err != nil {
		return err
	}
	if r.Name == "" {
		return apperr.Validation("release name is required")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.State == "" {
		r.State = domain.StateDraft
	}
	if err := s.releases.Create(ctx, r); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "release.create", string(domain.EntityRelease), r.ID, r.Name)
	return nil
}

func (s *releaseService) GetByID(ctx context.Context, id string) (*domain.Release, error) {
	return s.releases.GetByID(ctx, id)
}

func (s *releaseService) ListByProduct(ctx context.Context, productID string) ([]*domain.Release, error) {
	return s.releases.ListByProduct(ctx, productID)
}

func (s *releaseService) Transition(ctx context.Context, actor domain.Actor, id string, target domain.GovernanceState, reason string) (*domain.Release, error) {
	if target == domain.StateLocked {
		return s.Lock(ctx, actor, id)
	}

	if _, err := s.releases.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, releaseTransitionAction(target, id)); err != nil {
		return nil, err
	}

	var updated *domain.Release
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txReleases := repository.NewSQLiteReleaseRepo(tx)
		r, err := txReleases.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := governance.Validate(r.State, target); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := applyTransition(r.State, target, &r.ApprovalStamps, &r.LockInfo, &r.RejectionReason, actor.UserID, reason, now); err != nil {
			return err
		}
		r.State = target
		r.UpdatedAt = now
		if err := txReleases.Update(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "release.transition", string(domain.EntityRelease), id, string(target))
	return updated, nil
}

func (s *releaseService) SubmitGoNoGo(ctx context.Context, actor domain.Actor, id string) (*domain.Release, error) {
	r, err := s.releases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, authz.SubmitGoNoGo{ReleaseID: id}); err != nil {
		return nil, err
	}
	if r.GoNogoSubmitted {
		return nil, apperr.Conflict("release %s already submitted for go/no-go", id)
	}

	now := time.Now().UTC()
	r.GoNogoSubmitted = true
	r.GoNogoSubmittedAt = timePtr(now)
	r.GoNogoSubmittedBy = actor.UserID
	r.UpdatedAt = now
	if err := s.releases.Update(ctx, r); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "release.gonogo.submit", string(domain.EntityRelease), id, "")
	return r, nil
}

func (s *releaseService) DecideGoNoGo(ctx context.Context, actor domain.Actor, id string, decision domain.GoNoGoDecision) (*domain.Release, error) {
	if decision != domain.DecisionGo && decision != domain.DecisionNoGo {
		return nil, apperr.Validation("decision must be GO or NO_GO")
	}
	r, err := s.releases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, authz.DecideGoNoGo{ReleaseID: id}); err != nil {
		return nil, err
	}
	if !r.GoNogoSubmitted {
		return nil, apperr.Conflict("release %s has not been submitted for go/no-go", id)
	}
	if r.GoNogoDecision != nil {
		return nil, apperr.Conflict("release %s already has a go/no-go decision", id)
	}

	now := time.Now().UTC()
	r.GoNogoDecision = &decision
	r.GoNogoDecidedAt = timePtr(now)
	r.GoNogoDecidedBy = actor.UserID
	r.UpdatedAt = now
	if err := s.releases.Update(ctx, r); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "release.gonogo.decide", string(domain.EntityRelease), id, string(decision))
	return r, nil
}

// Lock requires both a legal APPROVED→LOCKED edge and a prior GO decision.
func (s *releaseService) Lock(ctx context.Context, actor domain.Actor, id string) (*domain.Release, error) {
	r, err := s.releases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, authz.LockRelease{ReleaseID: id}); err != nil {
		return nil, err
	}
	if err := governance.Validate(r.State, domain.StateLocked); err != nil {
		return nil, err
	}
	if r.GoNogoDecision == nil || *r.GoNogoDecision != domain.DecisionGo {
		return nil, apperr.Conflict("release %s cannot be locked without a GO decision", id)
	}

	now := time.Now().UTC()
	if err := applyTransition(r.State, domain.StateLocked, &r.ApprovalStamps, &r.LockInfo, &r.RejectionReason, actor.UserID, "", now); err != nil {
		return nil, err
	}
	r.State = domain.StateLocked
	r.UpdatedAt = now
	if err := s.releases.Update(ctx, r); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "release.lock", string(domain.EntityRelease), id, "")
	return r, nil
}

func (s *releaseService) AddChecklistItem(ctx context.Context, actor domain.Actor, releaseID, item string) (*domain.ChecklistItem, error) {
	if item == "" {
		return nil, apperr.Validation("checklist item text is required")
	}
	r, err := s.releases.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	// Lock wins over permission: a locked release is immutable even for an
	// otherwise-authorized actor.
	if r.Locked {
		return nil, apperr.Conflict("release %s is locked", releaseID)
	}
	if err := authorize(ctx, s.engine, actor, authz.EditRelease{ReleaseID: releaseID}); err != nil {
		return nil, err
	}

	ci := &domain.ChecklistItem{
		ID:        uuid.New().String(),
		ReleaseID: releaseID,
		Item:      item,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.releases.AddChecklistItem(ctx, ci); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.UserID, "release.checklist.add", string(domain.EntityRelease), releaseID, item)
	return ci, nil
}

func (s *releaseService) ListChecklist(ctx context.Context, releaseID string) ([]*domain.ChecklistItem, error) {
	return s.releases.ListChecklist(ctx, releaseID)
}

func (s *releaseService) CompleteChecklistItem(ctx context.Context, actor domain.Actor, releaseID, itemID string) error {
	r, err := s.releases.GetByID(ctx, releaseID)
	if err != nil {
		return err
	}
	if r.Locked {
		return apperr.Conflict("release %s is locked", releaseID)
	}
	if err := authorize(ctx, s.engine, actor, authz.EditRelease{ReleaseID: releaseID}); err != nil {
		return err
	}
	if err := s.releases.SetChecklistCompleted(ctx, itemID, true); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "release.checklist.complete", string(domain.EntityRelease), releaseID, itemID)
	return nil
}

func releaseTransitionAction(target domain.GovernanceState, id string) authz.Action {
	switch target {
	case domain.StateApproved, domain.StateRejected:
		// Go/no-go decision authority also owns the governance verdict on a
		// release: the program manager one level up.
		return authz.DecideGoNoGo{ReleaseID: id}
	default:
		return authz.EditRelease{ReleaseID: id}
	}
}
