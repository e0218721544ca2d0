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

type portfolioService struct {
	engine     *authz.Engine
	portfolios repository.PortfolioRepo
	uow        db.UnitOfWork
	audit      AuditSink
}

func NewPortfolioService(engine *authz.Engine, portfolios repository.PortfolioRepo, uow db.UnitOfWork, audit AuditSink) PortfolioService {
	return &portfolioService{engine: engine, portfolios: portfolios, uow: uow, audit: audit}
}

func (s *portfolioService) Create(ctx context.Context, actor domain.Actor, p *domain.Portfolio) error {
	if err := authorize(ctx, s.engine, actor, authz.CreatePortfolio{}); err != nil {
		return err
	}
	if p.Code == "" || p.Name == "" {
		return apperr.Validation("portfolio code and name are required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.State == "" {
		p.State = domain.StateDraft
	}
	if err := s.portfolios.Create(ctx, p); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "portfolio.create", string(domain.EntityPortfolio), p.ID, p.Code)
	return nil
}

func (s *portfolioService) GetByID(ctx context.Context, id string) (*domain.Portfolio, error) {
	return s.portfolios.GetByID(ctx, id)
}

func (s *portfolioService) List(ctx context.Context) ([]*domain.Portfolio, error) {
	return s.portfolios.List(ctx)
}

func (s *portfolioService) Update(ctx context.Context, actor domain.Actor, p *domain.Portfolio) error {
	current, err := s.portfolios.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	// Lock wins over permission: a locked entity is immutable even for an
	// otherwise-authorized actor.
	if current.Locked {
		return apperr.Conflict("portfolio %s is locked", p.ID)
	}
	if err := authorize(ctx, s.engine, actor, authz.EditPortfolio{PortfolioID: p.ID}); err != nil {
		return err
	}

	current.Name = p.Name
	current.Priority = p.Priority
	current.EstimatedBudget = p.EstimatedBudget
	current.ProgramManager = p.ProgramManager
	current.UpdatedAt = time.Now().UTC()
	if err := s.portfolios.Update(ctx, current); err != nil {
		return err
	}
	*p = *current

	s.audit.Record(ctx, actor.UserID, "portfolio.edit", string(domain.EntityPortfolio), p.ID, "")
	return nil
}

func (s *portfolioService) Transition(ctx context.Context, actor domain.Actor, id string, target domain.GovernanceState, reason string) (*domain.Portfolio, error) {
	p, err := s.portfolios.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(ctx, s.engine, actor, portfolioTransitionAction(p.State, target, id)); err != nil {
		return nil, err
	}

	var updated *domain.Portfolio
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPortfolios := repository.NewSQLitePortfolioRepo(tx)
		p, err := txPortfolios.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := governance.Validate(p.State, target); err != nil {
			return err
		}
		if target == domain.StateArchived {
			open, err := repository.NewSQLiteProductRepo(tx).CountOpenByPortfolio(ctx, id)
			if err != nil {
				return err
			}
			if open > 0 {
				return apperr.Conflict("portfolio %s has %d products still in DRAFT or SUBMITTED", id, open)
			}
		}

		now := time.Now().UTC()
		if err := applyTransition(p.State, target, &p.ApprovalStamps, &p.LockInfo, &p.RejectionReason, actor.UserID, reason, now); err != nil {
			return err
		}
		p.State = target
		p.UpdatedAt = now
		if err := txPortfolios.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "portfolio.transition", string(domain.EntityPortfolio), id, string(target))
	return updated, nil
}

func portfolioTransitionAction(from, target domain.GovernanceState, id string) authz.Action {
	switch target {
	case domain.StateSubmitted:
		return authz.SubmitPortfolio{PortfolioID: id}
	case domain.StateApproved:
		if from == domain.StateLocked {
			return authz.UnlockPortfolio{PortfolioID: id}
		}
		return authz.ApprovePortfolio{PortfolioID: id}
	case domain.StateRejected:
		return authz.RejectPortfolio{PortfolioID: id}
	case domain.StateLocked:
		return authz.LockPortfolio{PortfolioID: id}
	case domain.StateArchived:
		return authz.ArchivePortfolio{PortfolioID: id}
	default:
		// An unknown target can never be a legal edge; submit is the most
		// restrictive plausible mapping and the edge check rejects it anyway.
		return authz.SubmitPortfolio{PortfolioID: id}
	}
}
