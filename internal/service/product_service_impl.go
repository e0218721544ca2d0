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

type productService struct {
	engine     *authz.Engine
	products   repository.ProductRepo
	portfolios repository.PortfolioRepo
	uow        db.UnitOfWork
	audit      AuditSink
}

func NewProductService(engine *authz.Engine, products repository.ProductRepo, portfolios repository.PortfolioRepo, uow db.UnitOfWork, audit AuditSink) ProductService {
	return &productService{engine: engine, products: products, portfolios: portfolios, uow: uow, audit: audit}
}

func (s *productService) Create(ctx context.Context, actor domain.Actor, p *domain.Product) error {
	if p.PortfolioID == "" {
		return apperr.Validation("product requires a portfolio id")
	}
	if _, err := s.portfolios.GetByID(ctx, p.PortfolioID); err != nil {
		return err
	}
	if err := authorize(ctx, s.engine, actor, authz.CreateProduct{PortfolioID: p.PortfolioID}); err != nil {
		return err
	}
	if p.Code == "" || p.Name == "" {
		return apperr.Validation("product code and name are required")
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
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "product.create", string(domain.EntityProduct), p.ID, p.Code)
	return nil
}

func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Product, error) {
	return s.products.ListByPortfolio(ctx, portfolioID)
}

func (s *productService) Update(ctx context.Context, actor domain.Actor, p *domain.Product) error {
	current, err := s.products.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.Locked {
		return apperr.Conflict("product %s is locked", p.ID)
	}
	if err := authorize(ctx, s.engine, actor, authz.EditProduct{ProductID: p.ID}); err != nil {
		return err
	}

	current.Name = p.Name
	current.EstimatedCost = p.EstimatedCost
	current.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, current); err != nil {
		return err
	}
	*p = *current

	s.audit.Record(ctx, actor.UserID, "product.edit", string(domain.EntityProduct), p.ID, "")
	return nil
}

func (s *productService) Transition(ctx context.Context, actor domain.Actor, id string, target domain.GovernanceState, reason string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(ctx, s.engine, actor, productTransitionAction(p.State, target, id)); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProducts := repository.NewSQLiteProductRepo(tx)
		p, err := txProducts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := governance.Validate(p.State, target); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := applyTransition(p.State, target, &p.ApprovalStamps, &p.LockInfo, &p.RejectionReason, actor.UserID, reason, now); err != nil {
			return err
		}
		p.State = target
		p.UpdatedAt = now
		if err := txProducts.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "product.transition", string(domain.EntityProduct), id, string(target))
	return updated, nil
}

func productTransitionAction(from, target domain.GovernanceState, id string) authz.Action {
	switch target {
	case domain.StateSubmitted:
		return authz.SubmitProduct{ProductID: id}
	case domain.StateApproved:
		if from == domain.StateLocked {
			return authz.LockProduct{ProductID: id}
		}
		return authz.ApproveProduct{ProductID: id}
	case domain.StateRejected:
		return authz.RejectProduct{ProductID: id}
	case domain.StateLocked:
		return authz.LockProduct{ProductID: id}
	case domain.StateArchived:
		return authz.ArchiveProduct{ProductID: id}
	default:
		return authz.SubmitProduct{ProductID: id}
	}
}
