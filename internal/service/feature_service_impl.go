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

type featureService struct {
	engine   *authz.Engine
	features repository.FeatureRepo
	products repository.ProductRepo
	uow      db.UnitOfWork
	rollup   rollupEngine
	audit    AuditSink
}

func NewFeatureService(engine *authz.Engine, features repository.FeatureRepo, products repository.ProductRepo, uow db.UnitOfWork, audit AuditSink) FeatureService {
	return &featureService{engine: engine, features: features, products: products, uow: uow, audit: audit}
}

func (s *featureService) Create(ctx context.Context, actor domain.Actor, f *domain.Feature) error {
	if f.ProductID == "" {
		return apperr.Validation("feature requires a product id")
	}
	if _, err := s.products.GetByID(ctx, f.ProductID); err != nil {
		return err
	}
	if err := authorize(ctx, s.engine, actor, authz.CreateFeature{ProductID: f.ProductID}); err != nil {
		return err
	}
	if f.Name == "" {
		return apperr.Validation("feature name is required")
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.State == "" {
		f.State = domain.FeatureDiscovery
	}
	if err := s.features.Create(ctx, f); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "feature.create", string(domain.EntityFeature), f.ID, f.Name)
	return nil
}

func (s *featureService) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	return s.features.GetByID(ctx, id)
}

func (s *featureService) ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error) {
	return s.features.ListByProduct(ctx, productID)
}

// Update edits name and release membership. Moving a feature between
// releases re-rolls both the old and new release from the same write.
func (s *featureService) Update(ctx context.Context, actor domain.Actor, f *domain.Feature) error {
	current, err := s.features.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	if err := authorize(ctx, s.engine, actor, authz.EditFeature{FeatureID: f.ID}); err != nil {
		return err
	}

	oldRelease := current.ReleaseID
	current.Name = f.Name
	current.ReleaseID = f.ReleaseID
	current.UpdatedAt = time.Now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteFeatureRepo(tx).Update(ctx, current); err != nil {
			return err
		}
		if oldRelease != nil {
			if err := s.rollup.run(ctx, tx, domain.EntityRelease, *oldRelease); err != nil {
				return err
			}
		}
		if current.ReleaseID != nil {
			if err := s.rollup.run(ctx, tx, domain.EntityRelease, *current.ReleaseID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	*f = *current

	s.audit.Record(ctx, actor.UserID, "feature.edit", string(domain.EntityFeature), f.ID, "")
	return nil
}

func (s *featureService) Transition(ctx context.Context, actor domain.Actor, id string, target domain.FeatureState) (*domain.Feature, error) {
	f, err := s.features.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, authz.TransitionFeature{FeatureID: id}); err != nil {
		return nil, err
	}
	if err := governance.ValidateFeature(f.State, target); err != nil {
		return nil, err
	}

	f.State = target
	f.UpdatedAt = time.Now().UTC()
	if err := s.features.Update(ctx, f); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "feature.transition", string(domain.EntityFeature), id, string(target))
	return f, nil
}
