package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/db"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/google/uuid"
)

type costService struct {
	engine  *authz.Engine
	entries repository.CostEntryRepo
	uow     db.UnitOfWork
	rollup  rollupEngine
	audit   AuditSink
	obs     UseCaseObserver
}

func NewCostService(engine *authz.Engine, entries repository.CostEntryRepo, uow db.UnitOfWork, audit AuditSink, obs UseCaseObserver) CostService {
	if obs == nil {
		obs = NoopUseCaseObserver{}
	}
	return &costService{engine: engine, entries: entries, uow: uow, audit: audit, obs: obs}
}

func (s *costService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}

func (s *costService) CreateEntry(ctx context.Context, actor domain.Actor, in CostEntryInput) (entry *domain.CostEntry, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "cost.create_entry", start, err, map[string]any{
			"entity_type": string(in.EntityType),
			"entity_id":   in.EntityID,
		})
	}()

	if err := authorize(ctx, s.engine, actor, authz.CreateCostEntry{}); err != nil {
		return nil, err
	}
	if err := validateEntryInput(in); err != nil {
		return nil, err
	}
	entryDate, err := parseEntryDate(in.EntryDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry = &domain.CostEntry{
		ID:         uuid.New().String(),
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Amount:     in.Amount,
		Category:   in.Category,
		Currency:   in.Currency,
		EntryDate:  entryDate,
		RecordedBy: actor.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := requireEntity(ctx, tx, in.EntityType, in.EntityID); err != nil {
			return err
		}
		if err := repository.NewSQLiteCostEntryRepo(tx).Create(ctx, entry); err != nil {
			return err
		}
		return s.rollup.run(ctx, tx, in.EntityType, in.EntityID)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "cost.create", string(in.EntityType), in.EntityID, entry.Amount.String())
	return entry, nil
}

func (s *costService) UpdateEntry(ctx context.Context, actor domain.Actor, id string, in CostEntryInput) (updated *domain.CostEntry, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "cost.update_entry", start, err, map[string]any{"entry_id": id})
	}()

	if err := authorize(ctx, s.engine, actor, authz.EditCostEntry{}); err != nil {
		return nil, err
	}
	if err := validateCurrency(in.Currency); err != nil {
		return nil, err
	}
	entryDate, err := parseEntryDate(in.EntryDate)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLiteCostEntryRepo(tx)
		entry, err := txEntries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// The entity binding is immutable; only the line values change.
		entry.Amount = in.Amount
		entry.Category = in.Category
		entry.Currency = in.Currency
		entry.EntryDate = entryDate
		entry.UpdatedAt = time.Now().UTC()
		if err := txEntries.Update(ctx, entry); err != nil {
			return err
		}
		updated = entry
		return s.rollup.run(ctx, tx, entry.EntityType, entry.EntityID)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "cost.edit", string(updated.EntityType), updated.EntityID, updated.Amount.String())
	return updated, nil
}

func (s *costService) DeleteEntry(ctx context.Context, actor domain.Actor, id string) (err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "cost.delete_entry", start, err, map[string]any{"entry_id": id})
	}()

	if err := authorize(ctx, s.engine, actor, authz.DeleteCostEntry{}); err != nil {
		return err
	}

	var entityType domain.EntityType
	var entityID string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLiteCostEntryRepo(tx)
		entry, err := txEntries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		entityType, entityID = entry.EntityType, entry.EntityID
		if err := txEntries.Delete(ctx, id); err != nil {
			return err
		}
		return s.rollup.run(ctx, tx, entityType, entityID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor.UserID, "cost.delete", string(entityType), entityID, id)
	return nil
}

func (s *costService) ListByEntity(ctx context.Context, actor domain.Actor, entityType domain.EntityType, entityID string) ([]*domain.CostEntry, error) {
	if err := authorize(ctx, s.engine, actor, authz.ViewCosts{}); err != nil {
		return nil, err
	}
	return s.entries.ListByEntity(ctx, entityType, entityID)
}

func validateEntryInput(in CostEntryInput) error {
	if !domain.ValidEntityTypes[string(in.EntityType)] {
		return apperr.Validation("unknown entity type %q", in.EntityType)
	}
	if in.EntityID == "" {
		return apperr.Validation("entity id is required")
	}
	return validateCurrency(in.Currency)
}

// requireEntity verifies the tagged entity exists before a ledger line is
// attached to it.
func requireEntity(ctx context.Context, tx db.DBTX, entityType domain.EntityType, entityID string) error {
	var table string
	switch entityType {
	case domain.EntityPortfolio:
		table = "portfolios"
	case domain.EntityProduct:
		table = "products"
	case domain.EntityFeature:
		table = "features"
	case domain.EntityRelease:
		table = "releases"
	default:
		return apperr.Validation("unknown entity type %q", entityType)
	}

	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, entityID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s %s not found", entityType, entityID)
	}
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", entityType, err)
	}
	return nil
}
