package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/steward/internal/domain"
	"github.com/shopspring/decimal"
)

type PortfolioRepo interface {
	Create(ctx context.Context, p *domain.Portfolio) error
	GetByID(ctx context.Context, id string) (*domain.Portfolio, error)
	GetByCode(ctx context.Context, code string) (*domain.Portfolio, error)
	List(ctx context.Context) ([]*domain.Portfolio, error)
	Update(ctx context.Context, p *domain.Portfolio) error
	UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error
	// CountOpenByPortfolio counts child products still in DRAFT or SUBMITTED,
	// the guard consulted before a portfolio archive.
	CountOpenByPortfolio(ctx context.Context, portfolioID string) (int, error)
	SumActualCostByPortfolio(ctx context.Context, portfolioID string) (decimal.Decimal, error)
	Delete(ctx context.Context, id string) error
}

type FeatureRepo interface {
	Create(ctx context.Context, f *domain.Feature) error
	GetByID(ctx context.Context, id string) (*domain.Feature, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error)
	ListByRelease(ctx context.Context, releaseID string) ([]*domain.Feature, error)
	Update(ctx context.Context, f *domain.Feature) error
	UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error
	SumActualCostByProduct(ctx context.Context, productID string) (decimal.Decimal, error)
	SumActualCostByRelease(ctx context.Context, releaseID string) (decimal.Decimal, error)
	Delete(ctx context.Context, id string) error
}

type ReleaseRepo interface {
	Create(ctx context.Context, r *domain.Release) error
	GetByID(ctx context.Context, id string) (*domain.Release, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Release, error)
	Update(ctx context.Context, r *domain.Release) error
	UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error
	AddChecklistItem(ctx context.Context, item *domain.ChecklistItem) error
	ListChecklist(ctx context.Context, releaseID string) ([]*domain.ChecklistItem, error)
	SetChecklistCompleted(ctx context.Context, itemID string, completed bool) error
	Delete(ctx context.Context, id string) error
}

type CostEntryRepo interface {
	Create(ctx context.Context, e *domain.CostEntry) error
	GetByID(ctx context.Context, id string) (*domain.CostEntry, error)
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]*domain.CostEntry, error)
	Update(ctx context.Context, e *domain.CostEntry) error
	Delete(ctx context.Context, id string) error
	// SumByEntity re-aggregates from source rows; the rollup engine never
	// propagates cached deltas.
	SumByEntity(ctx context.Context, entityType domain.EntityType, entityID string) (decimal.Decimal, error)
}

type AllocationRepo interface {
	Create(ctx context.Context, a *domain.ResourceAllocation) error
	GetByID(ctx context.Context, id string) (*domain.ResourceAllocation, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.ResourceAllocation, error)
	Update(ctx context.Context, a *domain.ResourceAllocation) error
	Delete(ctx context.Context, id string) error
	SumActualCostByPortfolio(ctx context.Context, portfolioID string) (decimal.Decimal, error)
}

type RateCardRepo interface {
	Create(ctx context.Context, c *domain.RateCard) error
	GetByID(ctx context.Context, id string) (*domain.RateCard, error)
	List(ctx context.Context) ([]*domain.RateCard, error)
	Update(ctx context.Context, c *domain.RateCard) error
	// FindActive resolves the active card for the pair with the latest
	// not-yet-future effective date. Returns (nil, nil) when no card matches.
	FindActive(ctx context.Context, teamTypeID, gradeRoleID string, asOf time.Time) (*domain.RateCard, error)
	// HasOverlap reports whether an active card for the pair overlaps the
	// [from, to) window, excluding the card with excludeID.
	HasOverlap(ctx context.Context, teamTypeID, gradeRoleID string, from time.Time, to *time.Time, excludeID string) (bool, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Assign(ctx context.Context, userID, productID string) error
	Unassign(ctx context.Context, userID, productID string) error
	IsAssigned(ctx context.Context, userID, productID string) (bool, error)
	ListProducts(ctx context.Context, userID string) ([]string, error)
	ListManagers(ctx context.Context, productID string) ([]string, error)
}

type FreezeRepo interface {
	Get(ctx context.Context) (*domain.SystemFreeze, error)
	Frozen(ctx context.Context) (bool, error)
	Set(ctx context.Context, frozen bool, reason, actor string) error
}

// AuditEvent is one append-only audit row. The sink is fire-and-forget:
// append failures are logged by the caller and never fail the mutation that
// produced them.
type AuditEvent struct {
	ID         string
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}

type AuditRepo interface {
	Append(ctx context.Context, ev *AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]*AuditEvent, error)
}
