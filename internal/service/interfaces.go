package service

import (
	"context"

	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/shopspring/decimal"
)

type PortfolioService interface {
	Create(ctx context.Context, actor domain.Actor, p *domain.Portfolio) error
	GetByID(ctx context.Context, id string) (*domain.Portfolio, error)
	List(ctx context.Context) ([]*domain.Portfolio, error)
	Update(ctx context.Context, actor domain.Actor, p *domain.Portfolio) error
	// Transition moves the portfolio to target, stamping the edge. reason is
	// required for a REJECTED target and ignored otherwise.
	Transition(ctx context.Context, actor domain.Actor, id string, target domain.GovernanceState, reason string) (*domain.Portfolio, error)
}

type ProductService interface {
	Create(ctx context.Context, actor domain.Actor, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Product, error)
	Update(ctx context.Context, actor domain.Actor, p *domain.Product) error
	Transition(ctx context.Context, actor domain.Actor, id string, target domain.GovernanceState, reason string) (*domain.Product, error)
}

type FeatureService interface {
	Create(ctx context.Context, actor domain.Actor, f *domain.Feature) error
	GetByID(ctx context.Context, id string) (*domain.Feature, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error)
	Update(ctx context.Context, actor domain.Actor, f *domain.Feature) error
	Transition(ctx context.Context, actor domain.Actor, id string, target domain.FeatureState) (*domain.Feature, error)
}

type ReleaseService interface {
	Create(ctx context.Context, actor domain.Actor, r *domain.Release) error
	GetByID(ctx context.Context, id string) (*domain.Release, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Release, error)
	Transition(ctx context.Context, actor domain.Actor, id string, target domain.GovernanceState, reason string) (*domain.Release, error)
	// SubmitGoNoGo flips the orthogonal go/no-go sub-workflow into its
	// submitted state; DecideGoNoGo records the decision; Lock requires a
	// prior GO decision.
	SubmitGoNoGo(ctx context.Context, actor domain.Actor, id string) (*domain.Release, error)
	DecideGoNoGo(ctx context.Context, actor domain.Actor, id string, decision domain.GoNoGoDecision) (*domain.Release, error)
	Lock(ctx context.Context, actor domain.Actor, id string) (*domain.Release, error)
	AddChecklistItem(ctx context.Context, actor domain.Actor, releaseID, item string) (*domain.ChecklistItem, error)
	ListChecklist(ctx context.Context, releaseID string) ([]*domain.ChecklistItem, error)
	CompleteChecklistItem(ctx context.Context, actor domain.Actor, releaseID, itemID string) error
}

// CostEntryInput carries the caller-supplied fields of a ledger line.
type CostEntryInput struct {
	EntityType domain.EntityType
	EntityID   string
	Amount     decimal.Decimal
	Category   string
	Currency   string
	EntryDate  string // YYYY-MM-DD
}

type CostService interface {
	CreateEntry(ctx context.Context, actor domain.Actor, in CostEntryInput) (*domain.CostEntry, error)
	UpdateEntry(ctx context.Context, actor domain.Actor, id string, in CostEntryInput) (*domain.CostEntry, error)
	DeleteEntry(ctx context.Context, actor domain.Actor, id string) error
	ListByEntity(ctx context.Context, actor domain.Actor, entityType domain.EntityType, entityID string) ([]*domain.CostEntry, error)
}

// AllocationInput carries the caller-supplied fields of a labor line.
// OverrideHourlyRate, when non-nil, bypasses rate-card resolution.
type AllocationInput struct {
	PortfolioID        string
	Phase              string
	TeamTypeID         string
	GradeRoleID        string
	FeatureID          *string
	Quarter            string
	ActualHours        float64
	Utilization        float64
	OverrideHourlyRate *decimal.Decimal
}

// AllocationCosts is the derived pair returned by ComputeCosts.
type AllocationCosts struct {
	ActualCost   decimal.Decimal
	DurationDays float64
}

type AllocationService interface {
	Create(ctx context.Context, actor domain.Actor, in AllocationInput) (*domain.ResourceAllocation, error)
	Update(ctx context.Context, actor domain.Actor, id string, in AllocationInput) (*domain.ResourceAllocation, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	ListByPortfolio(ctx context.Context, actor domain.Actor, portfolioID string) ([]*domain.ResourceAllocation, error)
	// PortfolioUtilization sums allocation actual cost for the portfolio —
	// the allocation-driven cost universe, independent of the ledger rollup.
	PortfolioUtilization(ctx context.Context, actor domain.Actor, portfolioID string) (decimal.Decimal, error)
}

// RateCardInput carries the caller-supplied fields of a rate card. Exactly
// one of the three cost figures must be positive; the others are derived.
type RateCardInput struct {
	TeamTypeID    string
	GradeRoleID   string
	MonthlyCost   decimal.Decimal
	Currency      string
	EffectiveFrom string // YYYY-MM-DD
	EffectiveTo   string // YYYY-MM-DD, empty = open-ended
}

type RateCardService interface {
	Create(ctx context.Context, actor domain.Actor, in RateCardInput) (*domain.RateCard, error)
	List(ctx context.Context) ([]*domain.RateCard, error)
	Deactivate(ctx context.Context, actor domain.Actor, id string) error
	// LookupHourlyCost resolves the current hourly rate for the pair.
	// Returns (nil, nil) when no active card matches.
	LookupHourlyCost(ctx context.Context, teamTypeID, gradeRoleID string) (*decimal.Decimal, error)
}

type FreezeService interface {
	Get(ctx context.Context) (*domain.SystemFreeze, error)
	SetFreeze(ctx context.Context, actor domain.Actor, reason string) error
	ClearFreeze(ctx context.Context, actor domain.Actor) error
}

type UserService interface {
	Create(ctx context.Context, actor domain.Actor, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	// SetAssignedPortfolio repoints a program manager at a portfolio.
	SetAssignedPortfolio(ctx context.Context, actor domain.Actor, userID string, portfolioID *string) error
	AssignProduct(ctx context.Context, actor domain.Actor, userID, productID string) error
	UnassignProduct(ctx context.Context, actor domain.Actor, userID, productID string) error
}

type AuditService interface {
	ListRecent(ctx context.Context, actor domain.Actor, limit int) ([]*repository.AuditEvent, error)
}
