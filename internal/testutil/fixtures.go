package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/steward/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testCodeCounter atomic.Int64

func nextCode(prefix string) string {
	return fmt.Sprintf("%s-%03d", prefix, testCodeCounter.Add(1))
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithAssignedPortfolio(id string) UserOption {
	return func(u *domain.User) {
		u.AssignedPortfolioID = &id
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      domain.RoleViewer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Portfolio options
type PortfolioOption func(*domain.Portfolio)

func WithPortfolioState(s domain.GovernanceState) PortfolioOption {
	return func(p *domain.Portfolio) {
		p.State = s
	}
}

func WithProgramManager(userID string) PortfolioOption {
	return func(p *domain.Portfolio) {
		p.ProgramManager = userID
	}
}

func WithEstimatedBudget(d decimal.Decimal) PortfolioOption {
	return func(p *domain.Portfolio) {
		p.EstimatedBudget = d
	}
}

func WithPortfolioLocked(by string) PortfolioOption {
	return func(p *domain.Portfolio) {
		now := time.Now().UTC()
		p.Locked = true
		p.LockedBy = by
		p.LockedAt = &now
	}
}

func NewTestPortfolio(name string, opts ...PortfolioOption) *domain.Portfolio {
	now := time.Now().UTC()
	p := &domain.Portfolio{
		ID:              uuid.New().String(),
		Code:            nextCode("PF"),
		Name:            name,
		State:           domain.StateDraft,
		Priority:        1,
		EstimatedBudget: decimal.Zero,
		ActualCost:      decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Product options
type ProductOption func(*domain.Product)

func WithProductState(s domain.GovernanceState) ProductOption {
	return func(p *domain.Product) {
		p.State = s
	}
}

func WithProductLocked(by string) ProductOption {
	return func(p *domain.Product) {
		now := time.Now().UTC()
		p.Locked = true
		p.LockedBy = by
		p.LockedAt = &now
	}
}

func NewTestProduct(portfolioID, name string, opts ...ProductOption) *domain.Product {
	now := time.Now().UTC()
	p := &domain.Product{
		ID:            uuid.New().String(),
		PortfolioID:   portfolioID,
		Code:          nextCode("PD"),
		Name:          name,
		State:         domain.StateDraft,
		EstimatedCost: decimal.Zero,
		ActualCost:    decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feature options
type FeatureOption func(*domain.Feature)

func WithFeatureState(s domain.FeatureState) FeatureOption {
	return func(f *domain.Feature) {
		f.State = s
	}
}

func WithRelease(releaseID string) FeatureOption {
	return func(f *domain.Feature) {
		f.ReleaseID = &releaseID
	}
}

func NewTestFeature(productID, name string, opts ...FeatureOption) *domain.Feature {
	now := time.Now().UTC()
	f := &domain.Feature{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Name:       name,
		State:      domain.FeatureDiscovery,
		ActualCost: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Release options
type ReleaseOption func(*domain.Release)

func WithReleaseState(s domain.GovernanceState) ReleaseOption {
	return func(r *domain.Release) {
		r.State = s
	}
}

func WithGoDecision(by string) ReleaseOption {
	return func(r *domain.Release) {
		now := time.Now().UTC()
		decision := domain.DecisionGo
		r.GoNogoSubmitted = true
		r.GoNogoSubmittedAt = &now
		r.GoNogoSubmittedBy = by
		r.GoNogoDecision = &decision
		r.GoNogoDecidedAt = &now
		r.GoNogoDecidedBy = by
	}
}

func NewTestRelease(productID, name string, opts ...ReleaseOption) *domain.Release {
	now := time.Now().UTC()
	r := &domain.Release{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Name:       name,
		State:      domain.StateDraft,
		ActualCost: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CostEntry options
type CostEntryOption func(*domain.CostEntry)

func WithCategory(c string) CostEntryOption {
	return func(e *domain.CostEntry) {
		e.Category = c
	}
}

func WithEntryDate(d time.Time) CostEntryOption {
	return func(e *domain.CostEntry) {
		e.EntryDate = d
	}
}

func NewTestCostEntry(entityType domain.EntityType, entityID string, amount string, opts ...CostEntryOption) *domain.CostEntry {
	now := time.Now().UTC()
	e := &domain.CostEntry{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		Amount:     decimal.RequireFromString(amount),
		Category:   "GENERAL",
		Currency:   "USD",
		EntryDate:  now,
		RecordedBy: "test-user",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RateCard options
type RateCardOption func(*domain.RateCard)

func WithEffectiveWindow(from time.Time, to *time.Time) RateCardOption {
	return func(c *domain.RateCard) {
		c.EffectiveFrom = from
		c.EffectiveTo = to
	}
}

func WithInactive() RateCardOption {
	return func(c *domain.RateCard) {
		c.Active = false
	}
}

func NewTestRateCard(teamTypeID, gradeRoleID, monthly string, opts ...RateCardOption) *domain.RateCard {
	now := time.Now().UTC()
	m := decimal.RequireFromString(monthly)
	daily := m.Div(decimal.NewFromInt(22)).Round(2)
	c := &domain.RateCard{
		ID:            uuid.New().String(),
		TeamTypeID:    teamTypeID,
		GradeRoleID:   gradeRoleID,
		MonthlyCost:   m,
		DailyCost:     daily,
		HourlyCost:    daily.Div(decimal.NewFromInt(8)).Round(2),
		Currency:      "USD",
		EffectiveFrom: now.AddDate(0, -1, 0),
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
