package service

import (
	"context"
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/costing"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type allocationService struct {
	engine      *authz.Engine
	allocations repository.AllocationRepo
	ratecards   repository.RateCardRepo
	portfolios  repository.PortfolioRepo
	hours       costing.WorkingHours
	audit       AuditSink
}

func NewAllocationService(engine *authz.Engine, allocations repository.AllocationRepo, ratecards repository.RateCardRepo, portfolios repository.PortfolioRepo, audit AuditSink) AllocationService {
	return &allocationService{
		engine:      engine,
		allocations: allocations,
		ratecards:   ratecards,
		portfolios:  portfolios,
		hours:       costing.DefaultWorkingHours,
		audit:       audit,
	}
}

// ComputeCosts derives the cost pair for a labor line from its snapshotted
// rate. Utilization is expected to be normalized already.
func ComputeCosts(rate decimal.Decimal, hours, utilization float64, wh costing.WorkingHours) AllocationCosts {
	return AllocationCosts{
		ActualCost:   costing.AllocationCost(rate, hours, utilization),
		DurationDays: costing.DurationDays(hours, wh),
	}
}

func (s *allocationService) Create(ctx context.Context, actor domain.Actor, in AllocationInput) (*domain.ResourceAllocation, error) {
	if err := authorize(ctx, s.engine, actor, authz.CreateAllocation{PortfolioID: in.PortfolioID}); err != nil {
		return nil, err
	}
	if err := validateAllocationInput(in); err != nil {
		return nil, err
	}
	if _, err := s.portfolios.GetByID(ctx, in.PortfolioID); err != nil {
		return nil, err
	}

	rate, err := s.resolveHourlyRate(ctx, in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	util := costing.NormalizeUtilization(in.Utilization)
	costs := ComputeCosts(rate, in.ActualHours, util, s.hours)
	a := &domain.ResourceAllocation{
		ID:           uuid.New().String(),
		PortfolioID:  in.PortfolioID,
		Phase:        in.Phase,
		TeamTypeID:   in.TeamTypeID,
		GradeRoleID:  in.GradeRoleID,
		FeatureID:    in.FeatureID,
		Quarter:      in.Quarter,
		HourlyRate:   rate,
		ActualHours:  in.ActualHours,
		Utilization:  util,
		ActualCost:   costs.ActualCost,
		DurationDays: costs.DurationDays,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.allocations.Create(ctx, a); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "allocation.create", string(domain.EntityPortfolio), in.PortfolioID, a.ID)
	return a, nil
}

func (s *allocationService) Update(ctx context.Context, actor domain.Actor, id string, in AllocationInput) (*domain.ResourceAllocation, error) {
	a, err := s.allocations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.engine, actor, authz.CreateAllocation{PortfolioID: a.PortfolioID}); err != nil {
		return nil, err
	}
	if in.PortfolioID != "" && in.PortfolioID != a.PortfolioID {
		return nil, apperr.Validation("allocation cannot move between portfolios")
	}
	in.PortfolioID = a.PortfolioID
	if err := validateAllocationInput(in); err != nil {
		return nil, err
	}

	// Editing re-snapshots the rate: the pair may have changed, and an edit
	// is the one moment a newer card is allowed to take effect.
	rate, err := s.resolveHourlyRate(ctx, in)
	if err != nil {
		return nil, err
	}

	util := costing.NormalizeUtilization(in.Utilization)
	costs := ComputeCosts(rate, in.ActualHours, util, s.hours)
	a.Phase = in.Phase
	a.TeamTypeID = in.TeamTypeID
	a.GradeRoleID = in.GradeRoleID
	a.FeatureID = in.FeatureID
	a.Quarter = in.Quarter
	a.HourlyRate = rate
	a.ActualHours = in.ActualHours
	a.Utilization = util
	a.ActualCost = costs.ActualCost
	a.DurationDays = costs.DurationDays
	a.UpdatedAt = time.Now().UTC()

	if err := s.allocations.Update(ctx, a); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.UserID, "allocation.update", string(domain.EntityPortfolio), a.PortfolioID, a.ID)
	return a, nil
}

func (s *allocationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	a, err := s.allocations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(ctx, s.engine, actor, authz.DeleteAllocation{AllocationID: id}); err != nil {
		return err
	}
	if err := s.allocations.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "allocation.delete", string(domain.EntityPortfolio), a.PortfolioID, id)
	return nil
}

func (s *allocationService) ListByPortfolio(ctx context.Context, actor domain.Actor, portfolioID string) ([]*domain.ResourceAllocation, error) {
	if err := authorize(ctx, s.engine, actor, authz.ViewAllocations{PortfolioID: portfolioID}); err != nil {
		return nil, err
	}
	return s.allocations.ListByPortfolio(ctx, portfolioID)
}

func (s *allocationService) PortfolioUtilization(ctx context.Context, actor domain.Actor, portfolioID string) (decimal.Decimal, error) {
	if err := authorize(ctx, s.engine, actor, authz.ViewAllocations{PortfolioID: portfolioID}); err != nil {
		return decimal.Zero, err
	}
	return s.allocations.SumActualCostByPortfolio(ctx, portfolioID)
}

// resolveHourlyRate snapshots the rate for the allocation: an explicit
// override wins; otherwise the active rate card for the pair is consulted.
func (s *allocationService) resolveHourlyRate(ctx context.Context, in AllocationInput) (decimal.Decimal, error) {
	if in.OverrideHourlyRate != nil {
		if in.OverrideHourlyRate.IsNegative() {
			return decimal.Zero, apperr.Validation("hourly rate override must not be negative")
		}
		return *in.OverrideHourlyRate, nil
	}
	card, err := s.ratecards.FindActive(ctx, in.TeamTypeID, in.GradeRoleID, time.Now().UTC())
	if err != nil {
		return decimal.Zero, err
	}
	if card == nil {
		return decimal.Zero, apperr.Validation("no active rate card for team type %s and grade %s", in.TeamTypeID, in.GradeRoleID)
	}
	return card.HourlyCost, nil
}

func validateAllocationInput(in AllocationInput) error {
	if in.PortfolioID == "" {
		return apperr.Validation("allocation requires a portfolio id")
	}
	if in.TeamTypeID == "" || in.GradeRoleID == "" {
		return apperr.Validation("allocation requires a team type and grade/role")
	}
	if in.ActualHours < 0 {
		return apperr.Validation("actual hours must not be negative")
	}
	return nil
}
