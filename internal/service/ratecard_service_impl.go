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

type rateCardService struct {
	engine    *authz.Engine
	ratecards repository.RateCardRepo
	hours     costing.WorkingHours
	audit     AuditSink
}

func NewRateCardService(engine *authz.Engine, ratecards repository.RateCardRepo, audit AuditSink) RateCardService {
	return &rateCardService{engine: engine, ratecards: ratecards, hours: costing.DefaultWorkingHours, audit: audit}
}

func (s *rateCardService) Create(ctx context.Context, actor domain.Actor, in RateCardInput) (*domain.RateCard, error) {
	if err := authorize(ctx, s.engine, actor, authz.ManageRateCards{}); err != nil {
		return nil, err
	}
	if in.TeamTypeID == "" || in.GradeRoleID == "" {
		return nil, apperr.Validation("rate card requires a team type and grade/role")
	}
	if !in.MonthlyCost.IsPositive() {
		return nil, apperr.Validation("monthly cost must be positive")
	}
	if err := validateCurrency(in.Currency); err != nil {
		return nil, err
	}

	from, err := parseEntryDate(in.EffectiveFrom)
	if err != nil {
		return nil, err
	}
	var to *time.Time
	if in.EffectiveTo != "" {
		t, err := parseEntryDate(in.EffectiveTo)
		if err != nil {
			return nil, err
		}
		if !t.After(from) {
			return nil, apperr.Validation("effective-to must be after effective-from")
		}
		to = &t
	}

	overlap, err := s.ratecards.HasOverlap(ctx, in.TeamTypeID, in.GradeRoleID, from, to, "")
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperr.Conflict("an active rate card for %s/%s already covers that window", in.TeamTypeID, in.GradeRoleID)
	}

	now := time.Now().UTC()
	daily := costing.DailyFromMonthly(in.MonthlyCost, s.hours)
	card := &domain.RateCard{
		ID:            uuid.New().String(),
		TeamTypeID:    in.TeamTypeID,
		GradeRoleID:   in.GradeRoleID,
		MonthlyCost:   in.MonthlyCost,
		DailyCost:     daily,
		HourlyCost:    costing.HourlyFromDaily(daily, s.hours),
		Currency:      in.Currency,
		EffectiveFrom: from,
		EffectiveTo:   to,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.ratecards.Create(ctx, card); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.UserID, "ratecard.create", "RATE_CARD", card.ID, in.TeamTypeID+"/"+in.GradeRoleID)
	return card, nil
}

func (s *rateCardService) List(ctx context.Context) ([]*domain.RateCard, error) {
	return s.ratecards.List(ctx)
}

// Deactivate retires a card without touching existing allocations: their
// snapshotted rates stay as written.
func (s *rateCardService) Deactivate(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(ctx, s.engine, actor, authz.ManageRateCards{}); err != nil {
		return err
	}
	card, err := s.ratecards.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !card.Active {
		return apperr.Conflict("rate card %s is already inactive", id)
	}
	card.Active = false
	card.UpdatedAt = time.Now().UTC()
	if err := s.ratecards.Update(ctx, card); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "ratecard.deactivate", "RATE_CARD", id, "")
	return nil
}

func (s *rateCardService) LookupHourlyCost(ctx context.Context, teamTypeID, gradeRoleID string) (*decimal.Decimal, error) {
	card, err := s.ratecards.FindActive(ctx, teamTypeID, gradeRoleID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}
	hourly := card.HourlyCost
	return &hourly, nil
}
