package service_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateCardInput(team, grade, monthly string) service.RateCardInput {
	return service.RateCardInput{
		TeamTypeID:    team,
		GradeRoleID:   grade,
		MonthlyCost:   decimal.RequireFromString(monthly),
		Currency:      "USD",
		EffectiveFrom: "2026-01-01",
	}
}

func TestRateCardCreate_DerivesDailyAndHourly(t *testing.T) {
	e := newEnv(t)
	svc := e.rateCardService()

	card, err := svc.Create(context.Background(), adminActor, rateCardInput("ENG", "SENIOR", "36000"))
	require.NoError(t, err)
	assert.Equal(t, "1636.36", card.DailyCost.String())
	assert.Equal(t, "204.55", card.HourlyCost.String())
	assert.True(t, card.Active)
	assert.Nil(t, card.EffectiveTo)
}

func TestRateCardCreate_Validation(t *testing.T) {
	e := newEnv(t)
	svc := e.rateCardService()
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, rateCardInput("ENG", "SENIOR", "0"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in := rateCardInput("ENG", "SENIOR", "36000")
	in.EffectiveTo = "2025-12-01" // before effective-from
	_, err = svc.Create(ctx, adminActor, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = rateCardInput("", "SENIOR", "36000")
	_, err = svc.Create(ctx, adminActor, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRateCardCreate_OverlapConflicts(t *testing.T) {
	e := newEnv(t)
	svc := e.rateCardService()
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, rateCardInput("ENG", "SENIOR", "36000"))
	require.NoError(t, err)

	in := rateCardInput("ENG", "SENIOR", "40000")
	in.EffectiveFrom = "2026-06-01"
	_, err = svc.Create(ctx, adminActor, in)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// A different pair is free to overlap in time.
	_, err = svc.Create(ctx, adminActor, rateCardInput("ENG", "JUNIOR", "18000"))
	require.NoError(t, err)
}

func TestRateCardCreate_AdminOnly(t *testing.T) {
	e := newEnv(t)
	svc := e.rateCardService()

	_, err := svc.Create(context.Background(), viewerActor, rateCardInput("ENG", "SENIOR", "36000"))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRateCardDeactivate(t *testing.T) {
	e := newEnv(t)
	svc := e.rateCardService()
	ctx := context.Background()

	card, err := svc.Create(ctx, adminActor, rateCardInput("ENG", "SENIOR", "36000"))
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, adminActor, card.ID))
	err = svc.Deactivate(ctx, adminActor, card.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// The retired card no longer resolves.
	hourly, err := svc.LookupHourlyCost(ctx, "ENG", "SENIOR")
	require.NoError(t, err)
	assert.Nil(t, hourly)
}

func TestLookupHourlyCost(t *testing.T) {
	e := newEnv(t)
	svc := e.rateCardService()
	ctx := context.Background()

	hourly, err := svc.LookupHourlyCost(ctx, "ENG", "SENIOR")
	require.NoError(t, err)
	assert.Nil(t, hourly)

	_, err = svc.Create(ctx, adminActor, rateCardInput("ENG", "SENIOR", "36000"))
	require.NoError(t, err)

	hourly, err = svc.LookupHourlyCost(ctx, "ENG", "SENIOR")
	require.NoError(t, err)
	require.NotNil(t, hourly)
	assert.Equal(t, "204.55", hourly.String())
}
