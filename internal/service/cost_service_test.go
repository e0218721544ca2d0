package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/alexanderramin/steward/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCostTree creates portfolio -> product -> feature, with the feature
// attached to a release under the same product.
func seedCostTree(t *testing.T, e *env) (*domain.Portfolio, *domain.Product, *domain.Feature, *domain.Release) {
	t.Helper()
	ctx := context.Background()
	pf := testutil.NewTestPortfolio("Platform")
	require.NoError(t, e.portfolios.Create(ctx, pf))
	pd := testutil.NewTestProduct(pf.ID, "Billing")
	require.NoError(t, e.products.Create(ctx, pd))
	rl := testutil.NewTestRelease(pd.ID, "v1.0")
	require.NoError(t, e.releases.Create(ctx, rl))
	ft := testutil.NewTestFeature(pd.ID, "Invoicing", testutil.WithRelease(rl.ID))
	require.NoError(t, e.features.Create(ctx, ft))
	return pf, pd, ft, rl
}

func entryInput(entityType domain.EntityType, entityID, amount string) service.CostEntryInput {
	return service.CostEntryInput{
		EntityType: entityType,
		EntityID:   entityID,
		Amount:     decimal.RequireFromString(amount),
		Category:   "GENERAL",
		Currency:   "USD",
		EntryDate:  "2026-08-30",
	}
}

func actualCosts(t *testing.T, e *env, pf *domain.Portfolio, pd *domain.Product, ft *domain.Feature) (string, string, string) {
	t.Helper()
	ctx := context.Background()
	gotFt, err := e.features.GetByID(ctx, ft.ID)
	require.NoError(t, err)
	gotPd, err := e.products.GetByID(ctx, pd.ID)
	require.NoError(t, err)
	gotPf, err := e.portfolios.GetByID(ctx, pf.ID)
	require.NoError(t, err)
	return gotFt.ActualCost.String(), gotPd.ActualCost.String(), gotPf.ActualCost.String()
}

func TestCreateEntry_RollsUpFeatureChain(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	ctx := context.Background()
	pf, pd, ft, rl := seedCostTree(t, e)

	_, err := svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "100.25"))
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "49.75"))
	require.NoError(t, err)

	ftCost, pdCost, pfCost := actualCosts(t, e, pf, pd, ft)
	assert.Equal(t, "150", ftCost)
	assert.Equal(t, "150", pdCost)
	assert.Equal(t, "150", pfCost)

	// The release rolls up the same feature rows on its parallel path.
	gotRl, err := e.releases.GetByID(ctx, rl.ID)
	require.NoError(t, err)
	assert.Equal(t, "150", gotRl.ActualCost.String())
}

func TestCreateEntry_ProductDirectEntriesAdd(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	ctx := context.Background()
	pf, pd, ft, _ := seedCostTree(t, e)

	_, err := svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "100"))
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityProduct, pd.ID, "40"))
	require.NoError(t, err)

	ftCost, pdCost, pfCost := actualCosts(t, e, pf, pd, ft)
	assert.Equal(t, "100", ftCost)
	assert.Equal(t, "140", pdCost)
	assert.Equal(t, "140", pfCost)
}

func TestCreateEntry_DirectPortfolioEntryDoesNotFeedAggregate(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	ctx := context.Background()
	pf, _, _, _ := seedCostTree(t, e)

	_, err := svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityPortfolio, pf.ID, "500"))
	require.NoError(t, err)

	// The row is a valid ledger line, but the portfolio aggregate stays the
	// sum of its products.
	gotPf, err := e.portfolios.GetByID(ctx, pf.ID)
	require.NoError(t, err)
	assert.True(t, gotPf.ActualCost.IsZero())

	entries, err := svc.ListByEntity(ctx, adminActor, domain.EntityPortfolio, pf.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpdateEntry_Rerolls(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	ctx := context.Background()
	pf, pd, ft, _ := seedCostTree(t, e)

	entry, err := svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "100"))
	require.NoError(t, err)

	_, err = svc.UpdateEntry(ctx, adminActor, entry.ID, entryInput(domain.EntityFeature, ft.ID, "25"))
	require.NoError(t, err)

	ftCost, pdCost, pfCost := actualCosts(t, e, pf, pd, ft)
	assert.Equal(t, "25", ftCost)
	assert.Equal(t, "25", pdCost)
	assert.Equal(t, "25", pfCost)
}

func TestDeleteEntry_Rerolls(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	ctx := context.Background()
	pf, pd, ft, _ := seedCostTree(t, e)

	entry, err := svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "100"))
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "60"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, adminActor, entry.ID))

	ftCost, pdCost, pfCost := actualCosts(t, e, pf, pd, ft)
	assert.Equal(t, "60", ftCost)
	assert.Equal(t, "60", pdCost)
	assert.Equal(t, "60", pfCost)
}

func TestCreateEntry_UnknownEntity(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()

	_, err := svc.CreateEntry(context.Background(), adminActor, entryInput(domain.EntityFeature, "no-such-feature", "100"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateEntry_Validation(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	ctx := context.Background()
	_, _, ft, _ := seedCostTree(t, e)

	in := entryInput(domain.EntityFeature, ft.ID, "100")
	in.Currency = "usd"
	_, err := svc.CreateEntry(ctx, adminActor, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = entryInput(domain.EntityFeature, ft.ID, "100")
	in.EntryDate = "30-08-2026"
	_, err = svc.CreateEntry(ctx, adminActor, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = entryInput("TEAM", ft.ID, "100")
	_, err = svc.CreateEntry(ctx, adminActor, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateEntry_ViewerForbidden(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	_, _, ft, _ := seedCostTree(t, e)

	_, err := svc.CreateEntry(context.Background(), viewerActor, entryInput(domain.EntityFeature, ft.ID, "100"))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCreateEntry_FrozenDeniesWrite(t *testing.T) {
	e := newEnv(t)
	svc := e.costService()
	ctx := context.Background()
	pf, _, ft, _ := seedCostTree(t, e)

	require.NoError(t, e.freeze.Set(ctx, true, "quarter-end close", "root"))

	pm := programManagerFor(pf.ID)
	_, err := svc.CreateEntry(ctx, pm, entryInput(domain.EntityFeature, ft.ID, "100"))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// Reads still pass, and the super admin bypasses the freeze.
	_, err = svc.ListByEntity(ctx, pm, domain.EntityFeature, ft.ID)
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "100"))
	require.NoError(t, err)
}

func TestCreateEntry_RollbackLeavesNoPartialState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pf, pd, ft, _ := seedCostTree(t, e)

	// Exec 1 inserts the entry, exec 2 writes the feature aggregate. Failing
	// exec 3 (the first ancestor aggregate) must roll back the whole chain.
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: e.db, FailOn: 3, Err: boom}
	svc := service.NewCostService(e.engine, e.entries, uow, e.audit, nil)

	_, err := svc.CreateEntry(ctx, adminActor, entryInput(domain.EntityFeature, ft.ID, "100"))
	require.ErrorIs(t, err, boom)

	ftCost, pdCost, pfCost := actualCosts(t, e, pf, pd, ft)
	assert.Equal(t, "0", ftCost)
	assert.Equal(t, "0", pdCost)
	assert.Equal(t, "0", pfCost)

	entries, err := e.entries.ListByEntity(ctx, domain.EntityFeature, ft.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
