package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/alexanderramin/steward/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoSet struct {
	portfolios  *repository.SQLitePortfolioRepo
	products    *repository.SQLiteProductRepo
	features    *repository.SQLiteFeatureRepo
	releases    *repository.SQLiteReleaseRepo
	entries     *repository.SQLiteCostEntryRepo
	allocations *repository.SQLiteAllocationRepo
}

func newRepoSet(t *testing.T) repoSet {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repoSet{
		portfolios:  repository.NewSQLitePortfolioRepo(database),
		products:    repository.NewSQLiteProductRepo(database),
		features:    repository.NewSQLiteFeatureRepo(database),
		releases:    repository.NewSQLiteReleaseRepo(database),
		entries:     repository.NewSQLiteCostEntryRepo(database),
		allocations: repository.NewSQLiteAllocationRepo(database),
	}
}

func (s repoSet) seedTree(t *testing.T, ctx context.Context) (*domain.Portfolio, *domain.Product, *domain.Feature) {
	t.Helper()
	pf := testutil.NewTestPortfolio("Platform")
	require.NoError(t, s.portfolios.Create(ctx, pf))
	pd := testutil.NewTestProduct(pf.ID, "Billing")
	require.NoError(t, s.products.Create(ctx, pd))
	ft := testutil.NewTestFeature(pd.ID, "Invoicing")
	require.NoError(t, s.features.Create(ctx, ft))
	return pf, pd, ft
}

func TestSumByEntity(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	_, _, ft := s.seedTree(t, ctx)

	require.NoError(t, s.entries.Create(ctx, testutil.NewTestCostEntry(domain.EntityFeature, ft.ID, "100.25")))
	require.NoError(t, s.entries.Create(ctx, testutil.NewTestCostEntry(domain.EntityFeature, ft.ID, "50.50")))

	sum, err := s.entries.SumByEntity(ctx, domain.EntityFeature, ft.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.75", sum.String())

	// No rows sums to zero, not an error.
	sum, err = s.entries.SumByEntity(ctx, domain.EntityFeature, "no-such-feature")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestSumByEntity_SeparatesEntityTypes(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	_, pd, ft := s.seedTree(t, ctx)

	require.NoError(t, s.entries.Create(ctx, testutil.NewTestCostEntry(domain.EntityFeature, ft.ID, "100")))
	require.NoError(t, s.entries.Create(ctx, testutil.NewTestCostEntry(domain.EntityProduct, pd.ID, "40")))

	sum, err := s.entries.SumByEntity(ctx, domain.EntityProduct, pd.ID)
	require.NoError(t, err)
	assert.Equal(t, "40", sum.String())
}

func TestSumActualCostAcrossHierarchy(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	pf, pd, ft := s.seedTree(t, ctx)

	other := testutil.NewTestFeature(pd.ID, "Payments")
	require.NoError(t, s.features.Create(ctx, other))

	require.NoError(t, s.features.UpdateActualCost(ctx, ft.ID, decimal.RequireFromString("120.50")))
	require.NoError(t, s.features.UpdateActualCost(ctx, other.ID, decimal.RequireFromString("79.50")))

	sum, err := s.features.SumActualCostByProduct(ctx, pd.ID)
	require.NoError(t, err)
	assert.Equal(t, "200", sum.String())

	require.NoError(t, s.products.UpdateActualCost(ctx, pd.ID, decimal.RequireFromString("250")))

	sum, err = s.products.SumActualCostByPortfolio(ctx, pf.ID)
	require.NoError(t, err)
	assert.Equal(t, "250", sum.String())
}

func TestSumActualCostByRelease(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	_, pd, _ := s.seedTree(t, ctx)

	rl := testutil.NewTestRelease(pd.ID, "v1.0")
	require.NoError(t, s.releases.Create(ctx, rl))

	in := testutil.NewTestFeature(pd.ID, "Shipped", testutil.WithRelease(rl.ID))
	out := testutil.NewTestFeature(pd.ID, "Backlog")
	require.NoError(t, s.features.Create(ctx, in))
	require.NoError(t, s.features.Create(ctx, out))

	require.NoError(t, s.features.UpdateActualCost(ctx, in.ID, decimal.RequireFromString("75.25")))
	require.NoError(t, s.features.UpdateActualCost(ctx, out.ID, decimal.RequireFromString("999")))

	sum, err := s.features.SumActualCostByRelease(ctx, rl.ID)
	require.NoError(t, err)
	assert.Equal(t, "75.25", sum.String())
}

func TestCountOpenByPortfolio(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	pf, _, _ := s.seedTree(t, ctx) // seeded product is DRAFT

	submitted := testutil.NewTestProduct(pf.ID, "Submitted", testutil.WithProductState(domain.StateSubmitted))
	approved := testutil.NewTestProduct(pf.ID, "Approved", testutil.WithProductState(domain.StateApproved))
	archived := testutil.NewTestProduct(pf.ID, "Archived", testutil.WithProductState(domain.StateArchived))
	require.NoError(t, s.products.Create(ctx, submitted))
	require.NoError(t, s.products.Create(ctx, approved))
	require.NoError(t, s.products.Create(ctx, archived))

	count, err := s.products.CountOpenByPortfolio(ctx, pf.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPortfolioDeleteCascades(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	pf, pd, ft := s.seedTree(t, ctx)

	alloc := &domain.ResourceAllocation{
		ID:          uuid.New().String(),
		PortfolioID: pf.ID,
		Phase:       "BUILD",
		TeamTypeID:  "ENG",
		GradeRoleID: "SENIOR",
		Quarter:     "2026-Q3",
		HourlyRate:  decimal.RequireFromString("204.55"),
		ActualHours: 160,
		Utilization: 1,
		ActualCost:  decimal.RequireFromString("32728"),
		CreatedBy:   "test-user",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.allocations.Create(ctx, alloc))

	require.NoError(t, s.portfolios.Delete(ctx, pf.ID))

	_, err := s.products.GetByID(ctx, pd.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = s.features.GetByID(ctx, ft.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = s.allocations.GetByID(ctx, alloc.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestReleaseDeleteDetachesFeatures(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	_, pd, _ := s.seedTree(t, ctx)

	rl := testutil.NewTestRelease(pd.ID, "v1.0")
	require.NoError(t, s.releases.Create(ctx, rl))
	ft := testutil.NewTestFeature(pd.ID, "Shipped", testutil.WithRelease(rl.ID))
	require.NoError(t, s.features.Create(ctx, ft))

	require.NoError(t, s.releases.Delete(ctx, rl.ID))

	got, err := s.features.GetByID(ctx, ft.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReleaseID)
}

func TestChecklistCascadesWithRelease(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()
	_, pd, _ := s.seedTree(t, ctx)

	rl := testutil.NewTestRelease(pd.ID, "v1.0")
	require.NoError(t, s.releases.Create(ctx, rl))

	item := &domain.ChecklistItem{
		ID:        uuid.New().String(),
		ReleaseID: rl.ID,
		Item:      "Security review signed off",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.releases.AddChecklistItem(ctx, item))

	require.NoError(t, s.releases.SetChecklistCompleted(ctx, item.ID, true))
	items, err := s.releases.ListChecklist(ctx, rl.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed)

	require.NoError(t, s.releases.Delete(ctx, rl.ID))
	items, err = s.releases.ListChecklist(ctx, rl.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
