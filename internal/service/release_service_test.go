package service_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedReleaseTree creates a portfolio/product pair with carol assigned as
// product manager, plus actors for both sides of the release split.
func seedReleaseTree(t *testing.T, e *env) (*domain.Product, domain.Actor, domain.Actor) {
	t.Helper()
	ctx := context.Background()
	pf := testutil.NewTestPortfolio("Platform", testutil.WithProgramManager("bob"))
	require.NoError(t, e.portfolios.Create(ctx, pf))
	pd := testutil.NewTestProduct(pf.ID, "Billing")
	require.NoError(t, e.products.Create(ctx, pd))

	carol := testutil.NewTestUser("Carol", testutil.WithRole(domain.RoleProductManager))
	carol.ID = "carol"
	require.NoError(t, e.users.Create(ctx, carol))
	require.NoError(t, e.assignments.Assign(ctx, "carol", pd.ID))

	productMgr := domain.Actor{UserID: "carol", Role: domain.RoleProductManager}
	return pd, productMgr, programManagerFor(pf.ID)
}

func TestGoNoGoFlow(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, productMgr, programMgr := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0")
	require.NoError(t, svc.Create(ctx, productMgr, rl))

	got, err := svc.SubmitGoNoGo(ctx, productMgr, rl.ID)
	require.NoError(t, err)
	assert.True(t, got.GoNogoSubmitted)
	assert.Equal(t, "carol", got.GoNogoSubmittedBy)

	// A second submission conflicts.
	_, err = svc.SubmitGoNoGo(ctx, productMgr, rl.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// The deciding authority sits one level up.
	_, err = svc.DecideGoNoGo(ctx, productMgr, rl.ID, domain.DecisionGo)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	got, err = svc.DecideGoNoGo(ctx, programMgr, rl.ID, domain.DecisionGo)
	require.NoError(t, err)
	require.NotNil(t, got.GoNogoDecision)
	assert.Equal(t, domain.DecisionGo, *got.GoNogoDecision)
	assert.Equal(t, "bob", got.GoNogoDecidedBy)

	// The decision is final.
	_, err = svc.DecideGoNoGo(ctx, programMgr, rl.ID, domain.DecisionNoGo)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestDecideGoNoGo_RequiresSubmission(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, _, programMgr := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0")
	require.NoError(t, e.releases.Create(ctx, rl))

	_, err := svc.DecideGoNoGo(ctx, programMgr, rl.ID, domain.DecisionGo)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.DecideGoNoGo(ctx, programMgr, rl.ID, "MAYBE")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestReleaseLock_RequiresGoDecision(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, productMgr, _ := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0", testutil.WithReleaseState(domain.StateApproved))
	require.NoError(t, e.releases.Create(ctx, rl))

	_, err := svc.Lock(ctx, productMgr, rl.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestReleaseLock_WithGoDecision(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, productMgr, _ := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0",
		testutil.WithReleaseState(domain.StateApproved),
		testutil.WithGoDecision("bob"))
	require.NoError(t, e.releases.Create(ctx, rl))

	// Transition to LOCKED routes through Lock and enforces the same guard.
	got, err := svc.Transition(ctx, productMgr, rl.ID, domain.StateLocked, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateLocked, got.State)
	assert.True(t, got.Locked)
}

func TestReleaseLock_IllegalFromDraft(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, productMgr, _ := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0", testutil.WithGoDecision("bob"))
	require.NoError(t, e.releases.Create(ctx, rl))

	_, err := svc.Lock(ctx, productMgr, rl.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
}

func TestReleaseVerdict_OwnedByProgramManager(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, productMgr, programMgr := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0", testutil.WithReleaseState(domain.StateSubmitted))
	require.NoError(t, e.releases.Create(ctx, rl))

	_, err := svc.Transition(ctx, productMgr, rl.ID, domain.StateApproved, "")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	got, err := svc.Transition(ctx, programMgr, rl.ID, domain.StateApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateApproved, got.State)
	assert.Equal(t, "bob", got.ApprovedBy)
}

func TestReleaseChecklist_LockedIsImmutable(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, productMgr, _ := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0",
		testutil.WithReleaseState(domain.StateApproved),
		testutil.WithGoDecision("bob"))
	require.NoError(t, e.releases.Create(ctx, rl))

	item, err := svc.AddChecklistItem(ctx, productMgr, rl.ID, "Security review signed off")
	require.NoError(t, err)

	_, err = svc.Lock(ctx, productMgr, rl.ID)
	require.NoError(t, err)

	// Lock wins over permission: no checklist edits, not even completion.
	_, err = svc.AddChecklistItem(ctx, productMgr, rl.ID, "Docs updated")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	err = svc.CompleteChecklistItem(ctx, productMgr, rl.ID, item.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestReleaseChecklist(t *testing.T) {
	e := newEnv(t)
	svc := e.releaseService()
	ctx := context.Background()
	pd, productMgr, _ := seedReleaseTree(t, e)

	rl := testutil.NewTestRelease(pd.ID, "v1.0")
	require.NoError(t, e.releases.Create(ctx, rl))

	_, err := svc.AddChecklistItem(ctx, productMgr, rl.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	item, err := svc.AddChecklistItem(ctx, productMgr, rl.ID, "Security review signed off")
	require.NoError(t, err)

	_, err = svc.AddChecklistItem(ctx, viewerActor, rl.ID, "Docs updated")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.CompleteChecklistItem(ctx, productMgr, rl.ID, item.ID))
	items, err := svc.ListChecklist(ctx, rl.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed)
}
