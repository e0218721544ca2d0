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

func TestPortfolioCreate_RequiresCodeAndName(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()

	err := svc.Create(context.Background(), adminActor, testutil.NewTestPortfolio(""))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPortfolioCreate_DeniedForProgramManager(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()

	err := svc.Create(context.Background(), programManagerFor("pf-any"), testutil.NewTestPortfolio("Platform"))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestPortfolioTransition_StampsEachEdge(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform", testutil.WithProgramManager("bob"))
	require.NoError(t, svc.Create(ctx, adminActor, pf))

	pm := programManagerFor(pf.ID)
	got, err := svc.Transition(ctx, pm, pf.ID, domain.StateSubmitted, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateSubmitted, got.State)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, "bob", got.SubmittedBy)

	got, err = svc.Transition(ctx, adminActor, pf.ID, domain.StateApproved, "")
	require.NoError(t, err)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, "root", got.ApprovedBy)
	// The submission stamp survives approval.
	assert.NotNil(t, got.SubmittedAt)
}

func TestPortfolioTransition_RejectionRequiresReason(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform", testutil.WithPortfolioState(domain.StateSubmitted))
	require.NoError(t, e.portfolios.Create(ctx, pf))

	_, err := svc.Transition(ctx, adminActor, pf.ID, domain.StateRejected, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	got, err := svc.Transition(ctx, adminActor, pf.ID, domain.StateRejected, "budget not justified")
	require.NoError(t, err)
	assert.Equal(t, "budget not justified", got.RejectionReason)
	require.NotNil(t, got.RejectedAt)

	// Rejection is recoverable; the cycle can repeat.
	got, err = svc.Transition(ctx, adminActor, pf.ID, domain.StateSubmitted, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateSubmitted, got.State)
}

func TestPortfolioTransition_IllegalEdge(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform")
	require.NoError(t, e.portfolios.Create(ctx, pf))

	_, err := svc.Transition(ctx, adminActor, pf.ID, domain.StateApproved, "")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
}

func TestPortfolioLockAndUnlock(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform",
		testutil.WithPortfolioState(domain.StateApproved),
		testutil.WithProgramManager("bob"))
	require.NoError(t, e.portfolios.Create(ctx, pf))

	pm := programManagerFor(pf.ID)
	got, err := svc.Transition(ctx, pm, pf.ID, domain.StateLocked, "")
	require.NoError(t, err)
	assert.True(t, got.Locked)
	assert.Equal(t, "bob", got.LockedBy)
	require.NotNil(t, got.LockedAt)

	// A locked portfolio refuses edits even from an admin.
	got.Name = "Renamed"
	err = svc.Update(ctx, adminActor, got)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Unlock restores APPROVED and clears the lock without re-stamping.
	approvedAt := got.ApprovedAt
	got, err = svc.Transition(ctx, pm, pf.ID, domain.StateApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateApproved, got.State)
	assert.False(t, got.Locked)
	assert.Nil(t, got.LockedAt)
	assert.Equal(t, approvedAt, got.ApprovedAt)
}

func TestPortfolioArchive_BlockedByOpenProducts(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform", testutil.WithPortfolioState(domain.StateApproved))
	require.NoError(t, e.portfolios.Create(ctx, pf))
	open := testutil.NewTestProduct(pf.ID, "Billing") // DRAFT
	require.NoError(t, e.products.Create(ctx, open))

	_, err := svc.Transition(ctx, adminActor, pf.ID, domain.StateArchived, "")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Once the child settles, the archive goes through.
	open.State = domain.StateApproved
	require.NoError(t, e.products.Update(ctx, open))

	got, err := svc.Transition(ctx, adminActor, pf.ID, domain.StateArchived, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateArchived, got.State)
	require.NotNil(t, got.ArchivedAt)
}

func TestPortfolioTransition_VerdictIsAdminOnly(t *testing.T) {
	e := newEnv(t)
	svc := e.portfolioService()
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform",
		testutil.WithPortfolioState(domain.StateSubmitted),
		testutil.WithProgramManager("bob"))
	require.NoError(t, e.portfolios.Create(ctx, pf))

	_, err := svc.Transition(ctx, programManagerFor(pf.ID), pf.ID, domain.StateApproved, "")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestProductTransition_LockBlocksUpdate(t *testing.T) {
	e := newEnv(t)
	svc := e.productService()
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform", testutil.WithProgramManager("bob"))
	require.NoError(t, e.portfolios.Create(ctx, pf))
	pd := testutil.NewTestProduct(pf.ID, "Billing", testutil.WithProductState(domain.StateApproved))
	require.NoError(t, e.products.Create(ctx, pd))

	pm := programManagerFor(pf.ID)
	got, err := svc.Transition(ctx, pm, pd.ID, domain.StateLocked, "")
	require.NoError(t, err)
	assert.True(t, got.Locked)

	got.Name = "Renamed"
	err = svc.Update(ctx, adminActor, got)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestProductCreate_RequiresExistingPortfolio(t *testing.T) {
	e := newEnv(t)
	svc := e.productService()

	err := svc.Create(context.Background(), adminActor, testutil.NewTestProduct("no-such-portfolio", "Billing"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
