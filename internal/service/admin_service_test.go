package service_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/alexanderramin/steward/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreezeService_AdminOnly(t *testing.T) {
	e := newEnv(t)
	svc := service.NewFreezeService(e.engine, e.freeze, e.audit)
	ctx := context.Background()

	err := svc.SetFreeze(ctx, programManagerFor("pf-1"), "quarter-end close")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.SetFreeze(ctx, adminActor, "quarter-end close"))
	state, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, state.Frozen)
	assert.Equal(t, "quarter-end close", state.Reason)
	assert.Equal(t, "root", state.SetBy)

	require.NoError(t, svc.ClearFreeze(ctx, adminActor))
	state, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, state.Frozen)
}

func TestUserService_CreateValidatesRole(t *testing.T) {
	e := newEnv(t)
	svc := service.NewUserService(e.engine, e.users, e.assignments, e.portfolios, e.products, e.audit)
	ctx := context.Background()

	u := testutil.NewTestUser("Mallory")
	u.Role = "OWNER"
	err := svc.Create(ctx, adminActor, u)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.Create(ctx, viewerActor, testutil.NewTestUser("Eve"))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.Create(ctx, adminActor, testutil.NewTestUser("Frank")))
}

func TestUserService_SetAssignedPortfolio(t *testing.T) {
	e := newEnv(t)
	svc := service.NewUserService(e.engine, e.users, e.assignments, e.portfolios, e.products, e.audit)
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform")
	require.NoError(t, e.portfolios.Create(ctx, pf))
	bob := testutil.NewTestUser("Bob", testutil.WithRole(domain.RoleProgramManager))
	require.NoError(t, e.users.Create(ctx, bob))
	dave := testutil.NewTestUser("Dave")
	require.NoError(t, e.users.Create(ctx, dave))

	// Only program managers carry the assignment.
	err := svc.SetAssignedPortfolio(ctx, adminActor, dave.ID, &pf.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.SetAssignedPortfolio(ctx, adminActor, bob.ID, strPtr("no-such-portfolio"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, svc.SetAssignedPortfolio(ctx, adminActor, bob.ID, &pf.ID))
	got, err := e.users.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedPortfolioID)
	assert.Equal(t, pf.ID, *got.AssignedPortfolioID)

	// Clearing the assignment is a valid repoint.
	require.NoError(t, svc.SetAssignedPortfolio(ctx, adminActor, bob.ID, nil))
	got, err = e.users.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedPortfolioID)
}

func TestUserService_AssignProduct(t *testing.T) {
	e := newEnv(t)
	svc := service.NewUserService(e.engine, e.users, e.assignments, e.portfolios, e.products, e.audit)
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform")
	require.NoError(t, e.portfolios.Create(ctx, pf))
	pd := testutil.NewTestProduct(pf.ID, "Billing")
	require.NoError(t, e.products.Create(ctx, pd))
	carol := testutil.NewTestUser("Carol", testutil.WithRole(domain.RoleProductManager))
	require.NoError(t, e.users.Create(ctx, carol))
	bob := testutil.NewTestUser("Bob", testutil.WithRole(domain.RoleProgramManager))
	require.NoError(t, e.users.Create(ctx, bob))

	err := svc.AssignProduct(ctx, adminActor, bob.ID, pd.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.AssignProduct(ctx, adminActor, carol.ID, "no-such-product")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, svc.AssignProduct(ctx, adminActor, carol.ID, pd.ID))
	ok, err := e.assignments.IsAssigned(ctx, carol.ID, pd.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.UnassignProduct(ctx, adminActor, carol.ID, pd.ID))
	ok, err = e.assignments.IsAssigned(ctx, carol.ID, pd.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuditService_RecordsAndLists(t *testing.T) {
	e := newEnv(t)
	auditRepo := repository.NewSQLiteAuditRepo(e.db)
	sink := service.NewAuditSink(auditRepo, nil)
	svc := service.NewAuditService(e.engine, auditRepo)
	ctx := context.Background()

	pf := testutil.NewTestPortfolio("Platform")
	portfolios := service.NewPortfolioService(e.engine, e.portfolios, e.uow, sink)
	require.NoError(t, portfolios.Create(ctx, adminActor, pf))

	_, err := svc.ListRecent(ctx, viewerActor, 10)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	events, err := svc.ListRecent(ctx, adminActor, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "portfolio.create", events[0].Action)
	assert.Equal(t, "root", events[0].Actor)
	assert.Equal(t, pf.ID, events[0].EntityID)
}

func strPtr(s string) *string {
	return &s
}
