package service_test

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/db"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/alexanderramin/steward/internal/testutil"
)

// env wires real repositories and a real permission engine over a throwaway
// database, so service tests exercise the same stack the binary runs.
type env struct {
	db          *sql.DB
	uow         db.UnitOfWork
	engine      *authz.Engine
	audit       service.AuditSink
	portfolios  *repository.SQLitePortfolioRepo
	products    *repository.SQLiteProductRepo
	features    *repository.SQLiteFeatureRepo
	releases    *repository.SQLiteReleaseRepo
	entries     *repository.SQLiteCostEntryRepo
	allocations *repository.SQLiteAllocationRepo
	ratecards   *repository.SQLiteRateCardRepo
	users       *repository.SQLiteUserRepo
	assignments *repository.SQLiteAssignmentRepo
	freeze      *repository.SQLiteFreezeRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	database := testutil.NewTestDB(t)
	freeze := repository.NewSQLiteFreezeRepo(database)
	return &env{
		db:          database,
		uow:         db.NewSQLiteUnitOfWork(database),
		engine:      authz.NewEngine(freeze, repository.NewSQLiteDirectory(database)),
		audit:       service.NoopAuditSink{},
		portfolios:  repository.NewSQLitePortfolioRepo(database),
		products:    repository.NewSQLiteProductRepo(database),
		features:    repository.NewSQLiteFeatureRepo(database),
		releases:    repository.NewSQLiteReleaseRepo(database),
		entries:     repository.NewSQLiteCostEntryRepo(database),
		allocations: repository.NewSQLiteAllocationRepo(database),
		ratecards:   repository.NewSQLiteRateCardRepo(database),
		users:       repository.NewSQLiteUserRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
		freeze:      repository.NewSQLiteFreezeRepo(database),
	}
}

func (e *env) portfolioService() service.PortfolioService {
	return service.NewPortfolioService(e.engine, e.portfolios, e.uow, e.audit)
}

func (e *env) productService() service.ProductService {
	return service.NewProductService(e.engine, e.products, e.portfolios, e.uow, e.audit)
}

func (e *env) featureService() service.FeatureService {
	return service.NewFeatureService(e.engine, e.features, e.products, e.uow, e.audit)
}

func (e *env) releaseService() service.ReleaseService {
	return service.NewReleaseService(e.engine, e.releases, e.products, e.uow, e.audit)
}

func (e *env) costService() service.CostService {
	return service.NewCostService(e.engine, e.entries, e.uow, e.audit, nil)
}

func (e *env) allocationService() service.AllocationService {
	return service.NewAllocationService(e.engine, e.allocations, e.ratecards, e.portfolios, e.audit)
}

func (e *env) rateCardService() service.RateCardService {
	return service.NewRateCardService(e.engine, e.ratecards, e.audit)
}

var (
	adminActor  = domain.Actor{UserID: "root", Role: domain.RoleSuperAdmin}
	viewerActor = domain.Actor{UserID: "dave", Role: domain.RoleViewer}
)

func programManagerFor(portfolioID string) domain.Actor {
	return domain.Actor{UserID: "bob", Role: domain.RoleProgramManager, AssignedPortfolioID: &portfolioID}
}
