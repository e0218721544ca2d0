package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/cli"
	"github.com/alexanderramin/steward/internal/db"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.steward/steward.db
	// Plain output when stdout is piped.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	dbPath := os.Getenv("STEWARD_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".steward", "steward.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// Wire repositories
	portfolioRepo := repository.NewSQLitePortfolioRepo(database)
	productRepo := repository.NewSQLiteProductRepo(database)
	featureRepo := repository.NewSQLiteFeatureRepo(database)
	releaseRepo := repository.NewSQLiteReleaseRepo(database)
	costRepo := repository.NewSQLiteCostEntryRepo(database)
	allocationRepo := repository.NewSQLiteAllocationRepo(database)
	rateCardRepo := repository.NewSQLiteRateCardRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	freezeRepo := repository.NewSQLiteFreezeRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire the permission engine and the audit sink
	engine := authz.NewEngine(freezeRepo, repository.NewSQLiteDirectory(database))
	audit := service.NewAuditSink(auditRepo, logger)

	var obs service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("STEWARD_VERBOSE") != "" {
		obs = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Portfolios:  service.NewPortfolioService(engine, portfolioRepo, uow, audit),
		Products:    service.NewProductService(engine, productRepo, portfolioRepo, uow, audit),
		Features:    service.NewFeatureService(engine, featureRepo, productRepo, uow, audit),
		Releases:    service.NewReleaseService(engine, releaseRepo, productRepo, uow, audit),
		Costs:       service.NewCostService(engine, costRepo, uow, audit, obs),
		Allocations: service.NewAllocationService(engine, allocationRepo, rateCardRepo, portfolioRepo, audit),
		RateCards:   service.NewRateCardService(engine, rateCardRepo, audit),
		Freeze:      service.NewFreezeService(engine, freezeRepo, audit),
		Users:       service.NewUserService(engine, userRepo, assignmentRepo, portfolioRepo, productRepo, audit),
		Audit:       service.NewAuditService(engine, auditRepo),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
