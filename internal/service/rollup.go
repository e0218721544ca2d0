package service

import (
	"context"

	"github.com/alexanderramin/steward/internal/db"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
)

// rollupEngine recomputes stored actual-cost aggregates bottom-up. Every
// recomputation re-aggregates from source rows — no cached deltas — so
// concurrent sibling writes inside separate transactions always converge on
// correct totals. All methods expect to run on a transaction-scoped DBTX.
//
// The ledger rollup rule:
//
//	Feature.actualCost   = Σ direct FEATURE entries
//	Product.actualCost   = Σ child Feature.actualCost + Σ direct PRODUCT entries
//	Portfolio.actualCost = Σ child Product.actualCost
//	Release.actualCost   = Σ Feature.actualCost where feature.releaseId = release
//
// Release is a parallel rollup path off the same feature rows, not a link in
// the portfolio chain.
type rollupEngine struct{}

// run recomputes the directly affected entity and walks upward one level at
// a time. Direct PORTFOLIO and RELEASE ledger entries are valid ledger rows
// but do not feed those entities' aggregates.
func (rollupEngine) run(ctx context.Context, tx db.DBTX, entityType domain.EntityType, entityID string) error {
	features := repository.NewSQLiteFeatureRepo(tx)
	products := repository.NewSQLiteProductRepo(tx)
	portfolios := repository.NewSQLitePortfolioRepo(tx)
	releases := repository.NewSQLiteReleaseRepo(tx)
	entries := repository.NewSQLiteCostEntryRepo(tx)

	switch entityType {
	case domain.EntityFeature:
		f, err := features.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		sum, err := entries.SumByEntity(ctx, domain.EntityFeature, f.ID)
		if err != nil {
			return err
		}
		if err := features.UpdateActualCost(ctx, f.ID, sum); err != nil {
			return err
		}
		if f.ReleaseID != nil {
			if err := recomputeRelease(ctx, features, releases, *f.ReleaseID); err != nil {
				return err
			}
		}
		return rollupProductChain(ctx, features, products, portfolios, entries, f.ProductID)

	case domain.EntityProduct:
		return rollupProductChain(ctx, features, products, portfolios, entries, entityID)

	case domain.EntityPortfolio:
		return recomputePortfolio(ctx, products, portfolios, entityID)

	case domain.EntityRelease:
		return recomputeRelease(ctx, features, releases, entityID)
	}
	return nil
}

// rollupProductChain recomputes a product from its current children and
// direct entries, then its owning portfolio from its current products.
func rollupProductChain(
	ctx context.Context,
	features *repository.SQLiteFeatureRepo,
	products *repository.SQLiteProductRepo,
	portfolios *repository.SQLitePortfolioRepo,
	entries *repository.SQLiteCostEntryRepo,
	productID string,
) error {
	p, err := products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	featureSum, err := features.SumActualCostByProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	directSum, err := entries.SumByEntity(ctx, domain.EntityProduct, p.ID)
	if err != nil {
		return err
	}
	if err := products.UpdateActualCost(ctx, p.ID, featureSum.Add(directSum)); err != nil {
		return err
	}
	return recomputePortfolio(ctx, products, portfolios, p.PortfolioID)
}

func recomputePortfolio(
	ctx context.Context,
	products *repository.SQLiteProductRepo,
	portfolios *repository.SQLitePortfolioRepo,
	portfolioID string,
) error {
	sum, err := products.SumActualCostByPortfolio(ctx, portfolioID)
	if err != nil {
		return err
	}
	return portfolios.UpdateActualCost(ctx, portfolioID, sum)
}

func recomputeRelease(
	ctx context.Context,
	features *repository.SQLiteFeatureRepo,
	releases *repository.SQLiteReleaseRepo,
	releaseID string,
) error {
	sum, err := features.SumActualCostByRelease(ctx, releaseID)
	if err != nil {
		return err
	}
	return releases.UpdateActualCost(ctx, releaseID, sum)
}
