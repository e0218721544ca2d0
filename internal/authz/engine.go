package authz

import (
	"context"

	"github.com/alexanderramin/steward/internal/domain"
)

// FreezeReader reads the process-wide freeze flag. Injected rather than read
// from a global so tests can substitute a frozen fixture.
type FreezeReader interface {
	Frozen(ctx context.Context) (bool, error)
}

// Directory resolves the ownership relations the permission rules consult.
// All methods are read-only.
type Directory interface {
	// ProductPortfolio returns the portfolio id owning the given product.
	ProductPortfolio(ctx context.Context, productID string) (string, error)
	// ReleaseProduct returns the product id owning the given release.
	ReleaseProduct(ctx context.Context, releaseID string) (string, error)
	// FeatureProduct returns the product id owning the given feature.
	FeatureProduct(ctx context.Context, featureID string) (string, error)
	// FeatureArchived reports whether the feature is in its terminal state.
	FeatureArchived(ctx context.Context, featureID string) (bool, error)
	// AssignedToProduct reports whether the user has a product-manager
	// assignment row for the product.
	AssignedToProduct(ctx context.Context, userID, productID string) (bool, error)
}

// Engine is the permission decision function. It never mutates state and
// never returns an error for "no permission" — only false. Errors are
// reserved for store-read failures.
type Engine struct {
	freeze FreezeReader
	dir    Directory
}

func NewEngine(freeze FreezeReader, dir Directory) *Engine {
	return &Engine{freeze: freeze, dir: dir}
}

// CanPerform decides whether actor may perform action. SUPER_ADMIN
// short-circuits to true before any freeze or ownership check. For every
// other role a set freeze flag denies all write actions. The remainder is a
// per-kind dispatch; anything unmatched denies.
func (e *Engine) CanPerform(ctx context.Context, actor domain.Actor, action Action) (bool, error) {
	if actor.UserID == "" {
		return false, nil
	}
	if actor.Role == domain.RoleSuperAdmin {
		return true, nil
	}

	if action.Write() {
		frozen, err := e.freeze.Frozen(ctx)
		if err != nil {
			return false, err
		}
		if frozen {
			return false, nil
		}
	}

	switch a := action.(type) {
	// Portfolio lifecycle is split: the top role owns creation and the
	// approve/reject/archive verdicts, the assigned program manager owns
	// edit/submit/lock.
	case CreatePortfolio, ApprovePortfolio, RejectPortfolio, ArchivePortfolio:
		return false, nil
	case EditPortfolio:
		return e.managesPortfolio(actor, a.PortfolioID), nil
	case SubmitPortfolio:
		return e.managesPortfolio(actor, a.PortfolioID), nil
	case LockPortfolio:
		return e.managesPortfolio(actor, a.PortfolioID), nil
	case UnlockPortfolio:
		return e.managesPortfolio(actor, a.PortfolioID), nil

	case CreateProduct:
		return e.managesPortfolio(actor, a.PortfolioID), nil
	case SubmitProduct:
		return e.managesProductPortfolio(ctx, actor, a.ProductID)
	case LockProduct:
		return e.managesProductPortfolio(ctx, actor, a.ProductID)
	case ApproveProduct, RejectProduct, ArchiveProduct:
		return false, nil
	case EditProduct:
		// Two independent paths converge here: a program manager may edit
		// any product inside their portfolio; a product manager only
		// products they are assigned to.
		if actor.Role == domain.RoleProgramManager {
			return e.managesProductPortfolio(ctx, actor, a.ProductID)
		}
		if actor.Role == domain.RoleProductManager {
			return e.dir.AssignedToProduct(ctx, actor.UserID, a.ProductID)
		}
		return false, nil

	case CreateFeature:
		return e.productManagerOf(ctx, actor, a.ProductID)
	case TransitionFeature:
		return e.featureProductManager(ctx, actor, a.FeatureID)
	case EditFeature:
		// Terminal features are read-only even for their assigned manager.
		archived, err := e.dir.FeatureArchived(ctx, a.FeatureID)
		if err != nil {
			return false, err
		}
		if archived {
			return false, nil
		}
		return e.featureProductManager(ctx, actor, a.FeatureID)

	case CreateRelease:
		return e.productManagerOf(ctx, actor, a.ProductID)
	case EditRelease:
		return e.releaseProductManager(ctx, actor, a.ReleaseID)
	case SubmitGoNoGo:
		return e.releaseProductManager(ctx, actor, a.ReleaseID)
	case LockRelease:
		return e.releaseProductManager(ctx, actor, a.ReleaseID)
	case DecideGoNoGo:
		if actor.Role != domain.RoleProgramManager {
			return false, nil
		}
		productID, err := e.dir.ReleaseProduct(ctx, a.ReleaseID)
		if err != nil {
			return false, err
		}
		portfolioID, err := e.dir.ProductPortfolio(ctx, productID)
		if err != nil {
			return false, err
		}
		return e.managesPortfolio(actor, portfolioID), nil

	case ViewCosts, CreateCostEntry, EditCostEntry, DeleteCostEntry:
		return actor.Role != domain.RoleViewer, nil

	case CreateAllocation:
		return actor.Role == domain.RoleProductManager, nil
	case ViewAllocations:
		return actor.Role == domain.RoleProgramManager || actor.Role == domain.RoleProductManager, nil
	case DeleteAllocation:
		return false, nil

	case ManageUsers, ManageRateCards, ViewAudit, ControlFreeze:
		return false, nil
	}

	// Deny by default.
	return false, nil
}

func (e *Engine) managesPortfolio(actor domain.Actor, portfolioID string) bool {
	return actor.Role == domain.RoleProgramManager &&
		actor.AssignedPortfolioID != nil &&
		*actor.AssignedPortfolioID == portfolioID
}

func (e *Engine) managesProductPortfolio(ctx context.Context, actor domain.Actor, productID string) (bool, error) {
	if actor.Role != domain.RoleProgramManager {
		return false, nil
	}
	portfolioID, err := e.dir.ProductPortfolio(ctx, productID)
	if err != nil {
		return false, err
	}
	return e.managesPortfolio(actor, portfolioID), nil
}

func (e *Engine) productManagerOf(ctx context.Context, actor domain.Actor, productID string) (bool, error) {
	if actor.Role != domain.RoleProductManager {
		return false, nil
	}
	return e.dir.AssignedToProduct(ctx, actor.UserID, productID)
}

func (e *Engine) featureProductManager(ctx context.Context, actor domain.Actor, featureID string) (bool, error) {
	if actor.Role != domain.RoleProductManager {
		return false, nil
	}
	productID, err := e.dir.FeatureProduct(ctx, featureID)
	if err != nil {
		return false, err
	}
	return e.dir.AssignedToProduct(ctx, actor.UserID, productID)
}

func (e *Engine) releaseProductManager(ctx context.Context, actor domain.Actor, releaseID string) (bool, error) {
	if actor.Role != domain.RoleProductManager {
		return false, nil
	}
	productID, err := e.dir.ReleaseProduct(ctx, releaseID)
	if err != nil {
		return false, err
	}
	return e.dir.AssignedToProduct(ctx, actor.UserID, productID)
}
