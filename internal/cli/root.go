package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Portfolios  service.PortfolioService
	Products    service.ProductService
	Features    service.FeatureService
	Releases    service.ReleaseService
	Costs       service.CostService
	Allocations service.AllocationService
	RateCards   service.RateCardService
	Freeze      service.FreezeService
	Users       service.UserService
	Audit       service.AuditService
}

// actorID is the value of the persistent --as flag.
var actorID string

// resolveActor turns the --as flag into an Actor by loading the user.
func resolveActor(ctx context.Context, app *App) (domain.Actor, error) {
	if actorID == "" {
		return domain.Actor{}, fmt.Errorf("an acting user is required: pass --as <user-id>")
	}
	u, err := app.Users.GetByID(ctx, actorID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("resolving acting user %q: %w", actorID, err)
	}
	return domain.ActorFor(u), nil
}

// NewRootCmd creates the top-level "steward" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "steward",
		Short: "Portfolio governance, permissions, and cost rollups",
	}

	root.PersistentFlags().StringVar(&actorID, "as", "", "Acting user ID")

	root.AddCommand(
		newPortfolioCmd(app),
		newProductCmd(app),
		newFeatureCmd(app),
		newReleaseCmd(app),
		newCostCmd(app),
		newAllocationCmd(app),
		newRateCardCmd(app),
		newUserCmd(app),
		newFreezeCmd(app),
		newAuditCmd(app),
	)

	return root
}
