package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/spf13/cobra"
)

func newFeatureCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Manage features",
	}

	cmd.AddCommand(
		newFeatureAddCmd(app),
		newFeatureListCmd(app),
		newFeatureAssignCmd(app),
		newFeatureTransitionCmd(app),
	)

	return cmd
}

func newFeatureAddCmd(app *App) *cobra.Command {
	var productID, name, releaseID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new feature under a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			f := &domain.Feature{
				ProductID: productID,
				Name:      name,
			}
			if releaseID != "" {
				f.ReleaseID = &releaseID
			}

			if err := app.Features.Create(ctx, actor, f); err != nil {
				return err
			}
			fmt.Printf("Created feature %s\n", f.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Owning product ID")
	cmd.Flags().StringVar(&name, "name", "", "Feature name")
	cmd.Flags().StringVar(&releaseID, "release", "", "Release membership (optional)")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newFeatureListCmd(app *App) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List features in a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := app.Features.ListByProduct(context.Background(), productID)
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "STATE", "RELEASE", "ACTUAL"}
			rows := make([][]string, 0, len(features))
			for _, f := range features {
				release := formatter.Dim("--")
				if f.ReleaseID != nil {
					release = formatter.TruncID(*f.ReleaseID)
				}
				rows = append(rows, []string{
					formatter.TruncID(f.ID),
					f.Name,
					formatter.FeatureStatePill(f.State),
					release,
					formatter.Money(f.ActualCost, ""),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product ID")
	cmd.MarkFlagRequired("product")

	return cmd
}

func newFeatureAssignCmd(app *App) *cobra.Command {
	var releaseID string
	var clear bool

	cmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Assign a feature to a release, or clear its membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			f, err := app.Features.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			if clear {
				f.ReleaseID = nil
			} else {
				if releaseID == "" {
					return fmt.Errorf("pass --release <id> or --clear")
				}
				f.ReleaseID = &releaseID
			}

			if err := app.Features.Update(ctx, actor, f); err != nil {
				return err
			}
			fmt.Printf("Updated feature %s\n", f.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&releaseID, "release", "", "Release ID")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove release membership")

	return cmd
}

func newFeatureTransitionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "transition <id> <target-state>",
		Short: "Move a feature through its lifecycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			f, err := app.Features.Transition(ctx, actor, args[0], domain.FeatureState(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Feature %s is now %s\n", f.Name, formatter.FeatureStatePill(f.State))
			return nil
		},
	}
}
