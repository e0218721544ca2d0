package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	cmd.AddCommand(
		newProductAddCmd(app),
		newProductListCmd(app),
		newProductUpdateCmd(app),
		newProductTransitionCmd(app),
	)

	return cmd
}

func newProductAddCmd(app *App) *cobra.Command {
	var portfolioID, name, code, estimated string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new product under a portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			p := &domain.Product{
				PortfolioID: portfolioID,
				Code:        code,
				Name:        name,
			}
			if estimated != "" {
				e, err := decimal.NewFromString(estimated)
				if err != nil {
					return fmt.Errorf("invalid estimate %q: %w", estimated, err)
				}
				p.EstimatedCost = e
			}

			if err := app.Products.Create(ctx, actor, p); err != nil {
				return err
			}
			fmt.Printf("Created product %s [%s]\n", p.Name, p.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "Owning portfolio ID")
	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&code, "code", "", "Short code")
	cmd.Flags().StringVar(&estimated, "estimate", "", "Estimated cost")
	cmd.MarkFlagRequired("portfolio")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newProductListCmd(app *App) *cobra.Command {
	var portfolioID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products in a portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := app.Products.ListByPortfolio(context.Background(), portfolioID)
			if err != nil {
				return err
			}

			headers := []string{"ID", "CODE", "NAME", "STATE", "ESTIMATE", "ACTUAL"}
			rows := make([][]string, 0, len(products))
			for _, p := range products {
				rows = append(rows, []string{
					formatter.TruncID(p.ID),
					p.Code,
					p.Name,
					formatter.StatePill(p.State),
					formatter.Money(p.EstimatedCost, ""),
					formatter.MoneyStyled(p.ActualCost, p.EstimatedCost, ""),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "Portfolio ID")
	cmd.MarkFlagRequired("portfolio")

	return cmd
}

func newProductUpdateCmd(app *App) *cobra.Command {
	var name, estimated string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update product fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			p, err := app.Products.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			if name != "" {
				p.Name = name
			}
			if estimated != "" {
				e, err := decimal.NewFromString(estimated)
				if err != nil {
					return fmt.Errorf("invalid estimate %q: %w", estimated, err)
				}
				p.EstimatedCost = e
			}

			if err := app.Products.Update(ctx, actor, p); err != nil {
				return err
			}
			fmt.Printf("Updated product %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&estimated, "estimate", "", "New estimated cost")

	return cmd
}

func newProductTransitionCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "transition <id> <target-state>",
		Short: "Move a product through its governance workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			p, err := app.Products.Transition(ctx, actor, args[0], domain.GovernanceState(args[1]), reason)
			if err != nil {
				return err
			}
			fmt.Printf("Product %s is now %s\n", p.Name, formatter.StatePill(p.State))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason (required for REJECTED)")

	return cmd
}
