package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPortfolioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Manage portfolios",
	}

	cmd.AddCommand(
		newPortfolioAddCmd(app),
		newPortfolioListCmd(app),
		newPortfolioInspectCmd(app),
		newPortfolioUpdateCmd(app),
		newPortfolioTransitionCmd(app),
	)

	return cmd
}

func newPortfolioAddCmd(app *App) *cobra.Command {
	var name, code, budget string
	var priority int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			p := &domain.Portfolio{
				Code:     code,
				Name:     name,
				Priority: priority,
			}
			if budget != "" {
				b, err := decimal.NewFromString(budget)
				if err != nil {
					return fmt.Errorf("invalid budget %q: %w", budget, err)
				}
				p.EstimatedBudget = b
			}

			if err := app.Portfolios.Create(ctx, actor, p); err != nil {
				return err
			}
			fmt.Printf("Created portfolio %s [%s]\n", p.Name, p.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Portfolio name")
	cmd.Flags().StringVar(&code, "code", "", "Short code")
	cmd.Flags().StringVar(&budget, "budget", "", "Estimated budget")
	cmd.Flags().IntVar(&priority, "priority", 1, "Priority (lower is higher)")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newPortfolioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List portfolios",
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolios, err := app.Portfolios.List(context.Background())
			if err != nil {
				return err
			}

			headers := []string{"ID", "CODE", "NAME", "STATE", "BUDGET", "ACTUAL"}
			rows := make([][]string, 0, len(portfolios))
			for _, p := range portfolios {
				rows = append(rows, []string{
					formatter.TruncID(p.ID),
					p.Code,
					p.Name,
					formatter.StatePill(p.State),
					formatter.Money(p.EstimatedBudget, ""),
					formatter.MoneyStyled(p.ActualCost, p.EstimatedBudget, ""),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newPortfolioInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Show portfolio details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Portfolios.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(p.Name))
			fmt.Printf("Code:        %s\n", p.Code)
			fmt.Printf("State:       %s\n", formatter.StatePill(p.State))
			if p.Locked {
				fmt.Printf("Locked by:   %s\n", p.LockedBy)
			}
			fmt.Printf("Manager:     %s\n", p.ProgramManager)
			fmt.Printf("Budget:      %s\n", formatter.Money(p.EstimatedBudget, ""))
			fmt.Printf("Actual cost: %s\n", formatter.MoneyStyled(p.ActualCost, p.EstimatedBudget, ""))
			if p.RejectionReason != "" {
				fmt.Printf("Rejection:   %s\n", p.RejectionReason)
			}
			return nil
		},
	}
}

func newPortfolioUpdateCmd(app *App) *cobra.Command {
	var name, budget, manager string
	var priority int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update portfolio fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			p, err := app.Portfolios.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			if name != "" {
				p.Name = name
			}
			if cmd.Flags().Changed("priority") {
				p.Priority = priority
			}
			if manager != "" {
				p.ProgramManager = manager
			}
			if budget != "" {
				b, err := decimal.NewFromString(budget)
				if err != nil {
					return fmt.Errorf("invalid budget %q: %w", budget, err)
				}
				p.EstimatedBudget = b
			}

			if err := app.Portfolios.Update(ctx, actor, p); err != nil {
				return err
			}
			fmt.Printf("Updated portfolio %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&budget, "budget", "", "New estimated budget")
	cmd.Flags().StringVar(&manager, "manager", "", "Program manager user ID")
	cmd.Flags().IntVar(&priority, "priority", 0, "New priority")

	return cmd
}

func newPortfolioTransitionCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "transition <id> <target-state>",
		Short: "Move a portfolio through its governance workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			p, err := app.Portfolios.Transition(ctx, actor, args[0], domain.GovernanceState(args[1]), reason)
			if err != nil {
				return err
			}
			fmt.Printf("Portfolio %s is now %s\n", p.Name, formatter.StatePill(p.State))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason (required for REJECTED)")

	return cmd
}
