package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAllocationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocation",
		Short: "Manage resource allocations",
	}

	cmd.AddCommand(
		newAllocationAddCmd(app),
		newAllocationListCmd(app),
		newAllocationRemoveCmd(app),
	)

	return cmd
}

func newAllocationAddCmd(app *App) *cobra.Command {
	var portfolioID, phase, teamType, gradeRole, featureID, quarter, override string
	var hours, utilization float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a resource allocation under a portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			in := service.AllocationInput{
				PortfolioID: portfolioID,
				Phase:       phase,
				TeamTypeID:  teamType,
				GradeRoleID: gradeRole,
				Quarter:     quarter,
				ActualHours: hours,
				Utilization: utilization,
			}
			if featureID != "" {
				in.FeatureID = &featureID
			}
			if override != "" {
				rate, err := decimal.NewFromString(override)
				if err != nil {
					return fmt.Errorf("invalid rate %q: %w", override, err)
				}
				in.OverrideHourlyRate = &rate
			}

			a, err := app.Allocations.Create(ctx, actor, in)
			if err != nil {
				return err
			}
			fmt.Printf("Allocated %s (%0.2f days) at %s/h\n",
				formatter.Money(a.ActualCost, ""), a.DurationDays, formatter.Money(a.HourlyRate, ""))
			return nil
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "Portfolio ID")
	cmd.Flags().StringVar(&phase, "phase", "", "Delivery phase")
	cmd.Flags().StringVar(&teamType, "team", "", "Team type ID")
	cmd.Flags().StringVar(&gradeRole, "grade", "", "Grade/role ID")
	cmd.Flags().StringVar(&featureID, "feature", "", "Feature ID (optional)")
	cmd.Flags().StringVar(&quarter, "quarter", "", "Quarter label, e.g. 2026-Q3")
	cmd.Flags().StringVar(&override, "rate", "", "Hourly rate override (skips rate-card lookup)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Actual hours")
	cmd.Flags().Float64Var(&utilization, "utilization", 1, "Utilization (fraction or percent)")
	cmd.MarkFlagRequired("portfolio")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("grade")

	return cmd
}

func newAllocationListCmd(app *App) *cobra.Command {
	var portfolioID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List allocations for a portfolio with the cost total",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			allocations, err := app.Allocations.ListByPortfolio(ctx, actor, portfolioID)
			if err != nil {
				return err
			}

			headers := []string{"ID", "PHASE", "TEAM", "GRADE", "QUARTER", "HOURS", "UTIL", "RATE", "COST"}
			rows := make([][]string, 0, len(allocations))
			for _, a := range allocations {
				rows = append(rows, []string{
					formatter.TruncID(a.ID),
					a.Phase,
					a.TeamTypeID,
					a.GradeRoleID,
					a.Quarter,
					fmt.Sprintf("%0.1f", a.ActualHours),
					fmt.Sprintf("%0.0f%%", a.Utilization*100),
					formatter.Money(a.HourlyRate, ""),
					formatter.Money(a.ActualCost, ""),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))

			total, err := app.Allocations.PortfolioUtilization(ctx, actor, portfolioID)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s %s\n", formatter.Bold("Total:"), formatter.Money(total, ""))
			return nil
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "Portfolio ID")
	cmd.MarkFlagRequired("portfolio")

	return cmd
}

func newAllocationRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <allocation-id>",
		Short: "Delete a resource allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.Allocations.Delete(ctx, actor, args[0]); err != nil {
				return err
			}
			fmt.Println("Allocation deleted")
			return nil
		},
	}
}
