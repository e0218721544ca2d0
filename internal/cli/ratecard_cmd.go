package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRateCardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratecard",
		Short: "Manage rate cards",
	}

	cmd.AddCommand(
		newRateCardAddCmd(app),
		newRateCardListCmd(app),
		newRateCardDeactivateCmd(app),
	)

	return cmd
}

func newRateCardAddCmd(app *App) *cobra.Command {
	var teamType, gradeRole, monthly, currency, from, to string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a rate card for a team/grade pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			m, err := decimal.NewFromString(monthly)
			if err != nil {
				return fmt.Errorf("invalid monthly cost %q: %w", monthly, err)
			}

			card, err := app.RateCards.Create(ctx, actor, service.RateCardInput{
				TeamTypeID:    teamType,
				GradeRoleID:   gradeRole,
				MonthlyCost:   m,
				Currency:      currency,
				EffectiveFrom: from,
				EffectiveTo:   to,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created rate card %s: %s/mo, %s/d, %s/h\n",
				formatter.TruncID(card.ID),
				formatter.Money(card.MonthlyCost, card.Currency),
				formatter.Money(card.DailyCost, card.Currency),
				formatter.Money(card.HourlyCost, card.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&teamType, "team", "", "Team type ID")
	cmd.Flags().StringVar(&gradeRole, "grade", "", "Grade/role ID")
	cmd.Flags().StringVar(&monthly, "monthly", "", "Monthly cost")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	cmd.Flags().StringVar(&from, "from", "", "Effective from (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Effective to (YYYY-MM-DD, open-ended if omitted)")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("grade")
	cmd.MarkFlagRequired("monthly")
	cmd.MarkFlagRequired("from")

	return cmd
}

func newRateCardListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rate cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := app.RateCards.List(context.Background())
			if err != nil {
				return err
			}

			headers := []string{"ID", "TEAM", "GRADE", "MONTHLY", "HOURLY", "FROM", "TO", "ACTIVE"}
			rows := make([][]string, 0, len(cards))
			for _, c := range cards {
				to := formatter.Dim("open")
				if c.EffectiveTo != nil {
					to = c.EffectiveTo.Format("2006-01-02")
				}
				active := formatter.StyleGreen.Render("yes")
				if !c.Active {
					active = formatter.Dim("no")
				}
				rows = append(rows, []string{
					formatter.TruncID(c.ID),
					c.TeamTypeID,
					c.GradeRoleID,
					formatter.Money(c.MonthlyCost, c.Currency),
					formatter.Money(c.HourlyCost, c.Currency),
					c.EffectiveFrom.Format("2006-01-02"),
					to,
					active,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newRateCardDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <card-id>",
		Short: "Retire a rate card (existing allocations keep their snapshot)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.RateCards.Deactivate(ctx, actor, args[0]); err != nil {
				return err
			}
			fmt.Println("Rate card deactivated")
			return nil
		},
	}
}
