package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newCostCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Manage the cost ledger",
	}

	cmd.AddCommand(
		newCostAddCmd(app),
		newCostListCmd(app),
		newCostRemoveCmd(app),
	)

	return cmd
}

func newCostAddCmd(app *App) *cobra.Command {
	var entityType, entityID, amount, category, currency, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a cost entry against an entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			e, err := app.Costs.CreateEntry(ctx, actor, service.CostEntryInput{
				EntityType: domain.EntityType(entityType),
				EntityID:   entityID,
				Amount:     amt,
				Category:   category,
				Currency:   currency,
				EntryDate:  date,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s against %s %s\n", formatter.Money(e.Amount, e.Currency), e.EntityType, formatter.TruncID(e.EntityID))
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "Entity type (PORTFOLIO|PRODUCT|FEATURE|RELEASE)")
	cmd.Flags().StringVar(&entityID, "entity", "", "Entity ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")
	cmd.Flags().StringVar(&category, "category", "GENERAL", "Cost category")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	cmd.Flags().StringVar(&date, "date", "", "Entry date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("entity")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("date")

	return cmd
}

func newCostListCmd(app *App) *cobra.Command {
	var entityType, entityID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries for an entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			entries, err := app.Costs.ListByEntity(ctx, actor, domain.EntityType(entityType), entityID)
			if err != nil {
				return err
			}

			headers := []string{"ID", "DATE", "CATEGORY", "AMOUNT"}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					formatter.TruncID(e.ID),
					e.EntryDate.Format("2006-01-02"),
					e.Category,
					formatter.Money(e.Amount, e.Currency),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "Entity type")
	cmd.Flags().StringVar(&entityID, "entity", "", "Entity ID")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("entity")

	return cmd
}

func newCostRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Delete a cost entry and re-roll its ancestors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.Costs.DeleteEntry(ctx, actor, args[0]); err != nil {
				return err
			}
			fmt.Println("Entry deleted")
			return nil
		},
	}
}
