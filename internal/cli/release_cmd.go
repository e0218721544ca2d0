package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/spf13/cobra"
)

func newReleaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Manage releases and their go/no-go workflow",
	}

	cmd.AddCommand(
		newReleaseAddCmd(app),
		newReleaseListCmd(app),
		newReleaseInspectCmd(app),
		newReleaseTransitionCmd(app),
		newReleaseGoNoGoCmd(app),
		newReleaseChecklistCmd(app),
	)

	return cmd
}

func newReleaseAddCmd(app *App) *cobra.Command {
	var productID, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new release under a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			r := &domain.Release{ProductID: productID, Name: name}
			if err := app.Releases.Create(ctx, actor, r); err != nil {
				return err
			}
			fmt.Printf("Created release %s\n", r.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Owning product ID")
	cmd.Flags().StringVar(&name, "name", "", "Release name")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newReleaseListCmd(app *App) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List releases in a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			releases, err := app.Releases.ListByProduct(context.Background(), productID)
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "STATE", "GO/NO-GO", "ACTUAL"}
			rows := make([][]string, 0, len(releases))
			for _, r := range releases {
				decision := formatter.Dim("--")
				if r.GoNogoDecision != nil {
					if *r.GoNogoDecision == domain.DecisionGo {
						decision = formatter.StyleGreen.Render("GO")
					} else {
						decision = formatter.StyleRed.Render("NO GO")
					}
				} else if r.GoNogoSubmitted {
					decision = formatter.StyleYellow.Render("pending")
				}
				rows = append(rows, []string{
					formatter.TruncID(r.ID),
					r.Name,
					formatter.StatePill(r.State),
					decision,
					formatter.Money(r.ActualCost, ""),
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

func newReleaseInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Show release details and checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := app.Releases.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(r.Name))
			fmt.Printf("State:       %s\n", formatter.StatePill(r.State))
			fmt.Printf("Actual cost: %s\n", formatter.Money(r.ActualCost, ""))
			if r.GoNogoSubmitted {
				fmt.Printf("Go/No-Go:    submitted by %s\n", r.GoNogoSubmittedBy)
			}
			if r.GoNogoDecision != nil {
				fmt.Printf("Decision:    %s by %s\n", *r.GoNogoDecision, r.GoNogoDecidedBy)
			}

			items, err := app.Releases.ListChecklist(ctx, r.ID)
			if err != nil {
				return err
			}
			if len(items) > 0 {
				fmt.Println()
				fmt.Println(formatter.Header("Checklist"))
				for _, it := range items {
					fmt.Printf("%s %s %s\n", formatter.Checkbox(it.Completed), formatter.TruncID(it.ID), it.Item)
				}
			}
			return nil
		},
	}
}

func newReleaseTransitionCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "transition <id> <target-state>",
		Short: "Move a release through its governance workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			r, err := app.Releases.Transition(ctx, actor, args[0], domain.GovernanceState(args[1]), reason)
			if err != nil {
				return err
			}
			fmt.Printf("Release %s is now %s\n", r.Name, formatter.StatePill(r.State))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason (required for REJECTED)")

	return cmd
}

func newReleaseGoNoGoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gonogo",
		Short: "Go/No-Go workflow",
	}

	submit := &cobra.Command{
		Use:   "submit <release-id>",
		Short: "Submit a release for a go/no-go decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			r, err := app.Releases.SubmitGoNoGo(ctx, actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Release %s submitted for go/no-go\n", r.Name)
			return nil
		},
	}

	decide := &cobra.Command{
		Use:   "decide <release-id> <GO|NO_GO>",
		Short: "Record a go/no-go decision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			r, err := app.Releases.DecideGoNoGo(ctx, actor, args[0], domain.GoNoGoDecision(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Release %s decided: %s\n", r.Name, *r.GoNogoDecision)
			return nil
		},
	}

	cmd.AddCommand(submit, decide)
	return cmd
}

func newReleaseChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Manage release readiness checklists",
	}

	add := &cobra.Command{
		Use:   "add <release-id> <item>",
		Short: "Add a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			ci, err := app.Releases.AddChecklistItem(ctx, actor, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Added checklist item %s\n", formatter.TruncID(ci.ID))
			return nil
		},
	}

	complete := &cobra.Command{
		Use:   "complete <release-id> <item-id>",
		Short: "Mark a checklist item as done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.Releases.CompleteChecklistItem(ctx, actor, args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Checklist item completed")
			return nil
		},
	}

	cmd.AddCommand(add, complete)
	return cmd
}
