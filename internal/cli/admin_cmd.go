package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newFreezeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freeze",
		Short: "Control the system-wide write freeze",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show freeze status",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := app.Freeze.Get(context.Background())
			if err != nil {
				return err
			}
			if f.Frozen {
				fmt.Printf("%s %s\n", formatter.StyleRed.Render("● FROZEN"), formatter.Dim(f.Reason))
			} else {
				fmt.Println(formatter.StyleGreen.Render("● writes open"))
			}
			return nil
		},
	}

	var reason string
	set := &cobra.Command{
		Use:   "set",
		Short: "Freeze all non-admin writes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.Freeze.SetFreeze(ctx, actor, reason); err != nil {
				return err
			}
			fmt.Println("System frozen")
			return nil
		},
	}
	set.Flags().StringVar(&reason, "reason", "", "Why the freeze is in place")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Lift the freeze",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.Freeze.ClearFreeze(ctx, actor); err != nil {
				return err
			}
			fmt.Println("System unfrozen")
			return nil
		},
	}

	cmd.AddCommand(status, set, clear)
	return cmd
}

func newAuditCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			events, err := app.Audit.ListRecent(ctx, actor, limit)
			if err != nil {
				return err
			}

			headers := []string{"WHEN", "ACTOR", "ACTION", "ENTITY", "DETAIL"}
			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				rows = append(rows, []string{
					formatter.HumanDate(ev.CreatedAt),
					formatter.TruncID(ev.Actor),
					ev.Action,
					fmt.Sprintf("%s %s", ev.EntityType, formatter.TruncID(ev.EntityID)),
					formatter.Dim(ev.Detail),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Number of events")

	return cmd
}
