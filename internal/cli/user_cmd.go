package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/steward/internal/cli/formatter"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and assignments",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserAssignPortfolioCmd(app),
		newUserAssignProductCmd(app),
		newUserUnassignProductCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var name, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			u := &domain.User{Name: name, Role: domain.Role(role)}
			if err := app.Users.Create(ctx, actor, u); err != nil {
				return err
			}
			fmt.Printf("Created user %s (%s) with ID %s\n", u.Name, u.Role, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "User name")
	cmd.Flags().StringVar(&role, "role", "VIEWER", "Role (SUPER_ADMIN|PROGRAM_MANAGER|PRODUCT_MANAGER|VIEWER)")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			users, err := app.Users.List(ctx, actor)
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "ROLE", "PORTFOLIO"}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				portfolio := formatter.Dim("--")
				if u.AssignedPortfolioID != nil {
					portfolio = formatter.TruncID(*u.AssignedPortfolioID)
				}
				rows = append(rows, []string{
					formatter.TruncID(u.ID),
					u.Name,
					formatter.RoleBadge(u.Role),
					portfolio,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newUserAssignPortfolioCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "assign-portfolio <user-id> [portfolio-id]",
		Short: "Point a program manager at a portfolio",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}

			var portfolioID *string
			if !clear {
				if len(args) < 2 {
					return fmt.Errorf("pass a portfolio ID or --clear")
				}
				portfolioID = &args[1]
			}

			if err := app.Users.SetAssignedPortfolio(ctx, actor, args[0], portfolioID); err != nil {
				return err
			}
			fmt.Println("Portfolio assignment updated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the assignment")

	return cmd
}

func newUserAssignProductCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign-product <user-id> <product-id>",
		Short: "Assign a product manager to a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.Users.AssignProduct(ctx, actor, args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Product assignment added")
			return nil
		},
	}
}

func newUserUnassignProductCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign-product <user-id> <product-id>",
		Short: "Remove a product manager from a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actor, err := resolveActor(ctx, app)
			if err != nil {
				return err
			}
			if err := app.Users.UnassignProduct(ctx, actor, args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Product assignment removed")
			return nil
		},
	}
}
