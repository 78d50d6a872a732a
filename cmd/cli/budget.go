package cli

import (
	"github.com/spf13/cobra"

	"fintrack.com/internal/infrastructure/render"
)

var budgetCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "budget",
	Short: "Manage category budgets.",
}

var budgetSetCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "set <category> <amount>",
	Short: "Set or replace the budget of a category.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		amount, err := render.ParseAmount(args[1])
		if err != nil {
			return err
		}
		status, err := current.budgets.Set(cmd.Context(), username, args[0], amount)
		if err != nil {
			return err
		}
		current.printer.Success("Budget for %q set to %s", status.Category, render.FormatAmount(status.Limit))
		current.printer.BudgetAlert(status, current.cfg.Budget.AlertPercent)
		return nil
	},
}

var budgetRemoveCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "remove <category>",
	Short: "Remove the budget of a category.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		if err := current.budgets.Remove(cmd.Context(), username, args[0]); err != nil {
			return err
		}
		current.printer.Success("Budget for %q removed", args[0])
		return nil
	},
}

var budgetListCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "list",
	Short: "Show every budget with its spending.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		statuses, err := current.budgets.List(cmd.Context(), username)
		if err != nil {
			return err
		}
		current.printer.Budgets(statuses, current.cfg.Budget.AlertPercent)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	budgetCmd.AddCommand(budgetSetCmd, budgetRemoveCmd, budgetListCmd)
	rootCmd.AddCommand(budgetCmd)
}
