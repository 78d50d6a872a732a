package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"fintrack.com/internal/application/usecase"
	"fintrack.com/internal/infrastructure/render"
)

var (
	flagFrom       string   //nolint:gochecknoglobals
	flagTo         string   //nolint:gochecknoglobals
	flagCategories []string //nolint:gochecknoglobals
)

var statsCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "stats",
	Short: "Show statistics.",
}

var statsSummaryCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "summary",
	Short: "Totals, balance, budgets and per-category sums.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		summary, err := current.statistics.Summary(cmd.Context(), username)
		if err != nil {
			return err
		}
		current.printer.Summary(summary)
		return nil
	},
}

var statsFilterCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "filter",
	Short: "Entries by period and categories.",
	Long: "Entries by period and categories.\n" +
		"Dates use \"yyyy.MM.dd HH:mm:ss\" or a plain date such as 2024-01-31; an omitted bound is open.\n" +
		"Without --category every category is selected.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		from, err := render.ParseTime(flagFrom)
		if err != nil {
			return err
		}
		to, err := render.ParseEndTime(flagTo)
		if err != nil {
			return err
		}

		var categories []string
		for _, c := range flagCategories {
			categories = append(categories, strings.Split(c, ",")...)
		}

		result, err := current.statistics.Filter(cmd.Context(), username, usecase.FilterRequest{
			From:       from,
			To:         to,
			Categories: categories,
		})
		if err != nil {
			return err
		}
		current.printer.Filtered(result, current.cfg.Budget.AlertPercent)
		return nil
	},
}

var statsCategoriesCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "categories",
	Short: "List entry and budget categories.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		categories, err := current.statistics.Categories(cmd.Context(), username)
		if err != nil {
			return err
		}
		current.printer.Categories(categories)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	statsFilterCmd.Flags().StringVar(&flagFrom, "from", "", "start of the period, inclusive")
	statsFilterCmd.Flags().StringVar(&flagTo, "to", "", "end of the period, inclusive; a plain date includes the whole day")
	statsFilterCmd.Flags().StringSliceVarP(&flagCategories, "category", "c", nil, "categories to include (repeatable or comma separated)")

	statsCmd.AddCommand(statsSummaryCmd, statsFilterCmd, statsCategoriesCmd)
	rootCmd.AddCommand(statsCmd)
}
