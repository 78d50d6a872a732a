package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fintrack.com/internal/application/usecase"
	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/infrastructure/render"
)

var (
	flagEditCategory string //nolint:gochecknoglobals
	flagEditAmount   string //nolint:gochecknoglobals
	flagEditType     string //nolint:gochecknoglobals
)

var incomeCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "income",
	Short: "Record income.",
}

var outcomeCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "outcome",
	Short: "Record expenses.",
}

func addEntryCmd(isIncome bool) *cobra.Command {
	kind := entity.KindOutcome
	if isIncome {
		kind = entity.KindIncome
	}
	return &cobra.Command{
		Use:   "add <category> <amount>",
		Short: "Add an " + kind + " entry.",
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

			var result *usecase.RecordEntryResult
			if isIncome {
				result, err = current.entries.AddIncome(cmd.Context(), username, args[0], amount)
			} else {
				result, err = current.entries.AddOutcome(cmd.Context(), username, args[0], amount)
			}
			if err != nil {
				return err
			}

			current.printer.Success("Added %s: %s %s", kind, result.Entry.Category, render.FormatAmount(result.Entry.Amount))
			if result.Budget != nil {
				current.printer.BudgetAlert(*result.Budget, current.cfg.Budget.AlertPercent)
			}
			current.printer.Info("Balance: %s", render.FormatAmount(result.Balance))
			return nil
		},
	}
}

var entriesCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "entries",
	Short: "List, remove and edit entries.",
}

var entriesListCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "list",
	Short: "List all entries, numbered from 1.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		entries, err := current.manage.List(cmd.Context(), username)
		if err != nil {
			return err
		}
		current.printer.Entries(entries)
		return nil
	},
}

var entriesRemoveCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "remove <number>",
	Short: "Remove an entry by its number in `entries list`.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		index, err := parseEntryNumber(args[0])
		if err != nil {
			return err
		}
		removed, err := current.manage.Remove(cmd.Context(), username, index)
		if err != nil {
			return err
		}
		current.printer.Success("Entry #%d removed: %s %s", index+1, removed.Category, render.FormatSigned(removed))
		return nil
	},
}

var entriesEditCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "edit <number>",
	Short: "Change the category, amount or type of an entry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		index, err := parseEntryNumber(args[0])
		if err != nil {
			return err
		}

		var edit usecase.EntryEdit
		if cmd.Flags().Changed("category") {
			edit.Category = &flagEditCategory
		}
		if cmd.Flags().Changed("amount") {
			amount, err := render.ParseAmount(flagEditAmount)
			if err != nil {
				return err
			}
			edit.Amount = &amount
		}
		if cmd.Flags().Changed("type") {
			isIncome, err := parseKind(flagEditType)
			if err != nil {
				return err
			}
			edit.IsIncome = &isIncome
		}

		edited, err := current.manage.Edit(cmd.Context(), username, index, edit)
		if err != nil {
			return err
		}
		current.printer.Success("Entry #%d is now %s %s %s", index+1, edited.Kind(), edited.Category, render.FormatAmount(edited.Amount))
		return nil
	},
}

// parseEntryNumber converts a 1-based entry number to an index
func parseEntryNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: entry number %q", entity.ErrInvalidArgument, arg)
	}
	return n - 1, nil
}

func parseKind(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case entity.KindIncome:
		return true, nil
	case entity.KindOutcome, "expense":
		return false, nil
	default:
		return false, fmt.Errorf("%w: type must be income or outcome, got %q", entity.ErrInvalidArgument, s)
	}
}

func init() { //nolint:gochecknoinits
	incomeCmd.AddCommand(addEntryCmd(true))
	outcomeCmd.AddCommand(addEntryCmd(false))

	entriesEditCmd.Flags().StringVar(&flagEditCategory, "category", "", "new category")
	entriesEditCmd.Flags().StringVar(&flagEditAmount, "amount", "", "new amount")
	entriesEditCmd.Flags().StringVar(&flagEditType, "type", "", "new type: income or outcome")
	entriesCmd.AddCommand(entriesListCmd, entriesRemoveCmd, entriesEditCmd)

	rootCmd.AddCommand(incomeCmd, outcomeCmd, entriesCmd)
}
