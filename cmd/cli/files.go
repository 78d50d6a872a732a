package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"fintrack.com/internal/domain/entity"
)

var flagOverwrite bool //nolint:gochecknoglobals

var exportCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "export [file]",
	Short: "Write the logged-in account to a JSON file (default <username>.json).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		written, err := current.export.Execute(cmd.Context(), username, path)
		if err != nil {
			return err
		}
		current.printer.Success("Account saved to %s", written)
		return nil
	},
}

var importCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "import <file.json>",
	Short: "Load an account from a JSON file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := current.importer.Execute(cmd.Context(), args[0], flagOverwrite)
		if errors.Is(err, entity.ErrUserAlreadyExists) {
			current.printer.Warning("%v; rerun with --overwrite to replace it", err)
			return nil
		}
		if err != nil {
			return err
		}
		current.printer.Success("Account %s imported (%d entries)", acc.Username, acc.Ledger.Len())
		return nil
	},
}

var backupCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "backup",
	Short: "Write a timestamped copy of all accounts.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if current.backup == nil {
			return errors.New("backups need the file or sqlite storage driver")
		}
		location, err := current.backup.Execute(cmd.Context())
		if err != nil {
			return err
		}
		current.printer.Success("Backup written to %s", location)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	importCmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "replace an existing account with the same username")
	rootCmd.AddCommand(exportCmd, importCmd, backupCmd)
}
