package cli

import (
	"github.com/spf13/cobra"

	"fintrack.com/internal/application/usecase"
	"fintrack.com/internal/infrastructure/render"
)

var flagDescription string //nolint:gochecknoglobals

var transferCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "transfer <recipient> <amount>",
	Short: "Send money to another user.",
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

		result, err := current.transfer.Execute(cmd.Context(), usecase.TransferRequest{
			From:        username,
			To:          args[0],
			Amount:      amount,
			Description: flagDescription,
		})
		if err != nil {
			return err
		}
		current.printer.Success("Transferred %s to %s", render.FormatAmount(amount), args[0])
		current.printer.Info("Your new balance: %s", render.FormatAmount(result.SenderBalance))
		return nil
	},
}

func init() { //nolint:gochecknoinits
	transferCmd.Flags().StringVarP(&flagDescription, "description", "d", "", "category recorded on your side")
	rootCmd.AddCommand(transferCmd)
}
