package cli

import (
	"github.com/spf13/cobra"
)

var (
	flagPassword string //nolint:gochecknoglobals
	flagConfirm  bool   //nolint:gochecknoglobals
)

var registerCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "register <username>",
	Short: "Create an account and log in.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd, flagPassword, "Password: ")
		if err != nil {
			return err
		}
		acc, err := current.auth.Register(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if err := current.session.Begin(cmd.Context(), acc.Username); err != nil {
			return err
		}
		current.printer.Success("Registered and logged in as %s", acc.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "login <username>",
	Short: "Log in; an unknown username is registered.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd, flagPassword, "Password: ")
		if err != nil {
			return err
		}
		acc, registered, err := current.auth.HandleLogin(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if err := current.session.Begin(cmd.Context(), acc.Username); err != nil {
			return err
		}
		if registered {
			current.printer.Success("New account %s registered and logged in", acc.Username)
			return nil
		}
		current.printer.Success("Logged in as %s", acc.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "logout",
	Short: "End the current session.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := current.session.End(cmd.Context()); err != nil {
			return err
		}
		current.printer.Success("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "whoami",
	Short: "Show the logged-in user.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		current.printer.Info("%s", username)
		return nil
	},
}

var deleteAccountCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "delete-account",
	Short: "Delete the logged-in account and all its data.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, err := current.currentUser(cmd.Context())
		if err != nil {
			return err
		}
		if !flagConfirm {
			current.printer.Warning("this removes %s and every entry; rerun with --yes to confirm", username)
			return nil
		}
		password, err := readPassword(cmd, flagPassword, "Password: ")
		if err != nil {
			return err
		}
		if err := current.auth.DeleteAccount(cmd.Context(), username, password); err != nil {
			return err
		}
		if err := current.session.End(cmd.Context()); err != nil {
			return err
		}
		current.printer.Success("Account %s deleted", username)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd, deleteAccountCmd} {
		cmd.Flags().StringVarP(&flagPassword, "password", "p", "", "password (prompted when omitted)")
	}
	deleteAccountCmd.Flags().BoolVarP(&flagConfirm, "yes", "y", false, "confirm deletion")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, deleteAccountCmd)
}
