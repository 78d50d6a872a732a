package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"

	"fintrack.com/internal/application/usecase"
	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/infrastructure/render"
)

const (
	Major  = "1"
	Minor  = "0"
	Fix    = "0"
	Verbal = "Initial"
)

// skipSetup marks commands that run without config or storage
const skipSetup = "skip-setup"

var (
	flagConfigDir string //nolint:gochecknoglobals
	flagDataFile  string //nolint:gochecknoglobals
	flagLogLevel  string //nolint:gochecknoglobals

	current *app //nolint:gochecknoglobals
)

var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:           "fintrack",
	Long:          "Fintrack - personal finance tracker: entries, budgets, statistics and transfers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		a, err := newApp(cmd.Context(), options{
			configDir: flagConfigDir,
			dataFile:  flagDataFile,
			logLevel:  flagLogLevel,
			operation: uuid.NewString(),
			command:   cmd.CommandPath(),
		})
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if current == nil {
			return nil
		}
		return current.close(cmd.Context())
	},
}

// Run enters into the cobra command to start the tracker.
func Run() error {
	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	if current != nil {
		current.logger.LogError(ctx, "Command failed", err)
		_ = current.close(ctx)
	}
	render.NewPrinter(os.Stderr, render.ColorAuto).Error("%s", userMessage(err))
	return fmt.Errorf("error executing root command: %w", err)
}

// userMessage maps domain errors to a short explanation
func userMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrNotLoggedIn):
		return "not logged in, run `fintrack login` first"
	case errors.Is(err, entity.ErrUserNotFound):
		return "user not found: " + err.Error()
	case errors.Is(err, entity.ErrUserAlreadyExists):
		return "user already exists: " + err.Error()
	case errors.Is(err, entity.ErrPasswordMismatch):
		return "wrong password"
	case errors.Is(err, entity.ErrInsufficientFunds):
		return "insufficient funds: " + err.Error()
	case errors.Is(err, entity.ErrSelfTransfer):
		return "you cannot transfer money to yourself"
	case errors.Is(err, entity.ErrIndexOutOfRange):
		return "no entry with that number"
	default:
		return err.Error()
	}
}

var versionCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:         "version",
	Short:       "Describes version.",
	Annotations: map[string]string{skipSetup: "true"},
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Version: %s.%s.%s %s\n", Major, Minor, Fix, Verbal)
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", defaultConfigDir(), "directory holding app-config.yaml and <CONFIG_ENV>.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDataFile, "data-file", "", "override storage.dataFile")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)

	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})
}
