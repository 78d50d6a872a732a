package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fintrack.com/internal/application/usecase"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/domain/service"
	"fintrack.com/internal/infrastructure/config"
	"fintrack.com/internal/infrastructure/logger"
	"fintrack.com/internal/infrastructure/persistence"
	"fintrack.com/internal/infrastructure/render"
	"fintrack.com/internal/infrastructure/repository"
	"fintrack.com/internal/infrastructure/security"
	"fintrack.com/internal/infrastructure/session"
)

const configDirName = "app"

type options struct {
	configDir string
	dataFile  string
	logLevel  string
	operation string
	command   string
	logOutput io.Writer
}

// app holds the wired adapters and use cases for one command invocation
type app struct {
	cfg     *config.Config
	logger  logger.Logger
	printer *render.Printer

	repository port.AccountRepository
	archiver   port.AccountArchiver
	sessions   port.SessionStore
	flush      func(context.Context) error
	closers    []func() error

	auth       *usecase.AuthenticateUseCase
	session    *usecase.SessionUseCase
	entries    *usecase.RecordEntryUseCase
	manage     *usecase.ManageEntriesUseCase
	budgets    *usecase.ManageBudgetUseCase
	statistics *usecase.GetStatisticsUseCase
	transfer   *usecase.TransferFundsUseCase
	export     *usecase.ExportAccountUseCase
	importer   *usecase.ImportAccountUseCase
	backup     *usecase.BackupAccountsUseCase
}

// defaultConfigDir is cmd/config/app relative to where the binary is run from
func defaultConfigDir() string {
	return filepath.Join("cmd", "config", configDirName)
}

func newApp(ctx context.Context, opts options) (*app, error) {
	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.dataFile != "" {
		cfg.Storage.DataFile = opts.dataFile
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logOutput := opts.logOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	baseLogger, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logOutput})
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithOperationID(opts.operation)
	appLogger.LogDebug(ctx, "Configuration loaded",
		"command", opts.command,
		"driver", cfg.Storage.Driver,
		"data_file", cfg.Storage.DataFile)

	a := &app{
		cfg:     cfg,
		logger:  appLogger,
		printer: render.NewPrinter(os.Stdout, cfg.Display.Color),
	}
	if err := a.openStorage(ctx); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	a.sessions = session.NewFileStore(cfg.Session.File, appLogger)
	if cfg.Storage.Driver == config.DriverMemory {
		a.sessions = &session.MemoryStore{}
	}

	a.wireUseCases(appLogger)
	return a, nil
}

// wireUseCases (re)builds every use case around the given logger
func (a *app) wireUseCases(log logger.Logger) {
	engine := service.NewAggregationEngine()
	files := persistence.JSONAccountFiles{}
	alert := a.cfg.Budget.AlertPercent

	a.logger = log
	a.auth = usecase.NewAuthenticateUseCase(a.repository, security.NewBcryptHasher(0), log)
	a.session = usecase.NewSessionUseCase(a.sessions, a.repository, log)
	a.entries = usecase.NewRecordEntryUseCase(a.repository, engine, alert, log)
	a.manage = usecase.NewManageEntriesUseCase(a.repository, log)
	a.budgets = usecase.NewManageBudgetUseCase(a.repository, engine, alert, log)
	a.statistics = usecase.NewGetStatisticsUseCase(a.repository, engine, alert)
	a.transfer = usecase.NewTransferFundsUseCase(a.repository, engine, log)
	a.export = usecase.NewExportAccountUseCase(a.repository, files, log)
	a.importer = usecase.NewImportAccountUseCase(a.repository, files, log)
	if a.archiver != nil {
		a.backup = usecase.NewBackupAccountsUseCase(a.archiver, log)
	}
}

func (a *app) openStorage(ctx context.Context) error {
	var store port.SnapshotStore
	switch a.cfg.Storage.Driver {
	case config.DriverMemory:
		a.repository = repository.NewInMemoryAccounts(a.logger)
		return nil
	case config.DriverSQLite:
		db, err := persistence.OpenSQLiteSnapshot(a.cfg.Storage.SQLitePath, a.cfg.Storage.BackupDir, a.logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		store = db
	default:
		file, err := persistence.NewFileSnapshot(a.cfg.Storage.DataFile, a.cfg.Storage.Codec, a.cfg.Storage.BackupDir, a.logger)
		if err != nil {
			return err
		}
		store = file
	}

	repo, err := repository.OpenSnapshotAccounts(ctx, store, a.logger)
	if err != nil {
		return err
	}
	a.repository = repo
	a.archiver = repo
	a.flush = repo.Flush
	return nil
}

// close flushes and releases storage; safe to call more than once
func (a *app) close(ctx context.Context) error {
	var firstErr error
	if a.flush != nil {
		firstErr = a.flush(ctx)
		a.flush = nil
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// currentUser returns the logged-in username; from then on every use case
// logs with the user attached
func (a *app) currentUser(ctx context.Context) (string, error) {
	username, err := a.session.Current(ctx)
	if err != nil {
		return "", err
	}
	a.wireUseCases(a.logger.WithUser(username))
	return username, nil
}
