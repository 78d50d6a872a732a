package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the application configuration
type Config struct {
	Storage Storage `mapstructure:"storage"`
	Session Session `mapstructure:"session"`
	Budget  Budget  `mapstructure:"budget"`
	Log     Log     `mapstructure:"log"`
	Display Display `mapstructure:"display"`
}

// Storage configuration
type Storage struct {
	Driver     string `mapstructure:"driver"`
	DataFile   string `mapstructure:"dataFile"`
	Codec      string `mapstructure:"codec"`
	SQLitePath string `mapstructure:"sqlitePath"`
	BackupDir  string `mapstructure:"backupDir"`
}

// Session configuration
type Session struct {
	File string `mapstructure:"file"`
}

// Budget configuration
type Budget struct {
	AlertPercent float64 `mapstructure:"alertPercent"`
}

// Log configuration
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Display configuration
type Display struct {
	Color string `mapstructure:"color"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.dataFile", "users.data")
	v.SetDefault("storage.codec", "json")
	v.SetDefault("storage.sqlitePath", "fintrack.db")
	v.SetDefault("storage.backupDir", ".")
	v.SetDefault("session.file", ".fintrack-session")
	v.SetDefault("budget.alertPercent", 80)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("display.color", ColorAuto)
}

// LoadConfig loads configuration from YAML files in configDir.
// app-config.yaml is read first, then ${CONFIG_ENV}.yaml (default local) is merged on top.
// A .env file in the working directory is loaded before environment variables are read.
func LoadConfig(configDir string) (*Config, error) {
	// a missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	v := viper.New()
	setDefaults(v)

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := filepath.Join(configDir, "app-config.yaml")
	if _, err := os.Stat(baseConfigPath); err == nil {
		v.SetConfigFile(baseConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
	}

	// Merge environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := filepath.Join(configDir, configEnv+".yaml")
	if _, err := os.Stat(envConfigPath); err == nil {
		v.SetConfigFile(envConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge env config file: %w", err)
		}
	}

	// FINTRACK_STORAGE_DATAFILE, FINTRACK_LOG_LEVEL, ...
	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Storage.Codec = strings.ToLower(strings.TrimSpace(cfg.Storage.Codec))
	cfg.Display.Color = strings.ToLower(strings.TrimSpace(cfg.Display.Color))

	return &cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverFile:
		if strings.TrimSpace(c.Storage.DataFile) == "" {
			errs = append(errs, errors.New("storage.dataFile must be set for the file driver"))
		}
		if c.Storage.Codec != "json" && c.Storage.Codec != "zstd" && c.Storage.Codec != "brotli" {
			errs = append(errs, fmt.Errorf("storage.codec must be json, zstd or brotli, got %q", c.Storage.Codec))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			errs = append(errs, errors.New("storage.sqlitePath must be set for the sqlite driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be file, sqlite or memory, got %q", c.Storage.Driver))
	}

	if strings.TrimSpace(c.Session.File) == "" {
		errs = append(errs, errors.New("session.file must be set"))
	}
	if !(c.Budget.AlertPercent > 0) || c.Budget.AlertPercent > 100 {
		errs = append(errs, fmt.Errorf("budget.alertPercent must be in (0, 100], got %v", c.Budget.AlertPercent))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	switch c.Display.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("display.color must be auto, always or never, got %q", c.Display.Color))
	}

	return errors.Join(errs...)
}
