package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. EXPENSES_DATABASE_PATH.
const EnvPrefix = "EXPENSES"

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Rules     RulesConfig
	Import    ImportConfig
	Analytics AnalyticsConfig
	Log       LogConfig
	UI        UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// RulesConfig points at the classification rule document.
type RulesConfig struct {
	Path string
}

// ImportConfig holds spreadsheet import defaults.
type ImportConfig struct {
	DefaultBank string `mapstructure:"default_bank"`
}

// AnalyticsConfig controls the weekly trend series.
type AnalyticsConfig struct {
	ZeroFill     bool `mapstructure:"zero_fill"`
	ExpensesOnly bool `mapstructure:"expenses_only"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	File  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Load reads configuration from file and env. Env var overrides use prefix EXPENSES_.
// A .env file in the working directory is honoured when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv(EnvPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(defaultConfigDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "expenses.db")
	v.SetDefault("rules.path", "classification_rules.json")
	v.SetDefault("import.default_bank", "generic")
	v.SetDefault("analytics.zero_fill", true)
	v.SetDefault("analytics.expenses_only", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "expense-classifier.log")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency_symbol", "€")
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "expense-classifier")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "expense-classifier")
}

// Path is the config file Load reads and Save writes.
func Path() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(defaultConfigDir(), "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes cfg as TOML to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("rules.path", cfg.Rules.Path)
	v.Set("import.default_bank", cfg.Import.DefaultBank)
	v.Set("analytics.zero_fill", cfg.Analytics.ZeroFill)
	v.Set("analytics.expenses_only", cfg.Analytics.ExpensesOnly)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
