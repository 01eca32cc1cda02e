package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("EXPENSES_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "expenses.db", cfg.Database.Path)
	assert.Equal(t, "classification_rules.json", cfg.Rules.Path)
	assert.Equal(t, "generic", cfg.Import.DefaultBank)
	assert.True(t, cfg.Analytics.ZeroFill)
	assert.False(t, cfg.Analytics.ExpensesOnly)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[database]\npath = \"/data/money.db\"\n\n[analytics]\nzero_fill = false\n\n[import]\ndefault_bank = \"ing\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("EXPENSES_CONFIG", path)
	t.Setenv("EXPENSES_RULES_PATH", "/data/rules.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/money.db", cfg.Database.Path)
	assert.Equal(t, "/data/rules.json", cfg.Rules.Path)
	assert.Equal(t, "ing", cfg.Import.DefaultBank)
	assert.False(t, cfg.Analytics.ZeroFill)
}

func TestSaveToThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Database.Path = "other.db"
	cfg.UI.CurrencySymbol = "$"
	cfg.Analytics.ExpensesOnly = true

	require.NoError(t, SaveTo(path, cfg))
	t.Setenv("EXPENSES_CONFIG", path)

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveWritesToConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("EXPENSES_CONFIG", path)
	assert.Equal(t, path, Path())

	cfg := Default()
	cfg.Import.DefaultBank = "abnamro"
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "abnamro", got.Import.DefaultBank)
}
