package gnucash

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "book.jsonl", cfg.BookPath)
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, "https://eodhd.com/api", cfg.Quotes.BaseURL)
	assert.Equal(t, "$.close", cfg.Quotes.PricePath)
	assert.Equal(t, 30*time.Second, cfg.Quotes.GetTimeout())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gwd.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
book_path = "/data/ledger.jsonl"
base_currency = "EUR"

[quotes]
timeout = "5s"

[logging]
level = "debug"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/ledger.jsonl", cfg.BookPath)
	assert.Equal(t, "EUR", cfg.BaseCurrency)
	assert.Equal(t, 5*time.Second, cfg.Quotes.GetTimeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "$.close", cfg.Quotes.PricePath)
}

func TestLoadConfigLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	require.NoError(t, os.WriteFile(first, []byte(`base_currency = "EUR"`), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`base_currency = "GBP"`), 0o644))

	cfg, err := LoadConfig(first, second)
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.BaseCurrency)
}

func TestLoadConfigMissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.BaseCurrency)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GWD_BOOK", "/env/book.jsonl")
	t.Setenv("GWD_CURRENCY", "CHF")
	t.Setenv("GWD_QUOTES_API_KEY", "key-from-env")
	t.Setenv("GWD_QUOTES_TIMEOUT", "10")
	t.Setenv("GWD_LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/env/book.jsonl", cfg.BookPath)
	assert.Equal(t, "CHF", cfg.BaseCurrency)
	assert.Equal(t, "key-from-env", cfg.Quotes.APIKey)
	// Bare integers get a seconds suffix.
	assert.Equal(t, 10*time.Second, cfg.Quotes.GetTimeout())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigUnknownCurrency(t *testing.T) {
	t.Setenv("GWD_CURRENCY", "NOPE")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown base currency")
}

func TestLoadConfigBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("book_path = ["), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestGetTimeoutFallback(t *testing.T) {
	c := QuotesConfig{Timeout: "bogus"}
	assert.Equal(t, 30*time.Second, c.GetTimeout())
}
