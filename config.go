package gnucash

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the tool configuration, loaded from TOML with environment
// overrides.
type Config struct {
	BookPath     string        `toml:"book_path"`
	BaseCurrency string        `toml:"base_currency"`
	Quotes       QuotesConfig  `toml:"quotes"`
	Gemini       GeminiConfig  `toml:"gemini"`
	Logging      LoggingConfig `toml:"logging"`
}

// QuotesConfig holds the quote provider API configuration.
type QuotesConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Timeout   string `toml:"timeout"`
	CacheDir  string `toml:"cache_dir"`
	PricePath string `toml:"price_path"` // jsonpath expression into the provider response
}

// GetTimeout parses and returns the request timeout duration.
func (c *QuotesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds the AI analyst configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		BookPath:     "book.jsonl",
		BaseCurrency: "USD",
		Quotes: QuotesConfig{
			BaseURL:   "https://eodhd.com/api",
			Timeout:   "30s",
			PricePath: "$.close",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if !validCurrencyCode(config.BaseCurrency) {
		return nil, fmt.Errorf("unknown base currency %q", config.BaseCurrency)
	}
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if path := os.Getenv("GWD_BOOK"); path != "" {
		config.BookPath = path
	}
	if cur := os.Getenv("GWD_CURRENCY"); cur != "" {
		config.BaseCurrency = cur
	}
	if key := os.Getenv("GWD_QUOTES_API_KEY"); key != "" {
		config.Quotes.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if level := os.Getenv("GWD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if timeout := os.Getenv("GWD_QUOTES_TIMEOUT"); timeout != "" {
		if _, err := strconv.Atoi(timeout); err == nil {
			timeout += "s"
		}
		config.Quotes.Timeout = timeout
	}
}
