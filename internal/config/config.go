package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"plateau/internal/analyzer"
	"plateau/pkg/model"
)

// Config represents the application configuration
type Config struct {
	API      APIConfig     `yaml:"api"`
	Screen   ScreenConfig  `yaml:"screen"`
	Scanner  ScannerConfig `yaml:"scanner"`
	LogLevel string        `yaml:"log_level"`
}

// APIConfig holds market data provider configurations
type APIConfig struct {
	Provider string       `yaml:"provider"` // yahoo, alpaca, auto
	Yahoo    YahooConfig  `yaml:"yahoo"`
	Alpaca   AlpacaConfig `yaml:"alpaca"`
}

// YahooConfig holds Yahoo Finance settings
type YahooConfig struct {
	BaseURL   string        `yaml:"base_url"`
	RateLimit int           `yaml:"rate_limit"` // requests per minute
	Timeout   time.Duration `yaml:"timeout"`
}

// AlpacaConfig holds Alpaca market data settings
type AlpacaConfig struct {
	Key       string `yaml:"key"`
	Secret    string `yaml:"secret"`
	Feed      string `yaml:"feed"`       // iex or sip
	RateLimit int    `yaml:"rate_limit"` // requests per minute
}

// ScreenConfig holds pattern thresholds
type ScreenConfig struct {
	Interval    string  `yaml:"interval"`      // bar size, e.g. 5m
	PeakPct     float64 `yaml:"peak_pct"`      // spike above open, percent
	BandLowPct  float64 `yaml:"band_low_pct"`  // hold band floor, percent above open
	BandHighPct float64 `yaml:"band_high_pct"` // hold band ceiling, percent above open
	HoldMinutes int     `yaml:"hold_minutes"`  // contiguous minutes inside the band
}

// ScannerConfig holds watch-list settings
type ScannerConfig struct {
	Symbols  []string `yaml:"symbols"`
	Universe string   `yaml:"universe"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	screen := analyzer.DefaultScreenConfig()
	return &Config{
		API: APIConfig{
			Provider: "yahoo",
			Yahoo: YahooConfig{
				RateLimit: 30,
				Timeout:   30 * time.Second,
			},
			Alpaca: AlpacaConfig{
				Feed:      "iex",
				RateLimit: 200,
			},
		},
		Screen: ScreenConfig{
			Interval:    "5m",
			PeakPct:     screen.PeakPct,
			BandLowPct:  screen.BandLowPct,
			BandHighPct: screen.BandHighPct,
			HoldMinutes: screen.HoldMinutes,
		},
		Scanner: ScannerConfig{
			Universe: "default",
		},
		LogLevel: "info",
	}
}

// Load loads configuration from a YAML file, then applies .env and
// environment overrides. A missing file means defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("ALPACA_API_KEY"); key != "" {
		c.API.Alpaca.Key = key
	}
	if secret := os.Getenv("ALPACA_SECRET_KEY"); secret != "" {
		c.API.Alpaca.Secret = secret
	}
	if p := os.Getenv("PLATEAU_PROVIDER"); p != "" {
		c.API.Provider = p
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
}

// ScreenThresholds converts the screen section for the analyzer
func (c *Config) ScreenThresholds() analyzer.ScreenConfig {
	return analyzer.ScreenConfig{
		PeakPct:     c.Screen.PeakPct,
		BandLowPct:  c.Screen.BandLowPct,
		BandHighPct: c.Screen.BandHighPct,
		HoldMinutes: c.Screen.HoldMinutes,
	}
}

// Validate checks if the configuration is valid. An interval the screener
// cannot handle is not an error here; those symbols simply never match.
func (c *Config) Validate() error {
	switch strings.ToLower(c.API.Provider) {
	case "yahoo", "auto":
	case "alpaca":
		if c.API.Alpaca.Key == "" || c.API.Alpaca.Secret == "" {
			return fmt.Errorf("provider alpaca requires ALPACA_API_KEY and ALPACA_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown provider %q (yahoo, alpaca, auto)", c.API.Provider)
	}
	if c.API.Yahoo.RateLimit < 1 || c.API.Alpaca.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be at least 1")
	}
	if c.Screen.Interval == "" {
		return fmt.Errorf("screen.interval is required")
	}
	if err := c.ScreenThresholds().Validate(); err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	return nil
}

// Interval parses the configured interval
func (c *Config) Interval() (model.Interval, error) {
	return model.ParseInterval(c.Screen.Interval)
}
