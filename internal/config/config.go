package config

import (
	"fmt"
	"net/url"

	"bookscraper/internal/types"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment
const EnvPrefix = "BOOKSCRAPER"

// New returns a viper instance carrying the defaults and reading BOOKSCRAPER_* variables
func New() *viper.Viper {
	d := types.DefaultConfig()

	v := viper.New()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("db", d.DatabaseDSN)
	v.SetDefault("max_pages", d.MaxPages)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("run_timeout", d.RunTimeout)
	v.SetDefault("delay", d.RequestDelay)
	v.SetDefault("use_browser", d.UseHeadlessBrowser)
	v.SetDefault("wait_selector", d.WaitSelector)
	v.SetDefault("user_agent", d.UserAgent)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration: flags bound to v, then environment (a .env file
// is loaded first if present), then the optional YAML file, then defaults.
func Load(v *viper.Viper, configFile string) (*types.Config, error) {
	_ = godotenv.Load()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &types.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the scraper cannot run with
func Validate(c *types.Config) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base URL %q must be an absolute http(s) URL", c.BaseURL)
	}

	if c.DatabaseDSN == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.MaxPages < 0 {
		return fmt.Errorf("max pages cannot be negative")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.RunTimeout <= 0 {
		return fmt.Errorf("run timeout must be positive")
	}

	if c.RequestDelay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}

	if c.WaitSelector == "" {
		return fmt.Errorf("wait selector cannot be empty")
	}

	return nil
}
