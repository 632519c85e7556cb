package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/singlekey/singlekey"
)

// EnvPrefix prefixes every environment override, e.g. SINGLEKEY_API_TOKEN
const EnvPrefix = "SINGLEKEY"

const placeholderToken = "your-api-token-here"

// keys lists every setting that may come from the environment
var keys = []string{
	"api_token",
	"environment",
	"base_url",
	"timeout",
	"poll.interval",
	"poll.timeout",
	"logging.level",
	"logging.format",
	"logging.color",
}

// Load reads configuration from an optional file, a .env file and the
// environment, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Environment overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".singlekey"))
		}

		// Check /etc
		v.AddConfigPath("/etc/singlekey/")
	}

	// Read config file (optional unless a path was given)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")
	v.SetDefault("timeout", singlekey.DefaultTimeout)

	v.SetDefault("poll.interval", singlekey.DefaultPollInterval)
	v.SetDefault("poll.timeout", singlekey.DefaultWaitTimeout)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	// Validate API token
	if cfg.APIToken == "" || cfg.APIToken == placeholderToken {
		return fmt.Errorf("api_token must be set (or %s_API_TOKEN)", EnvPrefix)
	}

	// Validate environment
	if _, err := singlekey.ParseEnvironment(cfg.Environment); err != nil {
		return err
	}

	// Validate timeouts
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", cfg.Poll.Interval)
	}
	if cfg.Poll.Timeout < cfg.Poll.Interval {
		return fmt.Errorf("poll.timeout (%s) must not be shorter than poll.interval (%s)", cfg.Poll.Timeout, cfg.Poll.Interval)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// Warnings reports settings that are valid but likely to misbehave
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Timeout >= c.Poll.Interval {
		warnings = append(warnings, fmt.Sprintf(
			"timeout (%s) is not shorter than poll.interval (%s); a slow report fetch can delay the next poll",
			c.Timeout, c.Poll.Interval))
	}
	return warnings
}

// ClientOptions translates the configuration into singlekey client options.
// base_url, when set, takes precedence over environment.
func (c *Config) ClientOptions() ([]singlekey.Option, error) {
	env, err := singlekey.ParseEnvironment(c.Environment)
	if err != nil {
		return nil, err
	}

	opts := []singlekey.Option{
		singlekey.WithEnvironment(env),
		singlekey.WithTimeout(c.Timeout),
	}
	if c.BaseURL != "" {
		opts = append(opts, singlekey.WithBaseURL(c.BaseURL))
	}
	return opts, nil
}

// WaitOptions returns the polling settings for WaitForReport
func (c *Config) WaitOptions() singlekey.WaitOptions {
	return singlekey.WaitOptions{
		Timeout:  c.Poll.Timeout,
		Interval: c.Poll.Interval,
	}
}
