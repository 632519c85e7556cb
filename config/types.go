package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	APIToken    string        `mapstructure:"api_token"`
	Environment string        `mapstructure:"environment"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Poll        PollConfig    `mapstructure:"poll"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// PollConfig controls how long the CLI waits for a report
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
