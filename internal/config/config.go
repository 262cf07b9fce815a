package config

import "time"

// TeamCredential is one entry of the static team secret table.
type TeamCredential struct {
	Team string `mapstructure:"team" yaml:"team"`
	Key  string `mapstructure:"key" yaml:"key"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	MaxHistory    int           `mapstructure:"max_history" yaml:"max_history"`
	MaxAge        time.Duration `mapstructure:"max_age" yaml:"max_age"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`

	Teams []TeamCredential `mapstructure:"teams" yaml:"teams"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		MaxHistory:        100,
		MaxAge:            15 * time.Minute,
		SweepInterval:     60 * time.Second,
	}
}
