package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr               string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout  time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath       string        `mapstructure:"database_path" yaml:"database_path"`
	StaticDir          string        `mapstructure:"static_dir" yaml:"static_dir"`
	PresentationSource string        `mapstructure:"presentation_source" yaml:"presentation_source"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8888",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		DatabasePath:       "podium.db",
		StaticDir:          "static",
		PresentationSource: "/static/presentations/pres1/index.html",
	}
}
