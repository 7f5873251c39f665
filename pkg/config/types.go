package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Podcasts PodcastsConfig `mapstructure:"podcasts"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// PodcastsConfig contains station podcast policy settings
type PodcastsConfig struct {
	// MaxCount caps how many podcasts the station may hold; 0 disables
	// the limit.
	MaxCount int `mapstructure:"max_count"`
}

// FeedConfig contains RSS/Atom feed retrieval settings
type FeedConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}
