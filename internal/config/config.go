package config

import "time"

// Config is the root configuration for the watchlist process.
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Redis   RedisConfig   `yaml:"redis"`
	Display DisplayConfig `yaml:"display"`
}

// FeedConfig holds upstream feed settings.
type FeedConfig struct {
	URL              string        `yaml:"url"`
	DefaultSymbols   []string      `yaml:"default_symbols"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	PingTimeout      time.Duration `yaml:"ping_timeout"`
	EventBufferSize  int           `yaml:"event_buffer_size"`
}

// RedisConfig holds the credential store connection.
type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	CredentialKey string `yaml:"credential_key"`
}

// DisplayConfig holds table renderer settings.
type DisplayConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}
