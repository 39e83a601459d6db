package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultFeedURL          = "wss://push.truedata.in:8082"
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultPingTimeout      = 90 * time.Second
	DefaultEventBufferSize  = 1000
	DefaultRedisAddr        = "localhost:6379"
	DefaultRefreshInterval  = 1 * time.Second
)

// DefaultSymbols is the watch-set subscribed on every new session.
var DefaultSymbols = []string{"NIFTY 50", "GOLD-I", "SENSEX1_BSE"}

func (c *Config) applyDefaults() {
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.DefaultSymbols == nil {
		c.Feed.DefaultSymbols = DefaultSymbols
	}
	if c.Feed.HandshakeTimeout == 0 {
		c.Feed.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Feed.WriteTimeout == 0 {
		c.Feed.WriteTimeout = DefaultWriteTimeout
	}
	if c.Feed.PingInterval == 0 {
		c.Feed.PingInterval = DefaultPingInterval
	}
	if c.Feed.PingTimeout == 0 {
		c.Feed.PingTimeout = DefaultPingTimeout
	}
	if c.Feed.EventBufferSize == 0 {
		c.Feed.EventBufferSize = DefaultEventBufferSize
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}

	if c.Display.RefreshInterval == 0 {
		c.Display.RefreshInterval = DefaultRefreshInterval
	}
}
