package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Feed.URL)
	if err != nil {
		return fmt.Errorf("feed.url is not a valid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("feed.url scheme must be ws or wss, got %q", u.Scheme)
	}

	if c.Feed.EventBufferSize < 1 {
		return errors.New("feed.event_buffer_size must be >= 1")
	}
	if c.Feed.WriteTimeout <= 0 {
		return errors.New("feed.write_timeout must be > 0")
	}

	if c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.Display.RefreshInterval <= 0 {
		return errors.New("display.refresh_interval must be > 0")
	}

	return nil
}
