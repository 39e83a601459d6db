package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/credstore"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/feed"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/model"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/watchlist"
)

// ErrNotReady is returned when a subscription command is requested
// while no feed session is ready. Commands are never queued; the caller
// may retry once connected.
var ErrNotReady = errors.New("feed not ready")

// stopTimeout bounds how long teardown waits for the engine to drain.
const stopTimeout = 5 * time.Second

// Config holds the session-level settings.
type Config struct {
	// Feed carries the URL, timeouts and buffer size. User and Pass are
	// filled in per login.
	Feed feed.ClientConfig

	// DefaultSymbols is the watch-set subscribed on every new session.
	DefaultSymbols []string
}

// DialFunc constructs a feed client for one session. Swappable in tests.
type DialFunc func(cfg feed.ClientConfig, logger *slog.Logger) feed.Client

// Controller owns the credential lifecycle and drives the feed
// connection in response to it. It is the public action surface: login,
// logout, add symbol, remove symbol.
type Controller struct {
	cfg    Config
	creds  credstore.Store
	store  *watchlist.Store
	logger *slog.Logger
	dial   DialFunc

	mu        sync.Mutex
	client    feed.Client
	engine    *watchlist.Engine
	cancel    context.CancelFunc
	sessionID uuid.UUID
}

// NewController creates a controller. A nil dial falls back to the real
// WebSocket client.
func NewController(cfg Config, creds credstore.Store, store *watchlist.Store, dial DialFunc, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if dial == nil {
		dial = func(cfg feed.ClientConfig, logger *slog.Logger) feed.Client {
			return feed.NewClient(cfg, logger)
		}
	}

	return &Controller{
		cfg:    cfg,
		creds:  creds,
		store:  store,
		logger: logger,
		dial:   dial,
	}
}

// Resume starts a session from credentials persisted by a previous run.
// No stored credentials means staying logged out.
func (c *Controller) Resume(ctx context.Context) error {
	creds, ok, err := c.creds.Load(ctx)
	if err != nil {
		return err
	}
	if !ok || !creds.Valid() {
		c.logger.Info("no stored credentials, staying logged out")
		return nil
	}

	c.logger.Info("resuming session", "user", creds.User)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(creds)
}

// Login persists the credentials and restarts the feed session. Empty
// user or pass is treated as a logout, not an error.
func (c *Controller) Login(ctx context.Context, user, pass string) error {
	creds := model.Credentials{User: user, Pass: pass}
	if !creds.Valid() {
		return c.Logout(ctx)
	}

	if err := c.creds.Save(ctx, creds); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The previous connection must be fully closed before a new one is
	// opened; two live sessions would interleave their updates.
	c.teardownLocked()
	return c.startLocked(creds)
}

// Logout clears the persisted credentials, closes the feed connection,
// and resets all quote state.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.creds.Clear(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.teardownLocked()
	c.mu.Unlock()

	c.logger.Info("logged out")
	return nil
}

// Close shuts down the current session without touching the persisted
// credentials, so the next run can resume.
func (c *Controller) Close() {
	c.mu.Lock()
	c.teardownLocked()
	c.mu.Unlock()
}

// AddSymbol subscribes one symbol, normalized to upper case. Effective
// only while the session is ready; otherwise the request is dropped,
// never queued.
func (c *Controller) AddSymbol(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil
	}

	c.mu.Lock()
	client := c.client
	engine := c.engine
	c.mu.Unlock()

	if engine == nil || engine.Status() != feed.StatusReady {
		c.logger.Debug("add symbol dropped, feed not ready", "symbol", symbol)
		return ErrNotReady
	}

	return c.send(client, feed.Command{
		Method:  feed.MethodAddSymbol,
		Symbols: []string{symbol},
	})
}

// RemoveSymbol unsubscribes best-effort and always removes the local
// rows, so the table stays consistent even when the upstream never
// acknowledges.
func (c *Controller) RemoveSymbol(name, id string) {
	c.mu.Lock()
	client := c.client
	engine := c.engine
	c.mu.Unlock()

	if engine != nil && engine.Status() == feed.StatusReady {
		symbols := make([]string, 0, 2)
		if name != "" {
			symbols = append(symbols, name)
		}
		if id != "" {
			symbols = append(symbols, id)
		}
		if len(symbols) > 0 {
			if err := c.send(client, feed.Command{
				Method:  feed.MethodRemoveSymbol,
				Symbols: symbols,
			}); err != nil {
				c.logger.Warn("unsubscribe failed", "name", name, "id", id, "error", err)
			}
		}
	}

	c.store.Remove(name, id)
}

// Status returns the current session status. Idle means logged out.
func (c *Controller) Status() feed.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return feed.StatusIdle
	}
	return c.engine.Status()
}

// Snapshot returns the current table view.
func (c *Controller) Snapshot() []model.Quote {
	return c.store.Snapshot()
}

// send marshals and writes one command.
func (c *Controller) send(client feed.Client, cmd feed.Command) error {
	if client == nil {
		return feed.ErrNotConnected
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return client.Send(data)
}

// startLocked opens a new feed session. Caller must hold the lock and
// have torn down any previous session.
func (c *Controller) startLocked(creds model.Credentials) error {
	c.sessionID = uuid.New()
	logger := c.logger.With("session_id", c.sessionID)

	clientCfg := c.cfg.Feed
	clientCfg.User = creds.User
	clientCfg.Pass = creds.Pass

	client := c.dial(clientCfg, logger)
	engine := watchlist.NewEngine(c.store, client, c.cfg.DefaultSymbols, logger)

	// The session outlives the call that created it; it ends on logout,
	// re-login, or Close.
	runCtx, cancel := context.WithCancel(context.Background())

	if err := engine.Start(runCtx); err != nil {
		cancel()
		return err
	}

	c.client = client
	c.engine = engine
	c.cancel = cancel

	logger.Info("session starting", "user", creds.User)

	// Dial failures surface through the engine as an error status; the
	// caller can log in again to retry.
	if err := client.Connect(runCtx); err != nil {
		logger.Warn("feed dial failed", "error", err)
	}

	return nil
}

// teardownLocked closes the current session and clears the table.
// Caller must hold the lock.
func (c *Controller) teardownLocked() {
	if c.client != nil {
		c.client.Close()
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.engine != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		c.engine.Stop(stopCtx)
		cancel()
	}

	c.client = nil
	c.engine = nil
	c.cancel = nil

	c.store.Clear()
}
