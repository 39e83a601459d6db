package watchlist

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/feed"
)

// Engine consumes transport events from one feed session and applies
// them to the store. A single goroutine drains the event queue, so
// messages are processed strictly in arrival order and no message
// handler ever blocks on another.
type Engine struct {
	store  *Store
	client feed.Client
	logger *slog.Logger

	// Symbols subscribed immediately on transport open.
	defaultSymbols []string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	status feed.Status

	// Stats
	received  int64
	applied   int64
	discarded int64
}

// EngineStats contains runtime counters.
type EngineStats struct {
	MessagesReceived int64
	RecordsApplied   int64
	Discarded        int64
}

// NewEngine creates an engine for one feed session. The session starts
// in the connecting state; the client's open event moves it to ready.
func NewEngine(store *Store, client feed.Client, defaultSymbols []string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		store:          store,
		client:         client,
		logger:         logger,
		defaultSymbols: defaultSymbols,
		status:         feed.StatusConnecting,
	}
}

// Start begins consuming feed events.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runLoop()

	return nil
}

// Stop shuts the engine down and waits for the consumer to drain.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		e.logger.Warn("engine stop timed out")
		return ctx.Err()
	}
}

// Status returns the current session status.
func (e *Engine) Status() feed.Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Stats returns current counters.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EngineStats{
		MessagesReceived: e.received,
		RecordsApplied:   e.applied,
		Discarded:        e.discarded,
	}
}

func (e *Engine) setStatus(st feed.Status) {
	e.mu.Lock()
	e.status = st
	e.mu.Unlock()
}

// runLoop is the single consumer of the feed event queue.
func (e *Engine) runLoop() {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case ev, ok := <-e.client.Events():
			if !ok {
				return
			}
			e.handleEvent(ev)
		}
	}
}

// handleEvent applies one transport event.
func (e *Engine) handleEvent(ev feed.Event) {
	switch ev.Kind {
	case feed.EventOpen:
		// Optimistically ready; the handshake frame re-confirms.
		e.setStatus(feed.StatusReady)
		e.subscribeDefaults()

	case feed.EventMessage:
		e.dispatch(ev.Data)

	case feed.EventClose:
		e.logger.Info("feed closed", "error", ev.Err)
		e.setStatus(feed.StatusClosed)
		e.store.Clear()

	case feed.EventError:
		e.logger.Warn("feed error", "error", ev.Err)
		e.setStatus(feed.StatusError)
	}
}

// subscribeDefaults requests the fixed default watch-set.
func (e *Engine) subscribeDefaults() {
	if len(e.defaultSymbols) == 0 {
		return
	}

	cmd := feed.Command{Method: feed.MethodAddSymbol, Symbols: e.defaultSymbols}
	data, _ := json.Marshal(cmd)
	if err := e.client.Send(data); err != nil {
		e.logger.Warn("failed to subscribe default symbols", "error", err)
	}
}

// dispatch classifies one inbound frame and mutates state accordingly.
// Malformed input is discarded at the smallest possible granularity and
// never aborts the loop.
func (e *Engine) dispatch(data []byte) {
	e.mu.Lock()
	e.received++
	e.mu.Unlock()

	msg := feed.Parse(data)

	switch msg.Kind {
	case feed.KindHandshake:
		if msg.Handshake.Text == feed.HandshakeText && msg.Handshake.Success {
			e.setStatus(feed.StatusReady)
			e.logger.Info("feed handshake confirmed")
		}

	case feed.KindSnapshot:
		applied := 0
		for _, rec := range msg.Records {
			if e.store.ApplySnapshot(rec) {
				applied++
			}
		}
		e.mu.Lock()
		e.applied += int64(applied)
		e.discarded += int64(len(msg.Records) - applied)
		e.mu.Unlock()

	case feed.KindTrade:
		if e.store.ApplyDelta(msg.Trade) {
			e.mu.Lock()
			e.applied++
			e.mu.Unlock()
		}

	default:
		// Unrecognized shape; skip for forward compatibility.
		e.mu.Lock()
		e.discarded++
		e.mu.Unlock()
		e.logger.Debug("discarding unrecognized frame")
	}
}
