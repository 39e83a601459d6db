package feed

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
	ErrStaleFeed     = errors.New("feed stale (no ping)")
)

// HandshakeText is the service banner the upstream sends after a
// successful authentication handshake.
const HandshakeText = "TrueData Real Time Data Service"

// Subscription command methods.
const (
	MethodAddSymbol    = "addsymbol"
	MethodRemoveSymbol = "removesymbol"
)

// Status is the lifecycle state of one feed session.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusReady
	StatusClosed
	StatusError
)

// String returns the display form used by the UI collaborator.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting..."
	case StatusReady:
		return "Connected (Ready)"
	case StatusError:
		return "Connection Error"
	default:
		return "Disconnected"
	}
}

// EventKind identifies a transport event.
type EventKind string

const (
	EventOpen    EventKind = "open"
	EventMessage EventKind = "message"
	EventClose   EventKind = "close"
	EventError   EventKind = "error"
)

// Event is a single transport callback, queued for the single consumer
// that drives reconciliation. Data is set for message events, Err for
// error events.
type Event struct {
	Kind       EventKind
	Data       []byte
	Err        error
	ReceivedAt time.Time
}

// Command is an outbound subscribe/unsubscribe request.
type Command struct {
	Method  string   `json:"method"`
	Symbols []string `json:"symbols"`
}

// ClientConfig configures a feed client.
type ClientConfig struct {
	URL              string        // Feed URL (e.g., wss://push.truedata.in:8082)
	User             string        // Sent as the "user" query parameter
	Pass             string        // Sent as the "password" query parameter
	HandshakeTimeout time.Duration // WebSocket dial timeout
	WriteTimeout     time.Duration // Write deadline for sends
	PingInterval     time.Duration // Keepalive ping cadence
	PingTimeout      time.Duration // Max silence before the feed is considered stale
	BufferSize       int           // Event channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		PingInterval:     30 * time.Second,
		PingTimeout:      90 * time.Second,
		BufferSize:       1000,
	}
}
