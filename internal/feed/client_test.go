package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockFeedServer creates a test WebSocket server.
func mockFeedServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testClientConfig(url string) ClientConfig {
	cfg := DefaultClientConfig()
	cfg.URL = url
	cfg.User = "tduser"
	cfg.Pass = "tdpass"
	cfg.PingInterval = 0 // no keepalive noise in tests
	cfg.BufferSize = 100
	return cfg
}

// waitEvent reads the next event or fails the test.
func waitEvent(t *testing.T, c Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestClient_ConnectSendsCredentials(t *testing.T) {
	var gotUser, gotPass string
	var mu sync.Mutex

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUser = r.URL.Query().Get("user")
		gotPass = r.URL.Query().Get("password")
		mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("expected IsConnected to return true")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotUser != "tduser" {
		t.Errorf("user query param = %q, want %q", gotUser, "tduser")
	}
	if gotPass != "tdpass" {
		t.Errorf("password query param = %q, want %q", gotPass, "tdpass")
	}
}

func TestClient_OpenEventFirst(t *testing.T) {
	server := mockFeedServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"message": "TrueData Real Time Data Service", "success": true}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	ev := waitEvent(t, client)
	if ev.Kind != EventOpen {
		t.Fatalf("first event = %v, want EventOpen", ev.Kind)
	}

	ev = waitEvent(t, client)
	if ev.Kind != EventMessage {
		t.Fatalf("second event = %v, want EventMessage", ev.Kind)
	}
	if !strings.Contains(string(ev.Data), "success") {
		t.Errorf("Data = %s, want handshake frame", ev.Data)
	}
}

func TestClient_Send(t *testing.T) {
	var received []byte
	var mu sync.Mutex

	server := mockFeedServer(t, func(conn *websocket.Conn) {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			mu.Lock()
			received = msg
			mu.Unlock()
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	testMsg := []byte(`{"method": "addsymbol", "symbols": ["INFY"]}`)
	if err := client.Send(testMsg); err != nil {
		t.Errorf("Send failed: %v", err)
	}

	// Wait for message to be received
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if string(received) != string(testMsg) {
		t.Errorf("received %q, want %q", received, testMsg)
	}
}

func TestClient_SendNotConnected(t *testing.T) {
	client := NewClient(testClientConfig("ws://localhost:0"), nil)

	if err := client.Send([]byte("x")); err != ErrNotConnected {
		t.Errorf("Send error = %v, want ErrNotConnected", err)
	}
}

func TestClient_ServerClose(t *testing.T) {
	server := mockFeedServer(t, func(conn *websocket.Conn) {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	ev := waitEvent(t, client)
	if ev.Kind != EventOpen {
		t.Fatalf("first event = %v, want EventOpen", ev.Kind)
	}

	ev = waitEvent(t, client)
	if ev.Kind != EventClose {
		t.Errorf("event = %v, want EventClose", ev.Kind)
	}
}

func TestClient_DialFailureQueuesError(t *testing.T) {
	// Port 1 should refuse the connection.
	client := NewClient(testClientConfig("ws://127.0.0.1:1"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err == nil {
		t.Fatal("Connect succeeded, want error")
	}

	ev := waitEvent(t, client)
	if ev.Kind != EventError {
		t.Errorf("event = %v, want EventError", ev.Kind)
	}
	if ev.Err == nil {
		t.Error("Err = nil, want dial error")
	}
}

func TestClient_CloseTwice(t *testing.T) {
	server := mockFeedServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if client.IsConnected() {
		t.Error("expected IsConnected to return false after Close")
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestClient_ConnectAfterClose(t *testing.T) {
	client := NewClient(testClientConfig("ws://localhost:0"), nil)
	client.Close()

	if err := client.Connect(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("Connect error = %v, want ErrAlreadyClosed", err)
	}
}
