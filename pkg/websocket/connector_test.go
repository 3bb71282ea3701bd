package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/trading-sdk/pkg/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// setupTestServer creates a test WebSocket server
func setupTestServer(t *testing.T, handler func(conn *websocket.Conn)) (*httptest.Server, string) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error("upgrade failed:", err)
			return
		}
		handler(conn)
	}))
	// Convert http:// to ws://
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	return server, wsURL
}

func testConfig(url string) Config {
	return Config{
		URL:               url,
		HeartbeatInterval: time.Second,
		ReconnectInterval: 50 * time.Millisecond,
		MaxRetries:        3,
		Logger:            logging.NewNopLogger(),
	}
}

func TestConnectorConnectAndClose(t *testing.T) {
	server, wsURL := setupTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	c := NewConnector(testConfig(wsURL))

	require.NoError(t, c.Connect(context.Background()))
	assert.True(t, c.IsConnected())

	// Connect is a no-op while connected.
	require.NoError(t, c.Connect(context.Background()))

	require.NoError(t, c.Close())
	assert.Eventually(t, func() bool { return !c.IsConnected() }, time.Second, 10*time.Millisecond)
}

func TestConnectorCloseWithoutConnect(t *testing.T) {
	c := NewConnector(testConfig("ws://127.0.0.1:1/never-dialed"))

	require.NoError(t, c.Close())
	assert.False(t, c.IsConnected())

	// Still idempotent.
	require.NoError(t, c.Close())
}

func TestConnectorConnectFailure(t *testing.T) {
	config := testConfig("ws://127.0.0.1:1/ws")
	c := NewConnector(config)

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, c.IsConnected())
}

func TestConnectorDispatchesByTopic(t *testing.T) {
	send := make(chan []byte, 4)
	server, wsURL := setupTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		for msg := range send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	})
	defer server.Close()

	c := NewConnector(testConfig(wsURL))
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	received := make(chan []byte, 4)
	require.NoError(t, c.Subscribe("kline.1.BTCUSDT", func(message []byte) {
		received <- message
	}))

	// Matching topic reaches the handler.
	send <- []byte(`{"topic":"kline.1.BTCUSDT","data":[{"close":"30000"}]}`)
	select {
	case msg := <-received:
		assert.Contains(t, string(msg), "30000")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// Other topics and control messages are dropped silently.
	send <- []byte(`{"topic":"tickers.BTCUSDT","data":{}}`)
	send <- []byte(`{"op":"pong"}`)
	select {
	case <-received:
		t.Fatal("unexpected message dispatched")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConnectorSubscribeRequiresConnection(t *testing.T) {
	c := NewConnector(testConfig("ws://unused"))

	err := c.Subscribe("topic", func([]byte) {})
	assert.Error(t, err)
}

func TestConnectorUnsubscribe(t *testing.T) {
	send := make(chan []byte, 1)
	server, wsURL := setupTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		for msg := range send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	})
	defer server.Close()

	c := NewConnector(testConfig(wsURL))
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	received := make(chan []byte, 1)
	require.NoError(t, c.Subscribe("topic.a", func(message []byte) {
		received <- message
	}))
	require.NoError(t, c.Unsubscribe("topic.a"))

	send <- []byte(`{"topic":"topic.a","data":{}}`)
	select {
	case <-received:
		t.Fatal("handler invoked after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConnectorSend(t *testing.T) {
	got := make(chan []byte, 1)
	server, wsURL := setupTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		got <- msg
	})
	defer server.Close()

	c := NewConnector(testConfig(wsURL))
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	require.NoError(t, c.Send(map[string]interface{}{
		"op":   "subscribe",
		"args": []string{"kline.1.BTCUSDT"},
	}))

	select {
	case msg := <-got:
		assert.JSONEq(t, `{"op":"subscribe","args":["kline.1.BTCUSDT"]}`, string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for sent message")
	}
}

func TestConnectorApplicationPing(t *testing.T) {
	got := make(chan []byte, 1)
	server, wsURL := setupTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		got <- msg
	})
	defer server.Close()

	config := testConfig(wsURL)
	config.HeartbeatInterval = 20 * time.Millisecond
	config.PingPayload = []byte(`{"op":"ping"}`)

	c := NewConnector(config)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	select {
	case msg := <-got:
		assert.JSONEq(t, `{"op":"ping"}`, string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for heartbeat ping")
	}
}
