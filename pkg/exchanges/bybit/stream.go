package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/veiloq/trading-sdk/pkg/logging"
	"github.com/veiloq/trading-sdk/pkg/websocket"
)

// StreamChannel selects the public stream a Stream connects to.
type StreamChannel string

const (
	StreamChannelSpot    StreamChannel = "spot"
	StreamChannelLinear  StreamChannel = "linear"
	StreamChannelInverse StreamChannel = "inverse"
)

// StreamOptions configure a public market-data stream.
type StreamOptions struct {
	// Channel is the product stream to connect to (default spot)
	Channel StreamChannel

	// Testnet connects to the testnet stream edge
	Testnet bool

	// URL overrides the derived stream URL. Used in tests.
	URL string

	HeartbeatInterval time.Duration
	ReconnectInterval time.Duration
	MaxRetries        int

	Logger logging.Logger
}

// Stream subscribes to Bybit public market-data topics over WebSocket.
// Subscriptions survive automatic reconnection: the subscribe messages are
// replayed after the connection is reestablished.
type Stream struct {
	ws     websocket.WSConnector
	logger logging.Logger

	topicsMu sync.Mutex
	topics   []string
}

// StreamKline is one candle update from a kline topic. Prices and volumes are
// decimal strings, matching the wire format.
type StreamKline struct {
	Symbol   string
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Interval string `json:"interval"`
	Open     string `json:"open"`
	Close    string `json:"close"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Volume   string `json:"volume"`
	Turnover string `json:"turnover"`
	Confirm  bool   `json:"confirm"`
}

// StreamTicker is one ticker update.
type StreamTicker struct {
	Symbol       string `json:"symbol"`
	LastPrice    string `json:"lastPrice"`
	HighPrice24h string `json:"highPrice24h"`
	LowPrice24h  string `json:"lowPrice24h"`
	Volume24h    string `json:"volume24h"`
	Turnover24h  string `json:"turnover24h"`
}

// StreamOrderbook is one order book snapshot or delta. Levels are
// [price, size] string pairs.
type StreamOrderbook struct {
	Symbol   string      `json:"s"`
	Bids     [][2]string `json:"b"`
	Asks     [][2]string `json:"a"`
	UpdateID int64       `json:"u"`
}

// NewStream creates a stream for the configured public channel.
func NewStream(opts StreamOptions) *Stream {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}

	url := opts.URL
	if url == "" {
		url = streamURL(opts.Channel, opts.Testnet)
	}
	heartbeat := opts.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = 20 * time.Second
	}
	reconnect := opts.ReconnectInterval
	if reconnect <= 0 {
		reconnect = 5 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	s := &Stream{logger: logger}

	s.ws = websocket.NewConnector(websocket.Config{
		URL:               url,
		HeartbeatInterval: heartbeat,
		ReconnectInterval: reconnect,
		MaxRetries:        maxRetries,
		// Bybit public streams expect an application-level ping
		PingPayload: []byte(`{"op":"ping"}`),
		OnReconnect: s.resubscribe,
		Logger:      logger,
	})

	return s
}

func streamURL(channel StreamChannel, testnet bool) string {
	if channel == "" {
		channel = StreamChannelSpot
	}
	host := "stream.bybit.com"
	if testnet {
		host = "stream-testnet.bybit.com"
	}
	return fmt.Sprintf("wss://%s/v5/public/%s", host, channel)
}

// Connect establishes the stream connection.
func (s *Stream) Connect(ctx context.Context) error {
	return s.ws.Connect(ctx)
}

// Close terminates the stream connection.
func (s *Stream) Close() error {
	return s.ws.Close()
}

// SubscribeKline subscribes to candle updates for a symbol and interval
// (interval in Bybit notation: "1", "5", "60", "D", ...).
func (s *Stream) SubscribeKline(symbol, interval string, handler func(StreamKline)) error {
	topic := fmt.Sprintf("kline.%s.%s", interval, symbol)
	return s.subscribe(topic, func(message []byte) {
		var envelope struct {
			Data []StreamKline `json:"data"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil {
			s.logger.Warn("failed to decode kline update", logging.Error(err))
			return
		}
		for _, kline := range envelope.Data {
			kline.Symbol = symbol
			handler(kline)
		}
	})
}

// SubscribeTicker subscribes to ticker updates for a symbol.
func (s *Stream) SubscribeTicker(symbol string, handler func(StreamTicker)) error {
	topic := fmt.Sprintf("tickers.%s", symbol)
	return s.subscribe(topic, func(message []byte) {
		var envelope struct {
			Data StreamTicker `json:"data"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil {
			s.logger.Warn("failed to decode ticker update", logging.Error(err))
			return
		}
		if envelope.Data.Symbol == "" {
			envelope.Data.Symbol = symbol
		}
		handler(envelope.Data)
	})
}

// SubscribeOrderbook subscribes to order book updates for a symbol at the
// given depth (1, 50, 200 or 500 depending on channel).
func (s *Stream) SubscribeOrderbook(symbol string, depth int, handler func(StreamOrderbook)) error {
	topic := fmt.Sprintf("orderbook.%d.%s", depth, symbol)
	return s.subscribe(topic, func(message []byte) {
		var envelope struct {
			Data StreamOrderbook `json:"data"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil {
			s.logger.Warn("failed to decode orderbook update", logging.Error(err))
			return
		}
		handler(envelope.Data)
	})
}

// Unsubscribe removes the handler for a topic and notifies the exchange.
func (s *Stream) Unsubscribe(topic string) error {
	if err := s.ws.Unsubscribe(topic); err != nil {
		return err
	}

	s.topicsMu.Lock()
	for i, t := range s.topics {
		if t == topic {
			s.topics = append(s.topics[:i], s.topics[i+1:]...)
			break
		}
	}
	s.topicsMu.Unlock()

	return s.ws.Send(opMessage{Op: "unsubscribe", Args: []string{topic}})
}

type opMessage struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

func (s *Stream) subscribe(topic string, handler websocket.MessageHandler) error {
	if err := s.ws.Subscribe(topic, handler); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	if err := s.ws.Send(opMessage{Op: "subscribe", Args: []string{topic}}); err != nil {
		return fmt.Errorf("failed to send subscribe for %s: %w", topic, err)
	}

	s.topicsMu.Lock()
	s.topics = append(s.topics, topic)
	s.topicsMu.Unlock()

	return nil
}

// resubscribe replays subscribe messages after a reconnect.
func (s *Stream) resubscribe() {
	s.topicsMu.Lock()
	topics := make([]string, len(s.topics))
	copy(topics, s.topics)
	s.topicsMu.Unlock()

	if len(topics) == 0 {
		return
	}
	if err := s.ws.Send(opMessage{Op: "subscribe", Args: topics}); err != nil {
		s.logger.Warn("failed to resubscribe after reconnect", logging.Error(err))
	}
}
