// Package tradingsdk provides typed REST clients for cryptocurrency trading venues.
//
// The library currently supports Bybit (V5 API) and BingX. Each exchange package
// exposes one method per REST endpoint: the method builds a parameter map, signs
// the request with HMAC-SHA256 where required, and decodes the exchange's response
// envelope into a typed result.
//
// Core Features:
//
//   - Typed request builders and response decoding for Bybit and BingX
//   - HMAC-SHA256 request signing per exchange signing rules
//   - A shared HTTP connection pool (session.Manager) reused across clients
//   - A TTL-keyed client cache deduplicating client construction per credential tuple
//   - Public WebSocket market-data streaming for Bybit
//
// # Session pool
//
// Constructing many clients without a shared pool pays the TCP/TLS handshake cost
// per client. The session manager owns one tuned http.Client that every exchange
// client reuses while the manager is initialized:
//
//	sessions := session.NewManager()
//	sessions.Setup(2000)
//	defer sessions.Close()
//
//	client, err := bybit.NewClient(&bybit.Options{
//		APIKey:    "your-api-key",
//		APISecret: "your-api-secret",
//		Session:   sessions,
//	})
//
// Calling Client() on an uninitialized manager panics: it indicates a startup
// ordering bug, not a runtime condition. Check IsInitialized() first to fall back
// to a private client instead.
//
// # Client cache
//
// The per-exchange caches deduplicate client construction by credential tuple
// with bounded staleness (default 600 seconds):
//
//	clients := bybit.NewClientCache(sessions)
//	client, err := clients.GetOrCreate("key", "secret", false, false)
//
//	task := clients.StartCleanup(60 * time.Second)
//	defer task.Stop()
//
// Handles returned by the cache stay valid after eviction; eviction only drops
// the cache's own reference.
//
// # Endpoint calls
//
//	resp, err := client.GetWalletBalance(ctx, bybit.AccountTypeUnified, "")
//	if err != nil {
//		var apiErr *interfaces.APIError
//		if errors.As(err, &apiErr) {
//			log.Fatalf("exchange rejected request: %d %s", apiErr.Code, apiErr.Message)
//		}
//		log.Fatalf("request failed: %v", err)
//	}
//
// # Streaming
//
// Bybit public market data can be streamed over WebSocket:
//
//	stream := bybit.NewStream(bybit.StreamOptions{})
//	if err := stream.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer stream.Close()
//
//	stream.SubscribeKline("BTCUSDT", "1", func(k bybit.StreamKline) {
//		fmt.Printf("%s close=%s\n", k.Symbol, k.Close)
//	})
package tradingsdk
