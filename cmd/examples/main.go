package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veiloq/trading-sdk/pkg/cache"
	"github.com/veiloq/trading-sdk/pkg/exchanges/bingx"
	"github.com/veiloq/trading-sdk/pkg/exchanges/bybit"
	"github.com/veiloq/trading-sdk/pkg/logging"
	"github.com/veiloq/trading-sdk/pkg/session"
)

func main() {
	// Create logger
	logger := logging.NewLogger()
	logger.SetLevel(logging.DEBUG)

	// Shared connection pool for all exchange clients
	sessions := session.NewManager(session.WithLogger(logger))
	sessions.Setup(100)
	defer sessions.Close()

	// Client caches keyed by credentials, with background expiry
	bybitClients := bybit.NewClientCache(sessions, cache.WithLogger(logger))
	bingxClients := bingx.NewClientCache(sessions, cache.WithLogger(logger))

	cleanupBybit := bybitClients.StartCleanup(time.Minute)
	defer cleanupBybit.Stop()
	cleanupBingx := bingxClients.StartCleanup(time.Minute)
	defer cleanupBingx.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bybit: public market data
	bybitClient, err := bybitClients.GetOrCreate(
		os.Getenv("BYBIT_API_KEY"), os.Getenv("BYBIT_API_SECRET"),
		false, false,
	)
	if err != nil {
		logger.Error("failed to create bybit client", logging.Error(err))
		os.Exit(1)
	}

	resp, err := bybitClient.GetServerTime(ctx)
	if err != nil {
		logger.Error("failed to get bybit server time", logging.Error(err))
		os.Exit(1)
	}
	var serverTime bybit.ServerTimeResult
	if err := resp.DecodeResult(&serverTime); err != nil {
		logger.Error("failed to decode server time", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("bybit server time", logging.String("timeSecond", serverTime.TimeSecond))

	klines, err := bybitClient.GetKline(ctx, bybit.KlineParams{
		Category: bybit.CategoryLinear,
		Symbol:   "BTCUSDT",
		Interval: "1",
		Limit:    10,
	})
	if err != nil {
		logger.Error("failed to get bybit klines", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("bybit klines fetched", logging.Int64("retCode", klines.RetCode))

	// BingX: public market data
	bingxClient, err := bingxClients.GetOrCreate(
		os.Getenv("BINGX_API_KEY"), os.Getenv("BINGX_API_SECRET"),
		false,
	)
	if err != nil {
		logger.Error("failed to create bingx client", logging.Error(err))
		os.Exit(1)
	}

	contracts, err := bingxClient.GetSwapContracts(ctx, "BTC-USDT")
	if err != nil {
		logger.Error("failed to get bingx contracts", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("bingx contracts fetched", logging.Int64("code", contracts.Code))

	// Bybit: real-time candle stream
	stream := bybit.NewStream(bybit.StreamOptions{
		Channel: bybit.StreamChannelLinear,
		Logger:  logger,
	})
	if err := stream.Connect(ctx); err != nil {
		logger.Error("failed to connect stream", logging.Error(err))
		os.Exit(1)
	}
	defer stream.Close()

	err = stream.SubscribeKline("BTCUSDT", "1", func(k bybit.StreamKline) {
		logger.Info("candle update",
			logging.String("start", time.UnixMilli(k.Start).Format(time.RFC3339)),
			logging.String("close", k.Close),
			logging.Bool("confirmed", k.Confirm),
		)
	})
	if err != nil {
		logger.Error("failed to subscribe", logging.Error(err))
		os.Exit(1)
	}

	// Run until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")
}
