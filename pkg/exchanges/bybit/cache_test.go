package bybit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/trading-sdk/pkg/cache"
	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
	"github.com/veiloq/trading-sdk/pkg/logging"
	"github.com/veiloq/trading-sdk/pkg/session"
)

func TestClientCacheReusesClient(t *testing.T) {
	cc := NewClientCache(nil, cache.WithLogger(logging.NewNopLogger()))

	first, err := cc.GetOrCreate("key", "secret", false, false)
	require.NoError(t, err)
	second, err := cc.GetOrCreate("key", "secret", false, false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cc.Size())
}

func TestClientCacheKeyDiscriminatesFlags(t *testing.T) {
	cc := NewClientCache(nil, cache.WithLogger(logging.NewNopLogger()))

	mainnet, err := cc.GetOrCreate("key", "secret", false, false)
	require.NoError(t, err)
	testnet, err := cc.GetOrCreate("key", "secret", true, false)
	require.NoError(t, err)
	demo, err := cc.GetOrCreate("key", "secret", false, true)
	require.NoError(t, err)

	assert.NotSame(t, mainnet, testnet)
	assert.NotSame(t, mainnet, demo)
	assert.NotSame(t, testnet, demo)
	assert.Equal(t, 3, cc.Size())

	// Same flags resolve back to the cached instances.
	again, err := cc.GetOrCreate("key", "secret", true, false)
	require.NoError(t, err)
	assert.Same(t, testnet, again)
}

func TestClientCacheConstructionErrorLeavesNoEntry(t *testing.T) {
	cc := NewClientCache(nil, cache.WithLogger(logging.NewNopLogger()))

	_, err := cc.GetOrCreate("key-without-secret", "", false, false)
	require.ErrorIs(t, err, interfaces.ErrInvalidCredentials)
	assert.Equal(t, 0, cc.Size())
}

func TestClientCacheGetAndAdd(t *testing.T) {
	cc := NewClientCache(nil, cache.WithLogger(logging.NewNopLogger()))

	_, ok := cc.Get("key", "secret", false, false)
	assert.False(t, ok)

	client, err := NewClient(&Options{APIKey: "key", APISecret: "secret", Logger: logging.NewNopLogger()})
	require.NoError(t, err)
	cc.Add(client, "key", "secret", false, false)

	got, ok := cc.Get("key", "secret", false, false)
	require.True(t, ok)
	assert.Same(t, client, got)
}

func TestClientCacheExpiry(t *testing.T) {
	cc := NewClientCache(nil,
		cache.WithLifetime(time.Millisecond),
		cache.WithLogger(logging.NewNopLogger()),
	)

	_, err := cc.GetOrCreate("key", "secret", false, false)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, ok := cc.Get("key", "secret", false, false)
	assert.False(t, ok)

	removed := cc.CleanupExpired()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, cc.Size())
}

func TestClientCacheClientsShareSession(t *testing.T) {
	sessions := session.NewManager(session.WithLogger(logging.NewNopLogger()))
	sessions.Setup(20)
	defer sessions.Close()

	cc := NewClientCache(sessions, cache.WithLogger(logging.NewNopLogger()))

	client, err := cc.GetOrCreate("key", "secret", false, false)
	require.NoError(t, err)
	assert.True(t, client.UsesSharedSession())
}

func TestClientCacheClear(t *testing.T) {
	cc := NewClientCache(nil, cache.WithLogger(logging.NewNopLogger()))

	_, err := cc.GetOrCreate("a", "sa", false, false)
	require.NoError(t, err)
	_, err = cc.GetOrCreate("b", "sb", false, false)
	require.NoError(t, err)
	require.Equal(t, 2, cc.Size())

	cc.Clear()
	assert.Equal(t, 0, cc.Size())
}
