package bybit

import (
	"time"

	"github.com/veiloq/trading-sdk/pkg/cache"
	"github.com/veiloq/trading-sdk/pkg/session"
)

// CredentialKey uniquely identifies a client configuration. Two keys with the
// same fields compare equal regardless of call-site argument order, because
// the key is only ever built through newCredentialKey.
type CredentialKey struct {
	APIKey    string
	APISecret string
	Demo      bool
	Testnet   bool
}

// newCredentialKey is the single place keys are constructed, keeping Get and
// Add call sites consistent.
func newCredentialKey(apiKey, apiSecret string, testnet, demo bool) CredentialKey {
	return CredentialKey{
		APIKey:    apiKey,
		APISecret: apiSecret,
		Demo:      demo,
		Testnet:   testnet,
	}
}

// ClientCache deduplicates Bybit client construction by credential tuple.
// Entries expire after the configured lifetime (default 600s) and are removed
// by the background cleanup task, not on read.
type ClientCache struct {
	cache    *cache.Cache[CredentialKey, Client]
	sessions *session.Manager
}

// NewClientCache creates an empty client cache. The session manager may be
// nil; clients built on a miss then use private connection pools.
func NewClientCache(sessions *session.Manager, opts ...cache.Option) *ClientCache {
	return &ClientCache{
		cache:    cache.New[CredentialKey, Client]("bybit", opts...),
		sessions: sessions,
	}
}

// GetOrCreate returns the cached client for the credential tuple, building
// and caching a new one on a miss. Construction errors propagate unchanged
// and leave no cache entry.
func (cc *ClientCache) GetOrCreate(apiKey, apiSecret string, testnet, demo bool) (*Client, error) {
	key := newCredentialKey(apiKey, apiSecret, testnet, demo)
	return cc.cache.GetOrCreate(key, func() (*Client, error) {
		return NewClient(&Options{
			APIKey:    apiKey,
			APISecret: apiSecret,
			Testnet:   testnet,
			Demo:      demo,
			Session:   cc.sessions,
		})
	})
}

// Get returns the cached client for the credential tuple, if present and not
// expired.
func (cc *ClientCache) Get(apiKey, apiSecret string, testnet, demo bool) (*Client, bool) {
	return cc.cache.Get(newCredentialKey(apiKey, apiSecret, testnet, demo))
}

// Add caches a client under the credential tuple, overwriting any existing
// entry.
func (cc *ClientCache) Add(client *Client, apiKey, apiSecret string, testnet, demo bool) {
	cc.cache.Add(newCredentialKey(apiKey, apiSecret, testnet, demo), client)
}

// Configure overwrites the lifetime applied to subsequent inserts.
func (cc *ClientCache) Configure(lifetime time.Duration) {
	cc.cache.Configure(lifetime)
}

// CleanupExpired removes expired entries and returns the number removed.
func (cc *ClientCache) CleanupExpired() int {
	return cc.cache.CleanupExpired()
}

// Size returns the number of entries, expired ones included.
func (cc *ClientCache) Size() int {
	return cc.cache.Size()
}

// Clear removes all entries regardless of expiry.
func (cc *ClientCache) Clear() {
	cc.cache.Clear()
}

// StartCleanup spawns the periodic cleanup task. Stop it at shutdown.
func (cc *ClientCache) StartCleanup(interval time.Duration) *cache.CleanupTask {
	return cc.cache.StartCleanup(interval)
}
