package bingx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
	"github.com/veiloq/trading-sdk/pkg/logging"
	"github.com/veiloq/trading-sdk/pkg/session"
)

func newTestClient(t *testing.T, server *httptest.Server, opts *Options) *Client {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	opts.BaseURL = server.URL
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	c, err := NewClient(opts)
	require.NoError(t, err)
	return c
}

func TestNewClientCredentialPairing(t *testing.T) {
	_, err := NewClient(&Options{APIKey: "key-only"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidCredentials)

	_, err = NewClient(&Options{APISecret: "secret-only"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidCredentials)

	c, err := NewClient(nil)
	require.NoError(t, err)
	assert.False(t, c.UsesSharedSession())
	assert.Equal(t, mainnetURL, c.baseURL)
}

func TestNewClientDemoURL(t *testing.T) {
	c, err := NewClient(&Options{Demo: true, Logger: logging.NewNopLogger()})
	require.NoError(t, err)
	assert.Equal(t, demoURL, c.baseURL)
}

func TestRequestDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openApi/swap/v2/server/time", r.URL.Path)
		w.Write([]byte(`{"code":0,"msg":"","data":{"serverTime":1700000000123}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, nil)

	resp, err := c.GetServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Code)

	var data struct {
		ServerTime int64 `json:"serverTime"`
	}
	require.NoError(t, resp.DecodeData(&data))
	assert.Equal(t, int64(1700000000123), data.ServerTime)
}

func TestRequestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":100413,"msg":"Incorrect apiKey","data":{}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, &Options{APIKey: "k", APISecret: "s"})

	_, err := c.GetSwapBalance(context.Background())
	require.Error(t, err)

	var apiErr *interfaces.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int64(100413), apiErr.Code)
	assert.Equal(t, "Incorrect apiKey", apiErr.Message)
}

func TestRequestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server, nil)

	_, err := c.GetServerTime(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrExchangeUnavailable)
}

func TestRequestWithoutCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":{}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, nil)

	_, err := c.GetSwapBalance(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrAuthenticationRequired)
}

func TestGetCarriesSignatureInURL(t *testing.T) {
	var rawQuery string
	var apiKeyHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		apiKeyHeader = r.Header.Get("X-BX-APIKEY")
		w.Write([]byte(`{"code":0,"msg":"","data":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, &Options{APIKey: "test-key", APISecret: "test-secret"})
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }

	_, err := c.GetSwapPositions(context.Background(), "BTC-USDT")
	require.NoError(t, err)

	assert.Equal(t, "test-key", apiKeyHeader)
	// recvWindow and timestamp ride along and the signature covers them.
	assert.Equal(t,
		"recvWindow=5000&symbol=BTC-USDT&timestamp=1700000000000"+
			"&signature=61c3e9b4b7efd1abca937bec7654a3230c7c30fe2773f9f21a3a3e5ffb222b9e",
		rawQuery,
	)
}

func TestPublicGetOmitsSignature(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"code":0,"msg":"","data":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, nil)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }

	_, err := c.GetSwapContracts(context.Background(), "BTC-USDT")
	require.NoError(t, err)

	assert.Equal(t, "recvWindow=5000&symbol=BTC-USDT&timestamp=1700000000000", rawQuery)
	assert.NotContains(t, rawQuery, "signature")
}

func TestPostEmbedsTimestampAndSignature(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"code":0,"msg":"","data":{"order":{"orderId":1}}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, &Options{APIKey: "test-key", APISecret: "test-secret"})
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }

	qty := 0.001
	_, err := c.PlaceSwapOrder(context.Background(), PlaceSwapOrderParams{
		Symbol:   "BTC-USDT",
		Type:     SwapOrderTypeMarket,
		Side:     OrderSideBuy,
		Quantity: &qty,
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "BTC-USDT", decoded["symbol"])
	assert.Equal(t, "MARKET", decoded["type"])
	assert.Equal(t, "BUY", decoded["side"])
	assert.Equal(t, float64(1700000000000), decoded["timestamp"])
	// The signed string sorts timestamp in with the params, so "type" lands
	// after it.
	assert.Equal(t,
		sign("test-secret", "quantity=0.001&recvWindow=5000&side=BUY&symbol=BTC-USDT&timestamp=1700000000000&type=MARKET"),
		decoded["signature"],
	)
}

func TestDeleteEmbedsTimestampAndSignature(t *testing.T) {
	var body []byte
	var rawQuery, method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		rawQuery = r.URL.RawQuery
		method = r.Method
		w.Write([]byte(`{"code":0,"msg":"","data":{"success":[],"failed":[]}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, &Options{APIKey: "test-key", APISecret: "test-secret"})
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }

	_, err := c.CancelAllSwapOrders(context.Background(), "BTC-USDT", "")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, method)
	// DELETE rides the JSON-body path: nothing in the URL, signature and
	// timestamp in the body.
	assert.Empty(t, rawQuery)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "BTC-USDT", decoded["symbol"])
	assert.Equal(t, float64(1700000000000), decoded["timestamp"])
	assert.Equal(t,
		"61c3e9b4b7efd1abca937bec7654a3230c7c30fe2773f9f21a3a3e5ffb222b9e",
		decoded["signature"],
	)
}

func TestAccountEndpointPaths(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"code":0,"msg":"","data":{}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, &Options{APIKey: "k", APISecret: "s"})
	ctx := context.Background()

	_, err := c.GetAllAccountBalances(ctx, "swap")
	require.NoError(t, err)
	_, err = c.GetAPIPermissions(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/openApi/account/v1/allAccountBalance",
		"/openApi/v1/account/apiPermissions",
	}, paths)
}

func TestPlaceSwapOrderValidation(t *testing.T) {
	c, err := NewClient(&Options{Logger: logging.NewNopLogger()})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.PlaceSwapOrder(ctx, PlaceSwapOrderParams{
		Symbol: "BTCUSDT",
		Type:   SwapOrderTypeMarket,
		Side:   OrderSideBuy,
	})
	assert.ErrorIs(t, err, interfaces.ErrValidation)

	_, err = c.PlaceSwapOrder(ctx, PlaceSwapOrderParams{Symbol: "BTC-USDT"})
	assert.ErrorIs(t, err, interfaces.ErrValidation)

	_, err = c.CancelSwapOrders(ctx, "BTC-USDT", nil, nil)
	assert.ErrorIs(t, err, interfaces.ErrValidation)

	_, err = c.CancelSpotOrders(ctx, "BTC-USDT", nil, nil)
	assert.ErrorIs(t, err, interfaces.ErrValidation)
}

func TestTpSlMarshalsAsEmbeddedJSONString(t *testing.T) {
	tp := TpSl{
		Type:        SwapOrderTypeTakeProfitMarket,
		StopPrice:   31000,
		Price:       31000,
		WorkingType: TriggerPriceMark,
	}

	encoded, err := json.Marshal(tp)
	require.NoError(t, err)

	// The outer value is a JSON string containing the object.
	var inner string
	require.NoError(t, json.Unmarshal(encoded, &inner))
	assert.JSONEq(t,
		`{"type":"TAKE_PROFIT_MARKET","stopPrice":31000,"price":31000,"workingType":"MARK_PRICE"}`,
		inner,
	)
}

func TestMaskSignature(t *testing.T) {
	assert.Equal(t,
		"https://x/api?symbol=BTC-USDT&signature=***",
		maskSignature("https://x/api?symbol=BTC-USDT&signature=abc123"),
	)
	assert.Equal(t,
		"https://x/api?signature=***&symbol=BTC-USDT",
		maskSignature("https://x/api?signature=abc123&symbol=BTC-USDT"),
	)
	assert.Equal(t,
		"https://x/api?symbol=BTC-USDT",
		maskSignature("https://x/api?symbol=BTC-USDT"),
	)
}

func TestClientCacheKeyIgnoresNothingButDemo(t *testing.T) {
	cc := NewClientCache(nil)

	mainnet, err := cc.GetOrCreate("key", "secret", false)
	require.NoError(t, err)
	demo, err := cc.GetOrCreate("key", "secret", true)
	require.NoError(t, err)

	assert.NotSame(t, mainnet, demo)
	assert.Equal(t, 2, cc.Size())

	again, err := cc.GetOrCreate("key", "secret", false)
	require.NoError(t, err)
	assert.Same(t, mainnet, again)
}

func TestClientCacheClientsShareSession(t *testing.T) {
	sessions := session.NewManager(session.WithLogger(logging.NewNopLogger()))
	sessions.Setup(20)
	defer sessions.Close()

	cc := NewClientCache(sessions)

	client, err := cc.GetOrCreate("key", "secret", false)
	require.NoError(t, err)
	assert.True(t, client.UsesSharedSession())
}
