package bybit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigningClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(&Options{
		APIKey:    "test-key",
		APISecret: "test-secret",
	})
	require.NoError(t, err)
	return c
}

func TestSignKnownVectors(t *testing.T) {
	c := newSigningClient(t)
	const timestamp = int64(1700000000000)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "query payload",
			payload: "category=linear&symbol=BTCUSDT",
			want:    "9a7c8cfd6ba1a7c498aa4dd5a7f9cfbba01fcb6eebae734ffe0d775870a1a3fb",
		},
		{
			name:    "json payload",
			payload: `{"category":"linear","symbol":"BTCUSDT"}`,
			want:    "16378a8ca3caa3c068e2e74ef209dad5c036fec4047c7582ddcfcf13323a8275",
		},
		{
			name:    "empty json payload",
			payload: "{}",
			want:    "2a355c89d157d001223348e2fbb177f4de8f6e84474c1a6fd3c7eadb62ce3f07",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.sign(tt.payload, timestamp))
		})
	}
}

func TestBuildQueryPayload(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "empty",
			params: Params{},
			want:   "",
		},
		{
			name:   "keys sorted",
			params: Params{"symbol": "BTCUSDT", "category": "linear"},
			want:   "category=linear&symbol=BTCUSDT",
		},
		{
			name:   "nil and empty values skipped",
			params: Params{"symbol": "BTCUSDT", "cursor": nil, "baseCoin": ""},
			want:   "symbol=BTCUSDT",
		},
		{
			name:   "scalars rendered plainly",
			params: Params{"limit": 200, "start": int64(1700000000000), "leverage": 12.5, "reduceOnly": true},
			want:   "leverage=12.5&limit=200&reduceOnly=true&start=1700000000000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPayload(http.MethodGet, tt.params))
		})
	}
}

func TestBuildJSONPayload(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "empty renders braces",
			params: Params{},
			want:   "{}",
		},
		{
			name:   "keys sorted deterministically",
			params: Params{"symbol": "BTCUSDT", "category": "linear", "side": "Buy"},
			want:   `{"category":"linear","side":"Buy","symbol":"BTCUSDT"}`,
		},
		{
			name:   "nil and empty string values skipped",
			params: Params{"symbol": "BTCUSDT", "orderLinkId": "", "positionIdx": nil},
			want:   `{"symbol":"BTCUSDT"}`,
		},
		{
			name:   "typed values keep their json encoding",
			params: Params{"qty": "0.01", "positionIdx": 1, "reduceOnly": false},
			want:   `{"positionIdx":1,"qty":"0.01","reduceOnly":false}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPayload(http.MethodPost, tt.params))
		})
	}
}
