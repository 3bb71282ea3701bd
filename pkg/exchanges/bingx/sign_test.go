package bingx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignKnownVectors(t *testing.T) {
	const secret = "test-secret"

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "symbol query",
			payload: "recvWindow=5000&symbol=BTC-USDT&timestamp=1700000000000",
			want:    "61c3e9b4b7efd1abca937bec7654a3230c7c30fe2773f9f21a3a3e5ffb222b9e",
		},
		{
			name:    "recvWindow only",
			payload: "recvWindow=5000&timestamp=1700000000000",
			want:    "e80444d3300edcb80b05d266439eb51c0f9551b00a09836c26b05dea9af0eba3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sign(secret, tt.payload))
		})
	}
}

func TestBuildSignaturePayload(t *testing.T) {
	const timestamp = int64(1700000000000)

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "empty params",
			params: Params{},
			want:   "timestamp=1700000000000",
		},
		{
			name:   "timestamp sorts in with the keys",
			params: Params{"symbol": "BTC-USDT", "recvWindow": 5000},
			want:   "recvWindow=5000&symbol=BTC-USDT&timestamp=1700000000000",
		},
		{
			name:   "keys after timestamp keep sorted order",
			params: Params{"symbol": "BTC-USDT", "recvWindow": 5000, "type": "MARKET", "workingType": "MARK_PRICE"},
			want:   "recvWindow=5000&symbol=BTC-USDT&timestamp=1700000000000&type=MARKET&workingType=MARK_PRICE",
		},
		{
			name:   "existing timestamp param is kept",
			params: Params{"timestamp": int64(1600000000000)},
			want:   "timestamp=1600000000000",
		},
		{
			name:   "structured value stays plain",
			params: Params{"takeProfit": `{"type":"TAKE_PROFIT_MARKET"}`},
			want:   `takeProfit={"type":"TAKE_PROFIT_MARKET"}&timestamp=1700000000000`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSignaturePayload(tt.params, timestamp))
		})
	}
}

func TestBuildQueryPayloadPlainValues(t *testing.T) {
	payload, query := buildQueryPayload(Params{
		"symbol":     "BTC-USDT",
		"recvWindow": 5000,
	}, 1700000000000)

	// Without embedded structures the query equals the signed payload.
	assert.Equal(t, "recvWindow=5000&symbol=BTC-USDT&timestamp=1700000000000", payload)
	assert.Equal(t, payload, query)
}

func TestBuildQueryPayloadEncodesStructuredValues(t *testing.T) {
	payload, query := buildQueryPayload(Params{
		"symbol":     "BTC-USDT",
		"takeProfit": `{"type":"TAKE_PROFIT_MARKET","stopPrice":31000}`,
	}, 1700000000000)

	// The signature is computed over the plain rendering.
	assert.Equal(t,
		`symbol=BTC-USDT&takeProfit={"type":"TAKE_PROFIT_MARKET","stopPrice":31000}&timestamp=1700000000000`,
		payload,
	)
	// The URL percent-encodes every value once any value is structured.
	assert.Equal(t,
		"symbol=BTC-USDT&takeProfit=%7B%22type%22%3A%22TAKE_PROFIT_MARKET%22%2C%22stopPrice%22%3A31000%7D&timestamp=1700000000000",
		query,
	)
}

func TestParamStringRendering(t *testing.T) {
	assert.Equal(t, "", paramString(nil))
	assert.Equal(t, "BTC-USDT", paramString("BTC-USDT"))
	assert.Equal(t, "true", paramString(true))
	assert.Equal(t, "5000", paramString(5000))
	assert.Equal(t, "1700000000000", paramString(int64(1700000000000)))
	assert.Equal(t, "0.5", paramString(0.5))
	assert.Equal(t, `[1,2,3]`, paramString([]int{1, 2, 3}))
}
