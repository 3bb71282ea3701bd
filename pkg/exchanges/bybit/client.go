// Package bybit implements a typed REST client for the Bybit V5 API, a
// TTL-keyed cache of client instances, and public WebSocket market-data
// streams.
package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veiloq/trading-sdk/pkg/common"
	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
	"github.com/veiloq/trading-sdk/pkg/logging"
	"github.com/veiloq/trading-sdk/pkg/ratelimit"
	"github.com/veiloq/trading-sdk/pkg/session"
)

const defaultRecvWindow = 5000

// Options configures a Bybit client.
type Options struct {
	// APIKey and APISecret authenticate private endpoints. Public market
	// data works without them.
	APIKey    string
	APISecret string

	// Testnet selects the api-testnet subdomain; Demo selects the demo
	// trading subdomains. The two flags combine independently.
	Testnet bool
	Demo    bool

	// RecvWindow is the request validity window in milliseconds (default 5000)
	RecvWindow int

	// ReferralID, when set, is sent as the Referer header on every request
	ReferralID string

	// BaseURL overrides the derived endpoint. Used in tests.
	BaseURL string

	// Session, when initialized, supplies the shared pooled HTTP client.
	// A private client is built otherwise.
	Session *session.Manager

	// RateLimit bounds outgoing request rate (default 10/s)
	RateLimit ratelimit.Rate

	Logger logging.Logger
}

// Params is the parameter map passed to endpoint methods' request plumbing.
type Params map[string]interface{}

// Response is the Bybit V5 response envelope.
type Response struct {
	RetCode    int64           `json:"retCode"`
	RetMsg     string          `json:"retMsg"`
	Result     json.RawMessage `json:"result"`
	RetExtInfo json.RawMessage `json:"retExtInfo"`
	Time       int64           `json:"time"`
}

// DecodeResult unmarshals the envelope's result payload into v.
func (r *Response) DecodeResult(v interface{}) error {
	if len(r.Result) == 0 {
		return fmt.Errorf("empty result payload")
	}
	return json.Unmarshal(r.Result, v)
}

// Client is a Bybit V5 REST client. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	recvWindow int
	referralID string

	httpc         common.HTTPClient
	sharedSession bool

	logger logging.Logger
	now    func() time.Time
}

// NewClient creates a Bybit client from the given options. When the options'
// session manager is initialized its shared connection pool is used;
// otherwise the client owns a private pool.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	if (opts.APIKey == "") != (opts.APISecret == "") {
		return nil, fmt.Errorf("%w: API key and secret must be set together", interfaces.ErrInvalidCredentials)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}

	recvWindow := opts.RecvWindow
	if recvWindow <= 0 {
		recvWindow = defaultRecvWindow
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = endpointURL(opts.Demo, opts.Testnet)
	}

	cfg := common.DefaultConfig()
	cfg.Logger = logger
	if opts.RateLimit.Limit > 0 {
		cfg.RateLimit = opts.RateLimit
	}

	shared := false
	if opts.Session != nil && opts.Session.IsInitialized() {
		cfg.HTTPClient = opts.Session.Client()
		shared = true
	}

	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        opts.APIKey,
		apiSecret:     opts.APISecret,
		recvWindow:    recvWindow,
		referralID:    opts.ReferralID,
		httpc:         common.NewHTTPClient(cfg),
		sharedSession: shared,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// endpointURL derives the REST base URL from the demo/testnet flags.
func endpointURL(demo, testnet bool) string {
	var sub string
	switch {
	case demo && testnet:
		sub = "api-demo-testnet"
	case demo:
		sub = "api-demo"
	case testnet:
		sub = "api-testnet"
	default:
		sub = "api"
	}
	return fmt.Sprintf("https://%s.bybit.com", sub)
}

// UsesSharedSession reports whether this client runs on the shared
// session pool.
func (c *Client) UsesSharedSession() bool {
	return c.sharedSession
}

// SetRecvWindow overrides the request validity window in milliseconds.
func (c *Client) SetRecvWindow(recvWindow int) {
	c.recvWindow = recvWindow
}

func (c *Client) get(ctx context.Context, endpoint string, params Params, auth bool) (*Response, error) {
	return c.request(ctx, http.MethodGet, endpoint, params, auth)
}

func (c *Client) post(ctx context.Context, endpoint string, params Params, auth bool) (*Response, error) {
	return c.request(ctx, http.MethodPost, endpoint, params, auth)
}

// request builds, signs and executes one API call and decodes its envelope.
func (c *Client) request(ctx context.Context, method, endpoint string, params Params, auth bool) (*Response, error) {
	timestamp := c.now().UnixMilli()
	payload := buildPayload(method, params)

	url := c.baseURL + endpoint
	var body io.Reader
	if method == http.MethodGet {
		if payload != "" {
			url += "?" + payload
		}
	} else {
		// The signed payload doubles as the request body, so the signature
		// always covers the exact bytes sent.
		body = strings.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if auth {
		if c.apiKey == "" || c.apiSecret == "" {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrAuthenticationRequired, endpoint)
		}
		signature := c.sign(payload, timestamp)
		req.Header.Set("X-BAPI-API-KEY", c.apiKey)
		req.Header.Set("X-BAPI-SIGN", signature)
		req.Header.Set("X-BAPI-SIGN-TYPE", "2")
		req.Header.Set("X-BAPI-TIMESTAMP", fmt.Sprintf("%d", timestamp))
		req.Header.Set("X-BAPI-RECV-WINDOW", fmt.Sprintf("%d", c.recvWindow))
	}
	if c.referralID != "" {
		req.Header.Set("Referer", c.referralID)
	}

	c.logger.Debug("sending request",
		logging.String("method", method),
		logging.String("endpoint", endpoint),
		logging.Any("headers", maskHeaders(req.Header)),
	)

	resp, err := c.httpc.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Error("http error",
			logging.String("method", method),
			logging.String("endpoint", endpoint),
			logging.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d on %s", interfaces.ErrExchangeUnavailable, resp.StatusCode, endpoint)
	}

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if envelope.RetCode != 0 {
		c.logger.Error("exchange error",
			logging.String("endpoint", endpoint),
			logging.Int64("ret_code", envelope.RetCode),
			logging.String("ret_msg", envelope.RetMsg),
		)
		return nil, interfaces.NewAPIError(envelope.RetCode, envelope.RetMsg, endpoint)
	}

	return &envelope, nil
}

// maskHeaders truncates credential headers for logging.
func maskHeaders(headers http.Header) map[string]string {
	masked := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch strings.ToLower(key) {
		case "x-bapi-api-key", "x-bapi-sign":
			if len(value) > 6 {
				value = value[:6] + "..."
			} else {
				value += "..."
			}
		}
		masked[key] = value
	}
	return masked
}

// mergeStructParams flattens the non-nil fields of a params struct into dst
// using its JSON encoding.
func mergeStructParams(dst Params, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling params: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("error flattening params: %w", err)
	}
	for key, value := range fields {
		if value == nil {
			continue
		}
		dst[key] = value
	}
	return nil
}
