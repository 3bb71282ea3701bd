// Package bingx implements a typed REST client for the BingX API (spot, swap
// and account endpoints) and a TTL-keyed cache of client instances.
package bingx

import (
	"bytes"
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

const (
	mainnetURL = "https://open-api.bingx.com"
	demoURL    = "https://open-api-vst.bingx.com"

	defaultRecvWindow = 5000
)

// Options configures a BingX client.
type Options struct {
	// APIKey and APISecret authenticate private endpoints
	APIKey    string
	APISecret string

	// Demo routes requests to the VST (virtual trading) edge
	Demo bool

	// RecvWindow is the request validity window in milliseconds (default 5000)
	RecvWindow int

	// BaseURL overrides the derived endpoint. Used in tests.
	BaseURL string

	// Session, when initialized, supplies the shared pooled HTTP client
	Session *session.Manager

	// RateLimit bounds outgoing request rate (default 10/s)
	RateLimit ratelimit.Rate

	Logger logging.Logger
}

// Params is the parameter map passed to endpoint methods' request plumbing.
type Params map[string]interface{}

// Response is the BingX response envelope.
type Response struct {
	Code     int64           `json:"code"`
	Msg      string          `json:"msg"`
	Data     json.RawMessage `json:"data"`
	DebugMsg string          `json:"debugMsg,omitempty"`
}

// DecodeData unmarshals the envelope's data payload into v.
func (r *Response) DecodeData(v interface{}) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("empty data payload")
	}
	return json.Unmarshal(r.Data, v)
}

// Client is a BingX REST client. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	recvWindow int

	httpc         common.HTTPClient
	sharedSession bool

	logger logging.Logger
	now    func() time.Time
}

// NewClient creates a BingX client from the given options. When the options'
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
		baseURL = mainnetURL
		if opts.Demo {
			baseURL = demoURL
		}
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
		httpc:         common.NewHTTPClient(cfg),
		sharedSession: shared,
		logger:        logger,
		now:           time.Now,
	}, nil
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

func (c *Client) delete(ctx context.Context, endpoint string, params Params, auth bool) (*Response, error) {
	return c.request(ctx, http.MethodDelete, endpoint, params, auth)
}

// request builds, signs and executes one API call and decodes its envelope.
// GET carries the signature as a URL parameter; every other method embeds
// signature and timestamp in the JSON body.
func (c *Client) request(ctx context.Context, method, endpoint string, params Params, auth bool) (*Response, error) {
	if params == nil {
		params = Params{}
	}
	// recvWindow always rides along, signed with the rest
	params["recvWindow"] = c.recvWindow

	timestamp := c.now().UnixMilli()

	if auth && (c.apiKey == "" || c.apiSecret == "") {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrAuthenticationRequired, endpoint)
	}

	url := c.baseURL + endpoint
	var body io.Reader

	if method == http.MethodGet {
		payload, query := buildQueryPayload(params, timestamp)
		url += "?" + query
		if auth {
			url += "&signature=" + sign(c.apiSecret, payload)
		}
	} else {
		payload := buildSignaturePayload(params, timestamp)
		bodyParams := make(map[string]interface{}, len(params)+2)
		for key, value := range params {
			bodyParams[key] = value
		}
		bodyParams["timestamp"] = timestamp
		if auth {
			bodyParams["signature"] = sign(c.apiSecret, payload)
		}
		encoded, err := json.Marshal(bodyParams)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth {
		req.Header.Set("X-BX-APIKEY", c.apiKey)
	}

	c.logger.Debug("sending request",
		logging.String("method", method),
		logging.String("url", maskSignature(url)),
	)

	resp, err := c.httpc.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Error("http error",
			logging.String("method", method),
			logging.String("url", maskSignature(url)),
			logging.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d on %s", interfaces.ErrExchangeUnavailable, resp.StatusCode, endpoint)
	}

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if envelope.Code != 0 {
		c.logger.Error("exchange error",
			logging.String("endpoint", endpoint),
			logging.Int64("code", envelope.Code),
			logging.String("msg", envelope.Msg),
		)
		return nil, interfaces.NewAPIError(envelope.Code, envelope.Msg, endpoint)
	}

	return &envelope, nil
}

// maskSignature replaces the signature query value with *** for logging.
func maskSignature(url string) string {
	const marker = "signature="
	i := strings.Index(url, marker)
	if i < 0 {
		return url
	}
	start := i + len(marker)
	if amp := strings.IndexByte(url[start:], '&'); amp >= 0 {
		return url[:start] + "***" + url[start+amp:]
	}
	return url[:start] + "***"
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
