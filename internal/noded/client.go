// Package noded is the HTTP client for the upstream node daemon.
package noded

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/ratelimit"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

const (
	// DefaultTimeout bounds every upstream RPC.
	DefaultTimeout = 120 * time.Second

	maxResponseBytes = 64 << 20
)

type (
	// Metrics records metrics for upstream RPC calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Client talks to the upstream daemon's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter ratelimit.Limiter
	metrics Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the RPC timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit caps outgoing RPCs at rps requests per second.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		c.limiter = ratelimit.New(rps)
	}
}

// NewClient constructs a Client for the daemon at baseURL.
func NewClient(baseURL string, metrics Metrics, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if metrics == nil {
		return nil, fmt.Errorf("upstream metrics is required")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: ratelimit.NewUnlimited(),
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Info fetches the daemon's /info document.
func (c *Client) Info(ctx context.Context) (info model.Info, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("info", err, started)
	}()
	return c.getRaw(ctx, "/info")
}

// Peers fetches the daemon's /peers document.
func (c *Client) Peers(ctx context.Context) (peers model.Peers, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("peers", err, started)
	}()
	return c.getRaw(ctx, "/peers")
}

// RawTransactionPool fetches the raw blobs of the daemon's transaction pool.
func (c *Client) RawTransactionPool(ctx context.Context) (blobs []string, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("raw_transaction_pool", err, started)
	}()

	var out struct {
		Transactions []string `json:"transactions"`
	}
	if err = c.get(ctx, "/rawtransactionpool", &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// RawBlock fetches the raw block at the given height or hash.
func (c *Client) RawBlock(ctx context.Context, term string) (raw model.RawBlock, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("raw_block", err, started)
	}()

	err = c.get(ctx, "/rawblock/"+term, &raw)
	return raw, err
}

// Block fetches the decoded block header at the given height or hash.
func (c *Client) Block(ctx context.Context, term string) (header model.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("block", err, started)
	}()

	err = c.get(ctx, "/block/"+term, &header)
	return header, err
}

// BlockHeaders fetches up to 30 headers descending from the given height.
func (c *Client) BlockHeaders(ctx context.Context, height uint64) (headers []model.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("block_headers", err, started)
	}()

	err = c.get(ctx, "/block/headers/"+strconv.FormatUint(height, 10), &headers)
	return headers, err
}

// Indexes fetches the per-transaction global output indexes for the height
// range [start, end].
func (c *Client) Indexes(ctx context.Context, start, end uint64) (indexes []model.TransactionIndexes, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("indexes", err, started)
	}()

	req := struct {
		Start uint64 `json:"startHeight"`
		End   uint64 `json:"endHeight"`
	}{Start: start, End: end}

	var out struct {
		Indexes []model.TransactionIndexes `json:"indexes"`
	}
	if err = c.post(ctx, "/indexes", req, &out); err != nil {
		return nil, err
	}
	return out.Indexes, nil
}

// RawSync negotiates a resume point with the daemon and pulls raw blocks.
func (c *Client) RawSync(ctx context.Context, req model.RawSyncRequest) (resp model.RawSyncResponse, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("raw_sync", err, started)
	}()

	err = c.post(ctx, "/rawsync", req, &resp)
	return resp, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	c.limiter.Take()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return data, nil
}
