package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"
	"go.uber.org/zap"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/stackitem"
)

// maxResponseSize caps a single response body.
const maxResponseSize = 64 << 20

// Client calls a Neo (or Fairy) JSON-RPC endpoint over HTTP. It keeps no
// per-call state: results are returned, never stored on the client.
type Client struct {
	http     *http.Client
	logger   *zap.Logger
	decoder  *stackitem.Decoder
	endpoint string
	timeout  time.Duration
	pageSize int
	maxPages int
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds each remote call, including every iterator page.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPageSize sets how many entries each traverseiterator call asks for.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxPages bounds how many pages one iterator may take.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		c.maxPages = n
	}
}

// New creates a client for endpoint, e.g. http://localhost:16868.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     http.DefaultClient,
		logger:   Logger(),
		pageSize: stackitem.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.decoder = stackitem.NewDecoder(c,
		stackitem.WithPageSize(c.pageSize),
		stackitem.WithMaxPages(c.maxPages),
		stackitem.WithLogger(c.logger),
	)
	return c
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Decoder returns the decoder bound to this client's iterator traversal.
func (c *Client) Decoder() *stackitem.Decoder {
	return c.decoder
}

// Call performs one JSON-RPC request and unmarshals its result into result,
// which may be nil.
func (c *Client) Call(ctx context.Context, method string, params []any, result any) error {
	if params == nil {
		params = []any{}
	}

	req := &jsonrpc2.Request{
		Method: method,
		ID:     jsonrpc2.ID{Str: uuid.NewString(), IsString: true},
	}
	if err := req.SetParams(params); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "marshal "+method+" params")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "marshal "+method+" request")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Transport(method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Transport(method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Transport(method, err)
	}

	c.logger.Debug("rpc call",
		zap.String("method", method),
		zap.String("id", req.ID.Str),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	var rpcResp jsonrpc2.Response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return errors.Transport(method, fmt.Errorf("http status %d: %w", resp.StatusCode, err))
	}

	if rpcResp.Error != nil {
		rpcErr := &errors.RPCError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
		if rpcResp.Error.Data != nil {
			rpcErr.Data = *rpcResp.Error.Data
		}
		c.logger.Warn("rpc error",
			zap.String("method", method),
			zap.Int64("code", rpcErr.Code),
			zap.String("message", rpcErr.Message))
		return errors.RPC(method, rpcErr)
	}

	if result == nil || rpcResp.Result == nil {
		return nil
	}
	if err := json.Unmarshal(*rpcResp.Result, result); err != nil {
		return errors.New(errors.PhaseDecode, errors.KindMalformedWireValue).
			Detail("decode %s result", method).
			Cause(err).
			Build()
	}
	return nil
}
