package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TobiSchelling/ethaum/internal/metrics"
)

const (
	// DefaultUserHeader carries the identity provider's user id.
	DefaultUserHeader = "X-Clerk-User-Id"

	// DefaultTimeout bounds each request unless WithTimeout says otherwise.
	DefaultTimeout = 15 * time.Second

	apiPrefix = "/api/v1"
)

// Client is a typed client for the marketplace API. A Client is safe for
// concurrent use; As returns a copy bound to a caller identity.
type Client struct {
	baseURL    string
	http       *http.Client
	log        *zap.Logger
	userHeader string
	userID     string
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// never mutated.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the client-wide request timeout regardless of option
// order. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithUserHeader(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.userHeader = name
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       http.DefaultClient,
		log:        zap.NewNop(),
		userHeader: DefaultUserHeader,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := *c.http
	hc.Timeout = c.timeout
	c.http = &hc
	return c
}

// As returns a copy of c that identifies requests as userID. An empty id
// returns an anonymous client.
func (c *Client) As(userID string) *Client {
	cp := *c
	cp.userID = userID
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

// UserID is the identity this client sends, or "" if anonymous.
func (c *Client) UserID() string { return c.userID }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do sends one JSON request and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	body, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.log.Warn("api.decode_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%w: %s %s: %w", ErrDecode, method, path, err)
	}
	return nil
}

// send performs the round trip and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(c.userHeader, c.userID)
	}

	endpoint := endpointLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		metrics.ObserveAPI(endpoint, method, 0, elapsed)
		c.log.Debug("api.transport_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.ObserveAPI(endpoint, method, resp.StatusCode, elapsed)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %w", ErrTransport, method, path, err)
	}

	c.log.Debug("api.request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Bool("identified", c.userID != ""),
		zap.Duration("elapsed", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(method, path, resp.StatusCode, data)
	}
	return data, nil
}

// endpointLabel collapses ids out of a path so metric cardinality stays
// bounded: /products/12 -> /products/:id.
func endpointLabel(path string) string {
	path, _, _ = strings.Cut(path, "?")
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && isID(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// isID matches numeric ids, backend user UUIDs and identity-provider ids.
func isID(s string) bool {
	if strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return true
	}
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	return strings.HasPrefix(s, "user_") && len(s) > len("user_")
}
