// Package client talks to the remote nostalgic API. Every call is a GET with a
// query string and answers {success, data, error}.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nostalgic/widgets/internal/common"
	"github.com/nostalgic/widgets/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBaseURL is the public API endpoint
const DefaultBaseURL = "https://nostalgic.llll-ll.com/api"

const maxResponseBytes = 1 << 20

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_api_requests_total",
			Help: "Total number of remote API calls made by widgets",
		},
		[]string{"service", "action", "result"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "widget_api_request_duration_seconds",
			Help:    "Remote API call duration in seconds",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service", "action"},
	)
)

// Client is a remote API client bound to one base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent used when no caller is attached to the context
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "nostalgic-widgets",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Caller identifies the visitor on whose behalf a call is made. The remote API
// derives the identity stamp from these signals, so they must be forwarded.
type Caller struct {
	IP        string
	UserAgent string
}

type callerKey struct{}

// WithCaller attaches the visitor to ctx
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the visitor attached to ctx
func CallerFrom(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}

// envelope is the common response shape
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// URL builds the request URL for a service action
func (c *Client) URL(kind domain.Kind, action string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("action", action)
	return fmt.Sprintf("%s/%s?%s", c.baseURL, kind, q.Encode())
}

// call performs one GET and decodes data into out (when out is non-nil)
func (c *Client) call(ctx context.Context, kind domain.Kind, action string, params url.Values, out interface{}) error {
	op := fmt.Sprintf("%s.%s", kind, action)
	start := time.Now()
	result := "ok"
	defer func() {
		apiRequestsTotal.WithLabelValues(string(kind), action, result).Inc()
		apiRequestDuration.WithLabelValues(string(kind), action).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(kind, action, params), nil)
	if err != nil {
		result = "transport_error"
		return &common.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if caller, ok := CallerFrom(ctx); ok {
		if caller.IP != "" {
			req.Header.Set("X-Forwarded-For", caller.IP)
			req.Header.Set("X-Real-IP", caller.IP)
		}
		if caller.UserAgent != "" {
			req.Header.Set("User-Agent", caller.UserAgent)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result = "transport_error"
		return &common.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		result = "transport_error"
		return &common.TransportError{Op: op, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		result = "transport_error"
		return &common.TransportError{Op: op, Err: fmt.Errorf("status %d: decode response: %w", resp.StatusCode, err)}
	}
	if !env.Success {
		result = "logical_error"
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &common.LogicalError{Op: op, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			result = "transport_error"
			return &common.TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
