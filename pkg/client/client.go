// Package client implements the driver side of the external-dns webhook
// protocol: it builds requests against a provider's base URL and decodes
// success and failure responses into typed results.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
	"github.com/netguru/external-dns-webhook-sdk/pkg/errors"
	"github.com/netguru/external-dns-webhook-sdk/pkg/plan"
)

// MediaTypeFormatAndVersion is the content type of every JSON payload
// exchanged over the webhook protocol.
const MediaTypeFormatAndVersion = "application/external.dns.webhook+json;version=1"

// Client talks to a single webhook provider. It performs no retries; any
// retry policy belongs to the caller.
type Client struct {
	// domain is the URL prefix of the provider's endpoints. If healthz
	// lives at http://localhost:9998/external-dns/healthz, the domain is
	// http://localhost:9998/external-dns.
	domain     *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient substitutes the transport. Useful for custom timeouts or
// in-process round trippers in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client for the provider rooted at domain. A missing
// trailing slash is added so relative route joining never replaces the
// last segment of the prefix.
func New(domain string, options ...Option) (*Client, error) {
	if !strings.HasSuffix(domain, "/") {
		domain += "/"
	}
	parsed, err := url.Parse(domain)
	if err != nil {
		return nil, err
	}
	c := &Client{
		domain:     parsed,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Healthz checks provider liveness and returns its status text verbatim.
func (c *Client) Healthz(ctx context.Context) (string, error) {
	text, err := c.send(ctx, http.MethodGet, "healthz", nil, false)
	if err != nil {
		return "", err
	}
	return text, nil
}

// DomainFilter initializes the provider session and returns the domain
// filter the provider manages.
func (c *Client) DomainFilter(ctx context.Context) (endpoint.DomainFilter, error) {
	var filter endpoint.DomainFilter
	err := c.request(ctx, http.MethodGet, "", nil, &filter)
	return filter, err
}

// Records fetches the provider's current record set.
func (c *Client) Records(ctx context.Context) ([]*endpoint.Endpoint, error) {
	var records []*endpoint.Endpoint
	if err := c.request(ctx, http.MethodGet, "records", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ApplyChanges pushes an ordered change list to the provider.
func (c *Client) ApplyChanges(ctx context.Context, changes []plan.Change) error {
	return c.request(ctx, http.MethodPost, "records", plan.NewChanges(changes), nil)
}

// AdjustEndpoints asks the provider to canonicalize the desired endpoints.
func (c *Client) AdjustEndpoints(ctx context.Context, endpoints []*endpoint.Endpoint) ([]*endpoint.Endpoint, error) {
	var adjusted []*endpoint.Endpoint
	if err := c.request(ctx, http.MethodPost, "adjustendpoints", endpoints, &adjusted); err != nil {
		return nil, err
	}
	return adjusted, nil
}

// request performs one protocol exchange and decodes a 2xx body into out.
// A nil out skips decoding entirely.
func (c *Client) request(ctx context.Context, method, route string, body, out any) error {
	text, err := c.send(ctx, method, route, body, out != nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		c.logger.Error("failed to decode response body",
			zap.String("route", route),
			zap.String("body", text),
			zap.Error(err))
		return &errors.DecodeError{Raw: text, Err: err}
	}
	return nil
}

// send builds, sends and reads one request. The response body is
// validated as UTF-8 before anything else; a non-2xx status short-circuits
// into a RemoteError carrying the body verbatim.
func (c *Client) send(ctx context.Context, method, route string, body any, typed bool) (string, error) {
	var reader io.Reader
	var hasBody bool
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return "", &errors.EncodeError{Err: err}
		}
		// A unit payload serializes to the literal token "null"; such
		// requests go out with no body and no Content-Type at all.
		if !bytes.Equal(encoded, []byte("null")) {
			reader = bytes.NewReader(encoded)
			hasBody = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.domain.JoinPath(route).String(), reader)
	if err != nil {
		return "", &errors.TransportError{Err: err}
	}
	if hasBody {
		req.Header.Set("Content-Type", MediaTypeFormatAndVersion)
	}
	if typed {
		req.Header.Set("Accept", MediaTypeFormatAndVersion)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errors.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errors.TransportError{Err: err}
	}
	if !utf8.Valid(raw) {
		return "", errors.ErrInvalidPayload
	}
	text := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("provider returned non-success status",
			zap.String("route", route),
			zap.Int("status", resp.StatusCode),
			zap.String("body", text))
		return "", &errors.RemoteError{StatusCode: resp.StatusCode, Body: text}
	}
	return text, nil
}
