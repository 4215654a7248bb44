// Package client is an authenticated client for Mastodon-compatible services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jmerrifield20/fedikit/pkg/entities"
)

const apiPrefix = "/api/v1/"

// Client dispatches API calls against one service instance with one access
// token. It is safe for concurrent use; the credential bundle is never
// modified after construction.
type Client struct {
	kernel
	data Data
}

// Option is a functional option for configuring a Client or Registration.
type Option func(*kernel) error

// WithHTTPClient sets the http.Client used for every request. Timeouts,
// proxies and connection pooling are properties of this client.
func WithHTTPClient(hc *http.Client) Option {
	return func(k *kernel) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		k.httpClient = hc
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(k *kernel) error {
		k.userAgent = ua
		return nil
	}
}

// New creates a Client from a persisted credential bundle.
//
//	c, err := client.New(client.Data{
//	    Base:  "https://mastodon.social",
//	    Token: os.Getenv("FEDI_TOKEN"),
//	})
func New(data Data, opts ...Option) (*Client, error) {
	k, err := newKernel(data.Base, opts)
	if err != nil {
		return nil, err
	}
	data.Base = k.base
	return &Client{kernel: *k, data: data}, nil
}

// MustNew is like New but panics on error. Useful in tests and program init.
func MustNew(data Data, opts ...Option) *Client {
	c, err := New(data, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Data returns a copy of the client's credential bundle.
func (c *Client) Data() Data {
	return c.data
}

// ── kernel ───────────────────────────────────────────────────────────────────

// kernel is the single code path every request goes through. It is shared by
// Client and Registration.
type kernel struct {
	base       string
	httpClient *http.Client
	userAgent  string
}

func newKernel(base string, opts []Option) (*kernel, error) {
	normalized, err := normalizeBase(base)
	if err != nil {
		return nil, err
	}
	// No Timeout: the kernel imposes none, the transport's defaults apply.
	k := &kernel{base: normalized, httpClient: &http.Client{}}
	for _, o := range opts {
		if err := o(k); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// call describes one request relative to the instance base URL.
type call struct {
	method      string
	path        string
	query       query
	body        io.Reader
	contentType string
	header      http.Header
}

// roundTrip executes c and decodes the response body as T.
//
// Decoding is two-step: the body is first decoded as T and checked for T's
// required fields. Only if that fails is it decoded as an APIError, which
// yields a KindAPI error. A body that is neither yields KindSerde carrying
// the first failure. The HTTP status code is not consulted, since the
// service sends error envelopes with 200 as well as 4xx/5xx.
func roundTrip[T any](ctx context.Context, k *kernel, token string, c call) (T, error) {
	var zero T

	target := k.base + c.path
	if encoded := c.query.encode(); encoded != "" {
		target += "?" + encoded
	}
	if _, err := url.Parse(target); err != nil {
		return zero, wrapErr(KindURLParse, fmt.Errorf("build URL for %s: %w", c.path, err))
	}

	req, err := http.NewRequestWithContext(ctx, c.method, target, c.body)
	if err != nil {
		return zero, wrapErr(KindURLParse, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}
	if k.userAgent != "" {
		req.Header.Set("User-Agent", k.userAgent)
	}
	for name, values := range c.header {
		req.Header[name] = values
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return zero, wrapErr(KindHTTP, fmt.Errorf("%s %s: %w", c.method, c.path, err))
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, wrapErr(KindIO, fmt.Errorf("read response: %w", err))
	}

	return decode[T](body)
}

func decode[T any](body []byte) (T, error) {
	var v T
	first := json.Unmarshal(body, &v)
	if first == nil {
		first = entities.Validate(&v)
	}
	if first == nil {
		return v, nil
	}

	var apiErr APIError
	if json.Unmarshal(body, &apiErr) == nil && entities.Validate(&apiErr) == nil {
		var zero T
		return zero, &Error{Kind: KindAPI, API: &apiErr}
	}

	var zero T
	return zero, wrapErr(KindSerde, fmt.Errorf("decode %T: %w", v, first))
}

// ── request helpers ──────────────────────────────────────────────────────────

// send runs an authenticated call, failing fast when there is no token.
func send[T any](ctx context.Context, c *Client, cl call) (T, error) {
	if c.data.Token == "" {
		var zero T
		return zero, ErrAccessTokenRequired
	}
	return roundTrip[T](ctx, &c.kernel, c.data.Token, cl)
}

func apiPath(format string, args ...any) string {
	return apiPrefix + fmt.Sprintf(format, args...)
}

func getCall(path string, q query) call {
	return call{method: http.MethodGet, path: path, query: q}
}

func postCall(path string) call {
	return call{method: http.MethodPost, path: path}
}

func deleteCall(path string) call {
	return call{method: http.MethodDelete, path: path}
}

func formCall(path string, form url.Values) call {
	return call{
		method:      http.MethodPost,
		path:        path,
		body:        bytes.NewBufferString(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
}

func jsonCall(path string, v any) (call, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return call{}, wrapErr(KindSerde, fmt.Errorf("marshal request body: %w", err))
	}
	return call{
		method:      http.MethodPost,
		path:        path,
		body:        bytes.NewReader(b),
		contentType: "application/json",
	}, nil
}
