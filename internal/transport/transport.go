// Package transport provides the http.RoundTripper the fedi CLI hands to the
// client. It adds request logging, a token-bucket rate limit and Prometheus
// metrics around a base transport.
package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Transport wraps a base RoundTripper. The zero value is not usable; build
// one with New.
type Transport struct {
	base    http.RoundTripper
	logger  *zap.Logger
	limiter *rate.Limiter
	metrics *metrics
}

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the RoundTripper requests are forwarded to. Defaults to
// http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		if rt != nil {
			t.base = rt
		}
	}
}

// WithLogger logs every request at debug level and failures at warn.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithRateLimit caps outgoing requests at rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(t *Transport) {
		if rps <= 0 {
			t.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics registers request counters and latency histograms with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(t *Transport) {
		if reg != nil {
			t.metrics = newMetrics(reg)
		}
	}
}

// New returns a Transport with opts applied.
func New(opts ...Option) *Transport {
	t := &Transport{
		base:   http.DefaultTransport,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewHTTPClient returns an http.Client whose transport is New(opts...).
func NewHTTPClient(opts ...Option) *http.Client {
	return &http.Client{Transport: New(opts...)}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	endpoint := endpointLabel(req.URL.Path)

	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			t.logger.Warn("rate limiter wait aborted",
				zap.String("method", req.Method),
				zap.String("path", endpoint),
				zap.Error(err),
			)
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	if t.metrics != nil {
		t.metrics.requests.WithLabelValues(req.Method, endpoint, status).Inc()
		t.metrics.duration.WithLabelValues(req.Method, endpoint).Observe(elapsed.Seconds())
	}

	if err != nil {
		t.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("host", req.URL.Host),
			zap.String("path", endpoint),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	t.logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)
	return resp, nil
}

// ── metrics ──────────────────────────────────────────────────────────────

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fedi_client_requests_total",
			Help: "Total outgoing API requests by method, endpoint, and response status.",
		}, []string{"method", "path", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fedi_client_request_duration_seconds",
			Help:    "Outgoing request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// endpointLabel collapses numeric path segments so per-id requests share a
// label: /api/v1/statuses/42/reblog becomes /api/v1/statuses/:id/reblog.
func endpointLabel(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseUint(s, 10, 64); err == nil {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}
