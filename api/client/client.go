// Package client is the typed Food Share API client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/internal/metrics"
	"github.com/fastygo/foodshare/pkg/logger"
)

// Header names used on every call.
const (
	HeaderUserID    = "X-User-Id"
	HeaderRequestID = "X-Request-ID"
)

const defaultTimeout = 10 * time.Second

// Config holds the connection settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	MaxConns int
}

// IdentitySource yields the id sent on authenticated calls. An empty id is
// sent as an empty header.
type IdentitySource interface {
	UserID() string
}

// IdentityFunc adapts a function to IdentitySource.
type IdentityFunc func() string

func (f IdentityFunc) UserID() string { return f() }

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMetrics reports every call to rec.
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *Client) {
		if rec != nil {
			c.metrics = rec
		}
	}
}

// WithLimiter makes every call wait for a token from l.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// Client performs calls against the remote API. It is safe for concurrent use
// and holds no state beyond its configuration.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *fasthttp.Client
	identity IdentitySource
	metrics  metrics.Recorder
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// New builds a Client. A nil identity sends no user id.
func New(cfg Config, identity IdentitySource, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if identity == nil {
		identity = IdentityFunc(func() string { return "" })
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = fasthttp.DefaultMaxConnsPerHost
	}

	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		timeout:  timeout,
		identity: identity,
		metrics:  metrics.Nop{},
		logger:   log,
		http: &fasthttp.Client{
			Name:            "foodshare-client",
			MaxConnsPerHost: maxConns,
			ReadTimeout:     timeout,
			WriteTimeout:    timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// operation describes one remote call. route is the template reported to
// metrics, path the concrete URL path.
type operation struct {
	method        string
	route         string
	path          string
	body          interface{}
	authenticated bool
}

func (c *Client) do(ctx context.Context, op operation) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := uuid.NewString()
	log := logger.WithRequestID(logger.ContextWithRequestID(ctx, requestID), c.logger).
		With(zap.String("method", op.method), zap.String("route", op.route))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, domain.WrapError(domain.ErrCodeTimeout, "rate limit wait aborted", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + op.path)
	req.Header.SetMethod(op.method)
	req.Header.SetContentType("application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if op.authenticated {
		req.Header.Set(HeaderUserID, c.identity.UserID())
	}
	if op.body != nil {
		payload, err := json.Marshal(op.body)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "encode request body", err)
		}
		req.SetBodyRaw(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	err := c.http.DoDeadline(req, resp, deadline)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(op.method, op.route, 0, elapsed)
		log.Warn("api call failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, transportError(err)
	}

	status := resp.StatusCode()
	c.metrics.ObserveRequest(op.method, op.route, status, elapsed)
	body := append([]byte(nil), resp.Body()...)

	if status < 200 || status > 299 {
		msg := errorMessage(body, status)
		log.Debug("api call rejected", zap.Int("status", status), zap.String("message", msg))
		return nil, domain.HTTPError(status, msg)
	}

	log.Debug("api call completed", zap.Int("status", status), zap.Duration("elapsed", elapsed))
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		log.Warn("api returned a non-JSON success body", zap.Int("status", status), zap.Int("bytes", len(trimmed)))
		return nil, nil
	}
	return trimmed, nil
}

// call performs op and decodes a JSON body into out when both are present.
// A body that does not match out is logged and ignored.
func (c *Client) call(ctx context.Context, op operation, out interface{}) error {
	body, err := c.do(ctx, op)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("unexpected response shape", zap.String("route", op.route), zap.Error(err))
	}
	return nil
}

// raw performs op and returns the body untouched for envelope normalization.
func (c *Client) raw(ctx context.Context, op operation) (json.RawMessage, error) {
	body, err := c.do(ctx, op)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func errorMessage(body []byte, status int) string {
	var payload transport.ErrorBody
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := payload.Text(); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("request failed (status %d)", status)
}

func transportError(err error) error {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return domain.WrapError(domain.ErrCodeTimeout, "request timed out", err)
	}
	return domain.WrapError(domain.ErrCodeTransport, "server unreachable", err)
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.ErrCodeTimeout, "request timed out", err)
	}
	return domain.WrapError(domain.ErrCodeTransport, "request cancelled", err)
}
