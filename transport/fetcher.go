package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Options configures a single fetch.
type Options struct {
	Headers         map[string]string
	MaxRetries      int
	Timeout         time.Duration
	FollowRedirects bool
}

// Response is what the extraction layer sees of an upstream reply. A non-2xx
// status is not an error at this level; callers check OK.
type Response interface {
	OK() bool
	StatusCode() int
	Status() string
	Text() (string, error)
	JSON(v any) error
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, opts Options) (Response, error)
}

const maxRedirects = 10

// Client is the resty-backed Fetcher. Retries (network errors, 429, 5xx) and
// the per-call timeout live here, not in the callers.
type Client struct {
	logger       *slog.Logger
	pool         *ProxyPool
	metrics      *Metrics
	retryWait    time.Duration
	retryMaxWait time.Duration
}

func NewClient(logger *slog.Logger, pool *ProxyPool, metrics *Metrics) *Client {
	return &Client{
		logger:       logger,
		pool:         pool,
		metrics:      metrics,
		retryWait:    500 * time.Millisecond,
		retryMaxWait: 5 * time.Second,
	}
}

func (c *Client) Fetch(ctx context.Context, rawURL string, opts Options) (Response, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	pooled, proxyHost, err := c.pool.Next(ctx)
	if err != nil {
		return nil, err
	}

	// Per-call redirect policy must not leak into the pooled client.
	httpClient := *pooled
	rc := resty.NewWithClient(&httpClient).
		SetRetryCount(opts.MaxRetries).
		SetRetryWaitTime(c.retryWait).
		SetRetryMaxWaitTime(c.retryMaxWait).
		AddRetryCondition(retryable).
		SetRedirectPolicy(redirectPolicy(opts.FollowRedirects)).
		SetLogger(restyLogger{c.logger})

	reqID := uuid.NewString()
	host := hostOf(rawURL)
	c.logger.Debug("fetch", "request_id", reqID, "url", rawURL, "proxy", proxyHost)

	start := time.Now()
	resp, err := rc.R().
		SetContext(ctx).
		SetHeaders(opts.Headers).
		Get(rawURL)
	elapsed := time.Since(start)

	if err != nil {
		c.pool.MarkFailure(proxyHost)
		c.metrics.ObserveFetch(host, "error", elapsed)
		c.logger.Debug("fetch failed", "request_id", reqID, "elapsed_ms", elapsed.Milliseconds(), "error", err)
		return nil, errors.Wrapf(err, "get %s", host)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		c.pool.MarkRateLimited(proxyHost)
		c.pool.MarkFailure(proxyHost)
	case resp.IsSuccess():
		c.pool.MarkSuccess(proxyHost)
	default:
		c.pool.MarkFailure(proxyHost)
	}
	c.metrics.ObserveFetch(host, outcome(resp.StatusCode()), elapsed)
	c.logger.Debug("fetched", "request_id", reqID, "status", resp.StatusCode(), "attempts", resp.Request.Attempt, "elapsed_ms", elapsed.Milliseconds())

	return &restyResponse{resp: resp}, nil
}

func retryable(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
}

func redirectPolicy(follow bool) resty.RedirectPolicy {
	if follow {
		return resty.FlexibleRedirectPolicy(maxRedirects)
	}
	return resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	})
}

func outcome(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "ok"
	case status >= 300 && status < 400:
		return "redirect"
	case status >= 400 && status < 500:
		return "client_error"
	}
	return "server_error"
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// restyLogger routes resty's own retry/warning output into slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.logger.Error(fmt.Sprintf(format, v...)) }
func (l restyLogger) Warnf(format string, v ...any)  { l.logger.Warn(fmt.Sprintf(format, v...)) }
func (l restyLogger) Debugf(format string, v ...any) { l.logger.Debug(fmt.Sprintf(format, v...)) }

type restyResponse struct {
	resp *resty.Response
}

func (r *restyResponse) OK() bool { return r.resp.IsSuccess() }

func (r *restyResponse) StatusCode() int { return r.resp.StatusCode() }

// Status returns the reason phrase without the numeric code.
func (r *restyResponse) Status() string {
	code := r.resp.StatusCode()
	text := strings.TrimSpace(strings.TrimPrefix(r.resp.Status(), strconv.Itoa(code)))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}

func (r *restyResponse) Text() (string, error) {
	return string(r.resp.Body()), nil
}

func (r *restyResponse) JSON(v any) error {
	if err := json.Unmarshal(r.resp.Body(), v); err != nil {
		return errors.Wrap(err, "decode json body")
	}
	return nil
}
