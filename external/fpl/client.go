package fpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/metrics"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/resilience"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

const (
	defaultBaseURL      = "https://fantasy.premierleague.com/api"
	defaultRetryBackoff = time.Second
	maxRetryBackoff     = 8 * time.Second
	maxResponseBytes    = 6 << 20
	maxCoalesceAttempts = 3
)

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	PageDelay      time.Duration
	UserAgent      string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the public FPL API. It is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	maxRetries     int
	retryBackoff   time.Duration
	pageDelay      time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("fpl")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	backoff := cfg.RetryBackoff
	if backoff < 0 {
		backoff = 0
	} else if backoff == 0 {
		backoff = defaultRetryBackoff
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "fpl-league-analyzer"
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker("fpl", breakerCfg, resilience.WithStateChange(func(name string, from, to resilience.CircuitState) {
		metrics.CircuitBreakerTransitions.WithLabelValues(name, string(to)).Inc()
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	}))

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   backoff,
		pageDelay:      max(cfg.PageDelay, 0),
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
	}
}

// doJSON performs a GET against path, coalescing identical in-flight calls,
// and decodes the body into target. The raw body is returned as well.
func (c *Client) doJSON(ctx context.Context, endpoint, path string, query url.Values, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
			metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "rejected").Inc()
			return nil, fmt.Errorf("%w: fpl api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err := c.coalesce(ctx, fullURL, func() (any, error) {
		start := time.Now()
		raw, reqErr := c.executeRequest(ctx, fullURL)
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

		if c.circuitEnabled {
			if isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode fpl payload %s: %w", endpoint, err)
	}

	return raw, nil
}

// coalesce shares one in-flight request per url. A follower whose own
// context is still live re-issues the request when the shared attempt died
// with the leader's context.
func (c *Client) coalesce(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	for attempt := 1; ; attempt++ {
		ch := c.flight.DoChan(key, fn)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil && res.Shared && isContextErr(res.Err) && ctx.Err() == nil && attempt < maxCoalesceAttempts {
				c.logger.DebugContext(ctx, "shared fpl request ended with its leader, retrying", "url", key)
				continue
			}
			return res.Val, res.Err
		}
	}
}

func isContextErr(err error) bool {
	return crerr.Is(err, context.Canceled) || crerr.Is(err, context.DeadlineExceeded)
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = crerr.Mark(fmt.Errorf("send request: %w", err), errFPLTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(fmt.Errorf("read response body: %w", readErr), errFPLTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: fpl status=404", usecase.ErrNotFound)
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(fmt.Errorf("fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errFPLTransient)
			default:
				return nil, fmt.Errorf("fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		if err := sleepCtx(ctx, resilience.Backoff(attempt, c.retryBackoff, maxRetryBackoff)); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("fpl request failed")
	}
	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errFPLTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
