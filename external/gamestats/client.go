// Package gamestats is the HTTP client of the rate-limited upstream game
// statistics API.
package gamestats

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/riskibarqy/match-history/internal/platform/resilience"
	"github.com/riskibarqy/match-history/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL   = "https://open.api.nexon.com/fconline/v1"
	apiKeyHeader     = "x-nxopen-api-key"
	maxResponseBytes = 8 << 20
	maxPageSize      = 100
)

// ErrEntityAbsent is a definitive 404. It is never retried.
var ErrEntityAbsent = fmt.Errorf("%w: entity absent upstream", usecase.ErrNotFound)

var errGameStatsTransient = crerr.New("gamestats transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	maxTries        uint
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          *logging.Logger
	breaker         *resilience.CircuitBreaker
	flight          resilience.SingleFlight
}

var _ usecase.GameStatsProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	initial := cfg.InitialInterval
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	maxInterval := cfg.MaxInterval
	if maxInterval <= 0 {
		maxInterval = 10 * time.Second
	}

	return &Client{
		httpClient:      httpClient,
		baseURL:         baseURL,
		apiKey:          strings.TrimSpace(cfg.APIKey),
		maxTries:        uint(max(cfg.MaxRetries, 0)) + 1,
		initialInterval: initial,
		maxInterval:     maxInterval,
		logger:          logger,
		breaker:         resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

type ouidEnvelope struct {
	OUID string `json:"ouid"`
}

// GetOUID resolves a nickname to the upstream opaque id.
func (c *Client) GetOUID(ctx context.Context, nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", fmt.Errorf("%w: nickname is required", usecase.ErrInvalidInput)
	}

	raw, err := c.get(ctx, "/id", url.Values{"nickname": []string{nickname}})
	if err != nil {
		return "", fmt.Errorf("lookup ouid nickname=%s: %w", nickname, err)
	}

	var out ouidEnvelope
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode ouid response: %v", usecase.ErrMalformedPayload, err)
	}
	if strings.TrimSpace(out.OUID) == "" {
		return "", fmt.Errorf("lookup ouid nickname=%s: %w", nickname, ErrEntityAbsent)
	}
	return strings.TrimSpace(out.OUID), nil
}

// ListMatchIDs returns one page of the user's match ids, newest first.
func (c *Client) ListMatchIDs(ctx context.Context, ouid string, category match.Category, offset, limit int) ([]string, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	query := url.Values{}
	query.Set("ouid", ouid)
	query.Set("matchtype", strconv.Itoa(category.UpstreamCode()))
	query.Set("offset", strconv.Itoa(max(offset, 0)))
	query.Set("limit", strconv.Itoa(limit))

	raw, err := c.get(ctx, "/user/match", query)
	if err != nil {
		return nil, fmt.Errorf("list match ids ouid=%s category=%s offset=%d: %w", ouid, category, offset, err)
	}

	var ids []string
	if err := sonic.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("%w: decode match id page: %v", usecase.ErrMalformedPayload, err)
	}
	return ids, nil
}

// GetMatchDetail returns the raw match-detail document. Decoding is left to
// the caller so the exact upstream bytes can be stored.
func (c *Client) GetMatchDetail(ctx context.Context, matchID string) ([]byte, error) {
	raw, err := c.get(ctx, "/match-detail", url.Values{"matchid": []string{matchID}})
	if err != nil {
		return nil, fmt.Errorf("get match detail match=%s: %w", matchID, err)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "gamestats circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: game stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, _, err := resilience.DoContext(ctx, &c.flight, fullURL, func(callCtx context.Context) ([]byte, error) {
		raw, reqErr := c.executeWithRetry(callCtx, fullURL)
		c.breaker.Record(isCircuitFailure(reqErr))
		return raw, reqErr
	})
	if err != nil {
		return nil, classify(err)
	}
	return raw, nil
}

func (c *Client) executeWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxInterval = c.maxInterval

	attempt := 0
	raw, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		return c.execute(ctx, fullURL)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.DebugContext(ctx, "gamestats request retry", "url", fullURL, "attempt", attempt, "next", next.String(), "error", err)
		}),
	)
	if err != nil && !stderrors.Is(err, ErrEntityAbsent) {
		c.logger.WarnContext(ctx, "gamestats request failed", "url", fullURL, "attempts", attempt, "error", err)
	}
	return raw, err
}

func (c *Client) execute(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("%w: send request: %v", errGameStatsTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errGameStatsTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(ErrEntityAbsent)
	case resp.StatusCode == http.StatusTooManyRequests:
		if seconds, ok := retryAfterSeconds(resp.Header.Get("Retry-After")); ok {
			return nil, backoff.RetryAfter(seconds)
		}
		return nil, fmt.Errorf("%w: provider status=%d", errGameStatsTransient, resp.StatusCode)
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errGameStatsTransient, resp.StatusCode, abbreviateBody(raw))
	default:
		return nil, backoff.Permanent(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
	}
}

// classify maps exhausted retries to ErrDependencyUnavailable and passes
// everything else through.
func classify(err error) error {
	if err == nil || stderrors.Is(err, ErrEntityAbsent) {
		return err
	}
	if isCircuitFailure(err) {
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	var retryAfter *backoff.RetryAfterError
	return stderrors.Is(err, errGameStatsTransient) || stderrors.As(err, &retryAfter)
}

func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func retryAfterSeconds(header string) (int, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return seconds, true
	}
	if at, err := http.ParseTime(header); err == nil {
		return max(int(time.Until(at).Seconds()), 0), true
	}
	return 0, false
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
