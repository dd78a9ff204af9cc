package liquipedia

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
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aresdata/esports-etl/internal/platform/logging"
)

const (
	defaultBaseURL      = "https://api.liquipedia.net/api/v3"
	defaultRequestDelay = 60 * time.Second
	defaultTimeout      = 45 * time.Second
	// maxPageLimit is the hard upstream cap on rows per request.
	maxPageLimit = 1000
	// maxResponseBytes bounds a single page body read.
	maxResponseBytes = 32 << 20
)

var errProviderFailure = crerr.New("liquipedia request failed")

type ClientConfig struct {
	HTTPClient   *http.Client
	BaseURL      string
	APIKey       string
	UserAgent    string
	RequestDelay time.Duration
	PageLimit    int
	Logger       *logging.Logger
}

// Client is an offset-paginated API v3 client. The upstream terms of use
// demand a fixed pause between requests, so the client sleeps RequestDelay
// after every single request it sends, successful or not. All fetching is
// sequential by construction.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	delay      time.Duration
	pageLimit  int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = defaultRequestDelay
	}

	pageLimit := cfg.PageLimit
	if pageLimit <= 0 || pageLimit > maxPageLimit {
		pageLimit = maxPageLimit
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		delay:      delay,
		pageLimit:  pageLimit,
		logger:     logger,
	}
}

// Query addresses one API v3 endpoint. Endpoint and Wiki are mandatory; the
// rest pass through to the upstream query engine.
type Query struct {
	Endpoint   string
	Wiki       string
	Fields     string
	Conditions string
	Order      string
}

type pageEnvelope struct {
	Result  []Record `json:"result"`
	Error   any      `json:"error"`
	Warning any      `json:"warning"`
}

// FetchAll walks the endpoint from offset 0 until a page comes back shorter
// than the page limit. Any request, decode, or envelope failure aborts the
// whole fetch: a partial result is never returned, so callers can tell a
// failed fetch from a legitimately empty one. The rate-limit pause runs
// after every request regardless of outcome.
func (c *Client) FetchAll(ctx context.Context, q Query) ([]Record, error) {
	endpoint := strings.Trim(strings.TrimSpace(q.Endpoint), "/")
	if endpoint == "" {
		return nil, crerr.New("endpoint is required")
	}
	if strings.TrimSpace(q.Wiki) == "" {
		return nil, crerr.Newf("wiki is required for endpoint %q", endpoint)
	}

	limit := c.pageLimit
	out := make([]Record, 0, limit)
	offset := 0
	pages := 0

	for {
		batch, err := c.fetchPage(ctx, endpoint, q, limit, offset)
		pages++
		if pauseErr := c.pause(ctx); pauseErr != nil {
			return nil, pauseErr
		}
		if err != nil {
			return nil, fmt.Errorf("fetch %s offset=%d: %w", endpoint, offset, err)
		}

		out = append(out, batch...)
		if len(batch) < limit {
			break
		}
		offset += len(batch)
	}

	c.logger.InfoContext(ctx, "liquipedia fetch complete",
		"endpoint", endpoint,
		"wiki", q.Wiki,
		"pages", pages,
		"records", len(out),
	)

	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, q Query, limit, offset int) ([]Record, error) {
	values := url.Values{}
	values.Set("wiki", q.Wiki)
	if q.Fields != "" {
		values.Set("query", q.Fields)
	}
	if q.Conditions != "" {
		values.Set("conditions", q.Conditions)
	}
	if q.Order != "" {
		values.Set("order", q.Order)
	}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))

	fullURL := c.baseURL + "/" + endpoint + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Apikey "+c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(errProviderFailure, "send request: %s", c.sanitize(err.Error()))
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, crerr.Wrapf(errProviderFailure, "read response body: %v", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, crerr.Wrapf(errProviderFailure, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	var envelope pageEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	if msg := envelopeText(envelope.Error); msg != "" {
		return nil, crerr.Wrapf(errProviderFailure, "provider error: %s", c.sanitize(msg))
	}
	if msg := envelopeText(envelope.Warning); msg != "" {
		c.logger.WarnContext(ctx, "liquipedia warning",
			"endpoint", endpoint,
			"offset", offset,
			"warning", msg,
		)
	}

	return envelope.Result, nil
}

// pause enforces the post-request delay. It runs even when the request
// failed; the upstream quota counts attempts, not successes.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

func envelopeText(value any) string {
	if value == nil {
		return ""
	}
	text := strings.TrimSpace(fmt.Sprint(value))
	if text == "" || text == "map[]" || text == "[]" {
		return ""
	}
	return text
}

func abbreviateBody(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
