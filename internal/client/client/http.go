package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/logging"
	"github.com/dmitrijs2005/petsync/internal/metrics"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	animalsPath       = "/v2/animals"
	endpointAnimals   = "animals"
	endpointSearch    = "search"
	defaultUserAgent  = "petsync/1.0"
	defaultTimeout    = 20 * time.Second
	requestIDHeader   = "X-Request-ID"
	defaultRateBurst  = 1
)

// HTTPClient implements Client over HTTP+JSON.
type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	userAgent string
	log       logging.Logger
	metrics   *metrics.Metrics
}

type Option func(*HTTPClient)

// WithTimeout bounds each request, including rate-limiter wait.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *HTTPClient) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, defaultRateBurst)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), defaultRateBurst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

// NewHTTPClient builds a client for baseURL. transport carries authorization
// and may be nil for http.DefaultTransport.
func NewHTTPClient(baseURL string, transport http.RoundTripper, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &HTTPClient{
		baseURL:   base,
		http:      &http.Client{Transport: transport},
		limiter:   rate.NewLimiter(rate.Inf, defaultRateBurst),
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		log:       logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FetchPage returns one page of the main feed.
func (c *HTTPClient) FetchPage(ctx context.Context, page, size int, loc models.Location) (models.Page, error) {
	values := pageValues(page, size, loc)
	return c.animals(ctx, endpointAnimals, values, page)
}

// SearchPage returns one page of animals matching params. Empty fields are
// not sent.
func (c *HTTPClient) SearchPage(ctx context.Context, params models.SearchParameters, page, size int, loc models.Location) (models.Page, error) {
	values := pageValues(page, size, loc)
	if q := strings.TrimSpace(params.Query); q != "" {
		values.Set("name", q)
	}
	if age := strings.TrimSpace(params.Age); age != "" {
		values.Set("age", age)
	}
	if typ := strings.TrimSpace(params.Type); typ != "" {
		values.Set("type", typ)
	}
	return c.animals(ctx, endpointSearch, values, page)
}

func pageValues(page, size int, loc models.Location) url.Values {
	values := url.Values{}
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))
	if size > 0 {
		values.Set("limit", strconv.Itoa(size))
	}
	if pc := strings.TrimSpace(loc.Postcode); pc != "" {
		values.Set("location", pc)
		if loc.Distance > 0 {
			values.Set("distance", strconv.Itoa(loc.Distance))
		}
	}
	return values
}

func (c *HTTPClient) animals(ctx context.Context, endpoint string, values url.Values, page int) (models.Page, error) {
	rel := &url.URL{Path: animalsPath, RawQuery: values.Encode()}

	var payload animalsResponse
	start := time.Now()
	err := c.doURL(ctx, http.MethodGet, rel, &payload)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	c.metrics.RecordRemoteRequest(endpoint, outcome, time.Since(start).Seconds())

	if err != nil {
		return models.Page{}, err
	}
	return payload.toPage(page), nil
}

func (c *HTTPClient) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, reqID)

	if err := c.limiter.Wait(ctx); err != nil {
		return c.transportError(parent, err)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, reqID)

	c.log.Debug(ctx, "remote request", "method", method, "url", reqURL.Redacted())

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(parent, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(ctx, "remote request failed", "status", resp.StatusCode, "path", rel.Path)
		return statusError(resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if ctx.Err() != nil {
			return c.transportError(parent, err)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transportError keeps caller cancellation distinct from network failure.
// Deadlines, the caller's or our own, count as unavailability.
func (c *HTTPClient) transportError(parent context.Context, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return parent.Err()
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
