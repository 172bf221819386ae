package sparql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/matsen/ldx/internal/logger"
)

const (
	// DefaultLanguage is the display-language tag labels are filtered by.
	DefaultLanguage = "en"

	// DefaultSearchLimit caps search hits.
	DefaultSearchLimit = 20

	// DefaultRelationLimit caps rows of each entity query.
	DefaultRelationLimit = 50

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the request rate allowed against one endpoint.
	DefaultRateLimit = 10.0

	// rateBurst lets the three entity queries leave together.
	rateBurst = 3

	contentTypeQuery   = "application/sparql-query"
	contentTypeResults = "application/sparql-results+json"
)

// Client is a rate-limited HTTP client for a SPARQL 1.1 query endpoint.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	endpoint      string
	lang          string
	searchLimit   int
	relationLimit int
	metrics       *Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLanguage sets the display-language tag.
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.lang = lang
		}
	}
}

// WithSearchLimit sets the search LIMIT.
func WithSearchLimit(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithRelationLimit sets the LIMIT of the details and edge queries.
func WithRelationLimit(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.relationLimit = n
		}
	}
}

// WithRateLimit sets requests per second; zero or less disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, rateBurst)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), rateBurst)
	}
}

// WithMetrics enables Prometheus collection.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the given endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		limiter:       rate.NewLimiter(rate.Limit(DefaultRateLimit), rateBurst),
		endpoint:      endpoint,
		lang:          DefaultLanguage,
		searchLimit:   DefaultSearchLimit,
		relationLimit: DefaultRelationLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Language returns the display-language tag.
func (c *Client) Language() string {
	return c.lang
}

// run POSTs query and decodes the SPARQL Results JSON response.
func (c *Client) run(ctx context.Context, kind, query string) (*ResultSet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	rs, err := c.do(ctx, query)
	c.metrics.observe(kind, outcomeOf(err), time.Since(start))
	return rs, err
}

func (c *Client) do(ctx context.Context, query string) (*ResultSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeQuery)
	req.Header.Set("Accept", contentTypeResults)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		logger.Debug("endpoint refused query", "status", err.StatusCode, "body", err.Body)
		return nil, err
	}

	var rs ResultSet
	if err := json.NewDecoder(resp.Body).Decode(&rs); err != nil {
		return nil, fmt.Errorf("%w: decoding results: %v", ErrInvalidResponse, err)
	}
	if rs.Results == nil {
		return nil, fmt.Errorf("%w: missing results member", ErrInvalidResponse)
	}
	return &rs, nil
}

// bindings runs query and returns its rows.
func (c *Client) bindings(ctx context.Context, kind, query string) ([]Binding, error) {
	rs, err := c.run(ctx, kind, query)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", kind, err)
	}
	return rs.Results.Bindings, nil
}

// SearchEntities finds entities whose display-language label contains term.
// A blank term yields no hits and no request.
func (c *Client) SearchEntities(ctx context.Context, term string) ([]EntitySummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []EntitySummary{}, nil
	}

	rows, err := c.bindings(ctx, KindSearch, SearchQuery(term, c.lang, c.searchLimit))
	if err != nil {
		return nil, err
	}
	return mapSearchHits(rows), nil
}

// GetEntityDetails fetches label, comment, types and both edge directions of uri.
// The three queries run concurrently; any failure fails the whole call.
func (c *Client) GetEntityDetails(ctx context.Context, uri string) (*EntityDetails, error) {
	if err := ValidateIRI(uri); err != nil {
		return nil, err
	}

	var details, outgoing, incoming []Binding

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = c.bindings(gctx, KindDetails, DetailsQuery(uri, c.lang, c.relationLimit))
		return err
	})
	g.Go(func() error {
		var err error
		outgoing, err = c.bindings(gctx, KindOutgoing, OutgoingQuery(uri, c.lang, c.relationLimit))
		return err
	})
	g.Go(func() error {
		var err error
		incoming, err = c.bindings(gctx, KindIncoming, IncomingQuery(uri, c.lang, c.relationLimit))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mapDetails(uri, details, outgoing, incoming), nil
}

// Select runs a free-form SELECT query and flattens the result.
func (c *Client) Select(ctx context.Context, query string) (*Table, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	rs, err := c.run(ctx, KindSelect, query)
	if err != nil {
		return nil, err
	}
	return rs.ToTable(), nil
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
