// Package search talks to the semantic card search service. The service
// wraps a vector index over the card corpus; lower _distance in a result
// means more similar. Results are normalized into canonical cards before
// they reach the scoring engine.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

const (
	// DefaultTimeout for search requests.
	DefaultTimeout = 10 * time.Second

	// DefaultLimit of results per query.
	DefaultLimit = 60
)

// DefaultRateLimit allows five requests per second.
var DefaultRateLimit = rate.Limit(5)

// errorType classifies client errors.
type errorType string

const (
	// ErrInvalidParams indicates a malformed request.
	ErrInvalidParams errorType = "invalid_params"
	// ErrUnavailable indicates the search service could not be reached or
	// returned a failure status.
	ErrUnavailable errorType = "unavailable"
	// ErrParseError indicates an unreadable response body.
	ErrParseError errorType = "parse_error"
)

// APIError is a classified search client error.
type APIError struct {
	Type       errorType
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("search: %s: %v", e.Message, e.Err)
	}
	return "search: " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client queries the semantic search service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// ClientOptions configures the search client.
type ClientOptions struct {
	// BaseURL of the search service (required).
	BaseURL string

	// RateLimit controls request frequency (default: 5 req/second).
	RateLimit rate.Limit

	// Timeout for HTTP requests (default: 10 seconds).
	Timeout time.Duration

	// MaxRetries on transient failures (default: 0, no retries).
	MaxRetries int

	// HTTPClient allows a custom HTTP client.
	HTTPClient *http.Client
}

// NewClient creates a search client.
func NewClient(options ClientOptions) *Client {
	if options.RateLimit == 0 {
		options.RateLimit = DefaultRateLimit
	}
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	return &Client{
		baseURL:    options.BaseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(options.RateLimit, 1),
		maxRetries: options.MaxRetries,
	}
}

// searchResult mirrors one entry of the service's response.
type searchResult struct {
	cards.ScryfallCard
	Distance    *float64 `json:"_distance,omitempty"`
	HybridScore *float64 `json:"hybrid_score,omitempty"`
}

// Search runs a semantic query and returns normalized cards ordered by the
// service's similarity ranking, with Distance populated when present.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]cards.Card, error) {
	if query == "" {
		return nil, &APIError{Type: ErrInvalidParams, Message: "query is required"}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	fullURL := c.baseURL + "/search?" + params.Encode()

	body, err := c.doRequest(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, &APIError{Type: ErrParseError, Message: "failed to parse search response", Err: err}
	}

	out := make([]cards.Card, 0, len(results))
	for _, r := range results {
		card := r.Normalize()
		card.Distance = r.Distance
		if r.HybridScore != nil {
			card.SemanticScore = r.HybridScore
		}
		out = append(out, card)
	}
	return out, nil
}

// doRequest performs a rate-limited GET with bounded retries on transient
// failures.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Type: ErrUnavailable, Message: "rate limiter error", Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, &APIError{Type: ErrInvalidParams, Message: "failed to create request", Err: err}
		}
		req.Header.Set("User-Agent", "desktopmtg/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &APIError{Type: ErrUnavailable, Message: "failed to execute request", Err: err}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = &APIError{
				Type:       ErrUnavailable,
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			}
			// Client errors will not improve on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}
		if readErr != nil {
			lastErr = &APIError{Type: ErrUnavailable, Message: "failed to read response body", Err: readErr}
			continue
		}

		return body, nil
	}
	return nil, lastErr
}
