package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrMissingAPIKey is returned when the OMDb provider has no API key
var ErrMissingAPIKey = errors.New("omdb: api key is required")

const (
	defaultOMDbURL     = "https://www.omdbapi.com/"
	defaultOMDbTimeout = 10 * time.Second
	omdbNotFound       = "Movie not found!"
)

// OMDbOptions configures the OMDb client
type OMDbOptions struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
	MaxResults        int
	HTTPClient        *http.Client
}

// OMDb searches movie titles through the OMDb API
type OMDb struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	maxResults int
	client     *http.Client
	limiter    *rate.Limiter
}

type omdbSearchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDbID string `json:"imdbID"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

// NewOMDb creates an OMDb client
func NewOMDb(opts OMDbOptions) (*OMDb, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOMDbURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultOMDbTimeout
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &OMDb{
		apiKey:     opts.APIKey,
		baseURL:    opts.BaseURL,
		timeout:    opts.Timeout,
		maxResults: opts.MaxResults,
		client:     opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// Lookup returns movie titles matching query in API order
func (o *OMDb) Lookup(ctx context.Context, query string) ([]string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("s", query)
	params.Set("type", "movie")
	params.Set("apikey", o.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb: unexpected status %d", resp.StatusCode)
	}

	var parsed omdbSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if parsed.Response == "False" {
		if parsed.Error == omdbNotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("omdb: %s", parsed.Error)
	}

	seen := make(map[string]bool, len(parsed.Search))
	titles := make([]string, 0, len(parsed.Search))
	for _, r := range parsed.Search {
		if r.Title == "" || seen[r.Title] {
			continue
		}
		seen[r.Title] = true
		titles = append(titles, r.Title)
		if len(titles) == o.maxResults {
			break
		}
	}
	return titles, nil
}
