// Package compute is the client for the secondary compute API, which
// serves derived and aggregate operations: trending, analytics, and ranked
// search. Simple CRUD stays on the primary data client.
package compute

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/plumehq/plume/pkg/config"
	"github.com/plumehq/plume/pkg/logging"
	"github.com/plumehq/plume/pkg/telemetry"

	"github.com/plumehq/plume/internal/models"
)

// Error is a typed failure from the compute API. Status is zero when the
// request never reached the service.
type Error struct {
	Op     string
	Status int
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("compute %s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("compute %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the compute API rejected the credential
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// SearchOptions are query options for ranked search
type SearchOptions struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}

// Client calls the secondary compute API over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a new compute client
func New(cfg *config.ComputeConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("compute_url is required")
	}

	logger := logging.GetLogger().With(zap.String("component", "compute-client"))

	client := &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}

	logger.Info("Compute client initialized", zap.String("url", cfg.BaseURL))

	return client, nil
}

// TrendingPosts fetches posts trending over the given number of days
func (c *Client) TrendingPosts(ctx context.Context, token string, daysBack int) ([]*models.TrendingPost, error) {
	ctx, span := telemetry.StartSpan(ctx, "compute.trending_posts")
	defer span.End()

	q := url.Values{}
	q.Set("days_back", strconv.Itoa(daysBack))

	var posts []*models.TrendingPost
	if err := c.get(ctx, "trending_posts", token, "/posts/trending", q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostAnalytics fetches analytics for a single post
func (c *Client) PostAnalytics(ctx context.Context, token string, postID string) (*models.PostAnalytics, error) {
	ctx, span := telemetry.StartSpan(ctx, "compute.post_analytics")
	defer span.End()

	var analytics models.PostAnalytics
	path := fmt.Sprintf("/posts/%s/analytics", url.PathEscape(postID))
	if err := c.get(ctx, "post_analytics", token, path, nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// SearchPosts runs a ranked full-text search on the compute API
func (c *Client) SearchPosts(ctx context.Context, token string, query string, opts SearchOptions) ([]*models.TrendingPost, error) {
	ctx, span := telemetry.StartSpan(ctx, "compute.search_posts")
	defer span.End()

	q := url.Values{}
	q.Set("q", query)
	q.Set("published_only", strconv.FormatBool(opts.PublishedOnly))
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	var posts []*models.TrendingPost
	if err := c.get(ctx, "search_posts", token, "/posts/search", q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// get issues a GET request with the bearer credential and decodes the JSON
// response into dest
func (c *Client) get(ctx context.Context, op, token, path string, query url.Values, dest interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Compute request failed", zap.String("op", op), zap.Error(err))
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("Compute request rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return &Error{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}
