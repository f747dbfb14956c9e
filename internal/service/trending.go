package service

import (
	"context"
	"strconv"

	"github.com/plumehq/plume/internal/cache"
	"github.com/plumehq/plume/internal/compute"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/pkg/telemetry"
)

// GetTrendingPosts fetches posts trending over the given window from the
// compute backend. Results are cached briefly; a cache miss falls through
// to the compute API. Requires a bearer credential.
func (s *Service) GetTrendingPosts(ctx context.Context, daysBack int) ([]*models.TrendingPost, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_trending_posts")
	defer span.End()

	if RouteFor(OpTrendingPosts) != BackendCompute {
		return nil, Errorf(KindInternal, OpTrendingPosts, "no primary implementation for this operation")
	}

	token, err := s.requireToken(ctx, OpTrendingPosts)
	if err != nil {
		return nil, err
	}
	if daysBack <= 0 {
		daysBack = 7
	}

	cacheKey := cache.HashKey("trending", strconv.Itoa(daysBack))
	var cached []*models.TrendingPost
	if err := s.cache.GetJSON(cacheKey, &cached); err == nil {
		return cached, nil
	}

	posts, err := s.compute.TrendingPosts(ctx, token, daysBack)
	if err != nil {
		return nil, computeError(OpTrendingPosts, err)
	}

	if s.opts.TrendingCacheTTL > 0 {
		if err := s.cache.SetJSON(cacheKey, posts, s.opts.TrendingCacheTTL); err != nil && err != cache.ErrCacheDisabled {
			s.logger.Warn("Failed to cache trending posts")
		}
	}
	return posts, nil
}

// GetPostAnalytics fetches analytics for a single post from the compute
// backend. Requires a bearer credential.
func (s *Service) GetPostAnalytics(ctx context.Context, postID string) (*models.PostAnalytics, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_post_analytics")
	defer span.End()

	if RouteFor(OpPostAnalytics) != BackendCompute {
		return nil, Errorf(KindInternal, OpPostAnalytics, "no primary implementation for this operation")
	}

	token, err := s.requireToken(ctx, OpPostAnalytics)
	if err != nil {
		return nil, err
	}

	analytics, err := s.compute.PostAnalytics(ctx, token, postID)
	if err != nil {
		return nil, computeError(OpPostAnalytics, err)
	}
	return analytics, nil
}

// SearchPostsRanked runs a full-text ranked search on the compute
// backend, returning scored results rather than full rows. Requires a
// bearer credential.
func (s *Service) SearchPostsRanked(ctx context.Context, query string, opts SearchOptions) ([]*models.TrendingPost, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.search_posts_ranked")
	defer span.End()

	if RouteFor(OpSearchRanked) != BackendCompute {
		return nil, Errorf(KindInternal, OpSearchRanked, "no primary implementation for this operation")
	}

	token, err := s.requireToken(ctx, OpSearchRanked)
	if err != nil {
		return nil, err
	}

	hits, err := s.compute.SearchPosts(ctx, token, query, compute.SearchOptions{
		PublishedOnly: opts.PublishedOnly,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	})
	if err != nil {
		return nil, computeError(OpSearchRanked, err)
	}
	return hits, nil
}
