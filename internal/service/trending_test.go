package service

import (
	"context"
	"testing"

	"github.com/plumehq/plume/internal/compute"
	"github.com/plumehq/plume/internal/models"
)

func TestGetTrendingPostsDefaultsWindow(t *testing.T) {
	env := authedEnv()
	env.compute.trending = []*models.TrendingPost{{ID: "p1", Title: "Hot", Score: 9.5}}

	posts, err := env.svc.GetTrendingPosts(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetTrendingPosts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Errorf("unexpected result: %v", posts)
	}
	if env.compute.lastDays != 7 {
		t.Errorf("expected default 7-day window, got %d", env.compute.lastDays)
	}
}

func TestGetTrendingPostsRequiresToken(t *testing.T) {
	env := anonEnv()
	if _, err := env.svc.GetTrendingPosts(context.Background(), 7); KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if env.compute.calls != 0 {
		t.Error("compute must not be called without a credential")
	}
}

func TestGetTrendingPostsRejectedCredential(t *testing.T) {
	env := authedEnv()
	env.compute.failWith = &compute.Error{Op: "trending_posts", Status: 401}

	_, err := env.svc.GetTrendingPosts(context.Background(), 7)
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized for rejected credential, got %v", err)
	}
}

func TestGetTrendingPostsBackendDown(t *testing.T) {
	env := authedEnv()
	env.compute.failWith = &compute.Error{Op: "trending_posts", Status: 503}

	_, err := env.svc.GetTrendingPosts(context.Background(), 7)
	if KindOf(err) != KindServiceUnavailable {
		t.Fatalf("expected service_unavailable, got %v", err)
	}
}

func TestGetPostAnalytics(t *testing.T) {
	env := authedEnv()
	env.compute.analytics = &models.PostAnalytics{PostID: "p1", Views: 42, CommentCount: 3}

	analytics, err := env.svc.GetPostAnalytics(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPostAnalytics failed: %v", err)
	}
	if analytics.Views != 42 {
		t.Errorf("expected 42 views, got %d", analytics.Views)
	}
}

func TestSearchPostsRanked(t *testing.T) {
	env := authedEnv()
	env.compute.hits = []*models.TrendingPost{
		{ID: "p2", Title: "Best Match", Score: 0.9},
		{ID: "p1", Title: "Second", Score: 0.4},
	}

	hits, err := env.svc.SearchPostsRanked(context.Background(), "match", SearchOptions{Limit: 10})
	if err != nil {
		t.Fatalf("SearchPostsRanked failed: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != "p2" {
		t.Errorf("expected compute ranking preserved, got %v", hits)
	}
	if env.compute.lastQuery != "match" {
		t.Errorf("expected query forwarded, got %q", env.compute.lastQuery)
	}
}
