package compute

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(&config.ComputeConfig{
		BaseURL: srv.URL + "/api",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, srv
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(&config.ComputeConfig{}); err == nil {
		t.Error("Expected error for missing base URL")
	}
}

func TestTrendingPosts(t *testing.T) {
	var gotPath, gotAuth, gotDays string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDays = r.URL.Query().Get("days_back")
		json.NewEncoder(w).Encode([]*models.TrendingPost{
			{ID: "p1", Title: "First", Slug: "first", Score: 9.5},
		})
	}))

	posts, err := client.TrendingPosts(context.Background(), "token-123", 7)
	if err != nil {
		t.Fatalf("TrendingPosts() error = %v", err)
	}

	if gotPath != "/api/posts/trending" {
		t.Errorf("path = %q, want /api/posts/trending", gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("Authorization = %q, want bearer credential", gotAuth)
	}
	if gotDays != "7" {
		t.Errorf("days_back = %q, want 7", gotDays)
	}
	if len(posts) != 1 || posts[0].Slug != "first" {
		t.Errorf("unexpected posts: %+v", posts)
	}
}

func TestPostAnalytics(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(models.PostAnalytics{PostID: "p1", Views: 42})
	}))

	analytics, err := client.PostAnalytics(context.Background(), "token", "p1")
	if err != nil {
		t.Fatalf("PostAnalytics() error = %v", err)
	}
	if gotPath != "/api/posts/p1/analytics" {
		t.Errorf("path = %q, want /api/posts/p1/analytics", gotPath)
	}
	if analytics.Views != 42 {
		t.Errorf("Views = %d, want 42", analytics.Views)
	}
}

func TestSearchPosts(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("published_only") != "true" {
			t.Errorf("published_only = %q, want true", r.URL.Query().Get("published_only"))
		}
		json.NewEncoder(w).Encode([]*models.TrendingPost{})
	}))

	_, err := client.SearchPosts(context.Background(), "token", "golang", SearchOptions{
		PublishedOnly: true,
		Limit:         20,
	})
	if err != nil {
		t.Fatalf("SearchPosts() error = %v", err)
	}
	if gotQuery != "golang" {
		t.Errorf("q = %q, want golang", gotQuery)
	}
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		unauthorized bool
	}{
		{name: "server error", status: http.StatusInternalServerError, unauthorized: false},
		{name: "unauthorized", status: http.StatusUnauthorized, unauthorized: true},
		{name: "forbidden", status: http.StatusForbidden, unauthorized: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.TrendingPosts(context.Background(), "token", 7)
			if err == nil {
				t.Fatal("Expected error for non-2xx response")
			}

			var computeErr *Error
			if !errors.As(err, &computeErr) {
				t.Fatalf("error type = %T, want *compute.Error", err)
			}
			if computeErr.Op != "trending_posts" {
				t.Errorf("Op = %q, want trending_posts", computeErr.Op)
			}
			if computeErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", computeErr.Status, tt.status)
			}
			if computeErr.Unauthorized() != tt.unauthorized {
				t.Errorf("Unauthorized() = %v, want %v", computeErr.Unauthorized(), tt.unauthorized)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := client.TrendingPosts(context.Background(), "token", 7)
	if err == nil {
		t.Fatal("Expected error for unreachable service")
	}

	var computeErr *Error
	if !errors.As(err, &computeErr) {
		t.Fatalf("error type = %T, want *compute.Error", err)
	}
	if computeErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failure", computeErr.Status)
	}
}
