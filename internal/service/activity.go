package service

import (
	"context"
	"sort"

	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/store"
	"github.com/plumehq/plume/pkg/telemetry"
)

// GetAuthorStats aggregates an author's post and comment counts by
// reading both collections and folding locally. JoinedDate is the
// earliest post created_at and stays nil for an author with no posts.
func (s *Service) GetAuthorStats(ctx context.Context, userID string) (*models.AuthorStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_author_stats")
	defer span.End()

	posts, err := s.posts.List(ctx, store.ListPostsOptions{AuthorID: userID})
	if err != nil {
		return nil, storageError(OpAuthorStats, err)
	}
	comments, err := s.comments.ListByAuthor(ctx, userID, 0)
	if err != nil {
		return nil, storageError(OpAuthorStats, err)
	}

	stats := &models.AuthorStats{
		TotalPosts:    len(posts),
		TotalComments: len(comments),
	}
	for _, post := range posts {
		if post.Published {
			stats.PublishedPosts++
		} else {
			stats.DraftPosts++
		}
		if stats.JoinedDate == nil || post.CreatedAt.Before(*stats.JoinedDate) {
			created := post.CreatedAt
			stats.JoinedDate = &created
		}
	}
	return stats, nil
}

// GetRecentActivity merges the current identity's most recent posts and
// comments into a single feed, newest first, truncated to limit entries.
func (s *Service) GetRecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_recent_activity")
	defer span.End()

	identity, err := s.requireIdentity(ctx, OpRecentActivity)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	posts, err := s.posts.List(ctx, store.ListPostsOptions{AuthorID: identity.ID, Limit: limit})
	if err != nil {
		return nil, storageError(OpRecentActivity, err)
	}
	comments, err := s.comments.ListByAuthor(ctx, identity.ID, limit)
	if err != nil {
		return nil, storageError(OpRecentActivity, err)
	}

	activities := make([]*models.Activity, 0, len(posts)+len(comments))
	for _, post := range posts {
		activities = append(activities, &models.Activity{
			Type: models.ActivityPost,
			Date: post.CreatedAt,
			Post: post,
		})
	}
	for _, comment := range comments {
		activities = append(activities, &models.Activity{
			Type:    models.ActivityComment,
			Date:    comment.CreatedAt,
			Comment: comment,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Date.After(activities[j].Date)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}
