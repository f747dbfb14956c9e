package service

import (
	"context"

	"github.com/plumehq/plume/internal/compute"
	"github.com/plumehq/plume/internal/feed"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/slug"
	"github.com/plumehq/plume/internal/store"
	"github.com/plumehq/plume/pkg/telemetry"
)

// CreatePostInput carries the fields for a new post
type CreatePostInput struct {
	Title     string
	Content   string
	Excerpt   string
	Published bool
	Tags      []string
}

// UpdatePostInput carries a partial post update. Nil fields are left
// unchanged. A non-nil Tags slice fully replaces the post's associations;
// nil leaves them alone.
type UpdatePostInput struct {
	Title     *string
	Content   *string
	Excerpt   *string
	Published *bool
	Tags      []string
}

// SearchOptions filter post search
type SearchOptions struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}

// ListPosts retrieves posts ordered by created_at descending. Pagination
// is offset-based; callers detect the last page by comparing the result
// length to limit. Callers paginating with a shared offset counter must
// not interleave a reset with an in-flight fetch; the façade does not
// serialize concurrent calls.
func (s *Service) ListPosts(ctx context.Context, limit, offset int, publishedOnly bool) ([]*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.list_posts")
	defer span.End()

	posts, err := s.posts.List(ctx, store.ListPostsOptions{
		Limit:         limit,
		Offset:        offset,
		PublishedOnly: publishedOnly,
	})
	if err != nil {
		return nil, storageError(OpListPosts, err)
	}
	return posts, nil
}

// GetPostBySlug retrieves a post by slug with its author profile and tags
// embedded
func (s *Service) GetPostBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_post_by_slug")
	defer span.End()

	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, storageError(OpGetPostBySlug, err)
	}
	if post == nil {
		return nil, Errorf(KindNotFound, OpGetPostBySlug, "no post with slug %q", postSlug)
	}
	return post, nil
}

// GetPostByID retrieves a post by ID with its author profile and tags
// embedded
func (s *Service) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_post_by_id")
	defer span.End()

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(OpGetPostByID, err)
	}
	if post == nil {
		return nil, Errorf(KindNotFound, OpGetPostByID, "no post with id %s", id)
	}
	return post, nil
}

// CreatePost creates a post for the current identity, deriving the slug
// from the title. When tags are supplied, creation is complete only once
// the associations are committed; a tagging failure surfaces as a partial
// failure with the created post still returned, and the caller may
// re-invoke AttachTags alone.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_post")
	defer span.End()

	identity, err := s.requireIdentity(ctx, OpCreatePost)
	if err != nil {
		return nil, err
	}

	postSlug := slug.Make(input.Title)
	if input.Title == "" || postSlug == "" {
		return nil, Errorf(KindValidationFailed, OpCreatePost, "title must contain at least one word character")
	}
	if input.Content == "" {
		return nil, Errorf(KindValidationFailed, OpCreatePost, "content is required")
	}

	now := s.now()
	post := &models.Post{
		ID:        s.newID(),
		Title:     input.Title,
		Slug:      postSlug,
		Content:   input.Content,
		Excerpt:   input.Excerpt,
		AuthorID:  identity.ID,
		Published: input.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storageError(OpCreatePost, err)
	}

	if len(input.Tags) > 0 {
		if err := s.attachTags(ctx, post.ID, input.Tags); err != nil {
			// The post exists; dependent tag state may be incomplete.
			// Not rolled back.
			return post, NewError(KindPartialFailure, OpCreatePost, err)
		}
	}

	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil || created == nil {
		// The row committed; return what we have
		return post, nil
	}
	return created, nil
}

// UpdatePost applies a partial update to a post owned by the current
// identity. Ownership is re-checked against a fresh row. A title change
// recomputes the slug. A non-nil tag list replaces all associations.
func (s *Service) UpdatePost(ctx context.Context, id string, input UpdatePostInput) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.update_post")
	defer span.End()

	if _, err := s.requirePostOwner(ctx, OpUpdatePost, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"updated_at": s.now(),
	}
	if input.Title != nil {
		newSlug := slug.Make(*input.Title)
		if newSlug == "" {
			return nil, Errorf(KindValidationFailed, OpUpdatePost, "title must contain at least one word character")
		}
		fields["title"] = *input.Title
		fields["slug"] = newSlug
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.Excerpt != nil {
		fields["excerpt"] = *input.Excerpt
	}
	if input.Published != nil {
		fields["published"] = *input.Published
	}

	if err := s.posts.Update(ctx, id, fields); err != nil {
		return nil, storageError(OpUpdatePost, err)
	}

	s.publish(ctx, feed.PostTopic(id), feed.Event{
		Table:      "posts",
		Type:       feed.EventUpdate,
		EntityID:   id,
		OccurredAt: s.now(),
	})

	if input.Tags != nil {
		// Replace, not diff: drop all associations, then re-link
		if err := s.tags.UnlinkAll(ctx, id); err != nil {
			return s.reloadAfterPartial(ctx, id, NewError(KindPartialFailure, OpUpdatePost, err))
		}
		if len(input.Tags) > 0 {
			if err := s.attachTags(ctx, id, input.Tags); err != nil {
				return s.reloadAfterPartial(ctx, id, NewError(KindPartialFailure, OpUpdatePost, err))
			}
		}
	}

	updated, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(OpUpdatePost, err)
	}
	return updated, nil
}

// reloadAfterPartial returns the post in whatever state it committed to,
// together with the partial-failure error
func (s *Service) reloadAfterPartial(ctx context.Context, id string, partial error) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil || post == nil {
		return nil, partial
	}
	return post, partial
}

// DeletePost deletes a post owned by the current identity. With the
// cascade option set, its comments and tag associations are removed
// first; otherwise cleanup is the storage constraints' responsibility.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.delete_post")
	defer span.End()

	if _, err := s.requirePostOwner(ctx, OpDeletePost, id); err != nil {
		return err
	}

	if s.opts.DeleteCascade {
		if err := s.comments.DeleteByPost(ctx, id); err != nil {
			return storageError(OpDeletePost, err)
		}
		if err := s.tags.UnlinkAll(ctx, id); err != nil {
			return storageError(OpDeletePost, err)
		}
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return storageError(OpDeletePost, err)
	}
	return nil
}

// GetUserPosts retrieves an author's posts, newest first
func (s *Service) GetUserPosts(ctx context.Context, authorID string, publishedOnly bool) ([]*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_user_posts")
	defer span.End()

	posts, err := s.posts.List(ctx, store.ListPostsOptions{
		AuthorID:      authorID,
		PublishedOnly: publishedOnly,
	})
	if err != nil {
		return nil, storageError(OpUserPosts, err)
	}
	return posts, nil
}

// GetDrafts retrieves the current identity's unpublished posts, most
// recently edited first
func (s *Service) GetDrafts(ctx context.Context) ([]*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_drafts")
	defer span.End()

	identity, err := s.requireIdentity(ctx, OpDrafts)
	if err != nil {
		return nil, err
	}

	drafts, err := s.posts.ListDrafts(ctx, identity.ID)
	if err != nil {
		return nil, storageError(OpDrafts, err)
	}
	return drafts, nil
}

// PublishPost marks a post as published
func (s *Service) PublishPost(ctx context.Context, id string) (*models.Post, error) {
	published := true
	return s.UpdatePost(ctx, id, UpdatePostInput{Published: &published})
}

// UnpublishPost reverts a post to draft
func (s *Service) UnpublishPost(ctx context.Context, id string) (*models.Post, error) {
	published := false
	return s.UpdatePost(ctx, id, UpdatePostInput{Published: &published})
}

// SearchPosts finds posts whose title, content or excerpt contains the
// query, case-insensitively. Routed per the policy table: the primary
// backend serves the substring contract; when routed to compute, ranked
// results are hydrated from the primary store.
func (s *Service) SearchPosts(ctx context.Context, query string, opts SearchOptions) ([]*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.search_posts")
	defer span.End()

	switch RouteFor(OpSearchPosts) {
	case BackendCompute:
		return s.searchViaCompute(ctx, query, opts)
	default:
		posts, err := s.posts.Search(ctx, store.SearchPostsOptions{
			Query:         query,
			PublishedOnly: opts.PublishedOnly,
			Limit:         opts.Limit,
			Offset:        opts.Offset,
		})
		if err != nil {
			return nil, storageError(OpSearchPosts, err)
		}
		return posts, nil
	}
}

// searchViaCompute runs a ranked search on the compute API and hydrates
// the hits from the primary store
func (s *Service) searchViaCompute(ctx context.Context, query string, opts SearchOptions) ([]*models.Post, error) {
	token, err := s.requireToken(ctx, OpSearchPosts)
	if err != nil {
		return nil, err
	}

	hits, err := s.compute.SearchPosts(ctx, token, query, compute.SearchOptions{
		PublishedOnly: opts.PublishedOnly,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	})
	if err != nil {
		return nil, computeError(OpSearchPosts, err)
	}

	posts := make([]*models.Post, 0, len(hits))
	for _, hit := range hits {
		post, err := s.posts.GetByID(ctx, hit.ID)
		if err != nil {
			return nil, storageError(OpSearchPosts, err)
		}
		if post == nil {
			// Index lag: the compute side can trail the primary store
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}
