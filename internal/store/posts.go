package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/models"
)

// ListPostsOptions filters post listings
type ListPostsOptions struct {
	Limit         int
	Offset        int
	PublishedOnly bool
	AuthorID      string
}

// SearchPostsOptions filters substring post search
type SearchPostsOptions struct {
	Query         string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

func (r *PostRepository) withEmbeds(ctx context.Context) *gorm.DB {
	// Embed author profile and tags in one logical read
	return r.db.WithContext(ctx).Preload("Author").Preload("Tags")
}

// List retrieves posts ordered by created_at descending
func (r *PostRepository) List(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error) {
	q := r.withEmbeds(ctx).Order("created_at DESC")
	if opts.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if opts.AuthorID != "" {
		q = q.Where("author_id = ?", opts.AuthorID)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	var posts []*models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListDrafts retrieves an author's unpublished posts ordered by updated_at
// descending
func (r *PostRepository) ListDrafts(ctx context.Context, authorID string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.withEmbeds(ctx).
		Where("author_id = ? AND published = ?", authorID, false).
		Order("updated_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID retrieves a post by ID with author and tags embedded
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.withEmbeds(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post by slug with author and tags embedded
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.withEmbeds(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetAuthorID retrieves only the author of a post, for fresh ownership
// checks before mutations. The bool reports whether the post exists.
func (r *PostRepository) GetAuthorID(ctx context.Context, id string) (string, bool, error) {
	var authorID string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("author_id").
		Where("id = ?", id).
		Take(&authorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return authorID, true, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update applies a partial update to a post. Fields absent from the map
// are left unchanged.
func (r *PostRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete deletes a post
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error
}

// Search retrieves posts whose title, content or excerpt contains the
// query, case-insensitively, ordered by created_at descending
func (r *PostRepository) Search(ctx context.Context, opts SearchPostsOptions) ([]*models.Post, error) {
	pattern := "%" + opts.Query + "%"
	q := r.withEmbeds(ctx).
		Where("title ILIKE ? OR content ILIKE ? OR excerpt ILIKE ?", pattern, pattern, pattern).
		Order("created_at DESC")
	if opts.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	var posts []*models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
