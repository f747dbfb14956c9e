package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// ListByPost retrieves comments on a post ordered by created_at ascending
// (oldest first)
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListByAuthor retrieves an author's comments ordered by created_at
// descending. A limit of zero retrieves all of them.
func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Comment, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var comments []*models.Comment
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetAuthorID retrieves only the author of a comment, for fresh ownership
// checks before mutations. The bool reports whether the comment exists.
func (r *CommentRepository) GetAuthorID(ctx context.Context, id string) (string, bool, error) {
	var authorID string
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
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

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Delete deletes a comment
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{}).Error
}

// DeleteByPost deletes all comments on a post
func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
