package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plumehq/plume/internal/models"
)

// TagRepository provides tag-related database operations
type TagRepository struct {
	*Repository
}

// NewTagRepository creates a new tag repository
func NewTagRepository(repo *Repository) *TagRepository {
	return &TagRepository{Repository: repo}
}

// List retrieves all tags ordered by name
func (r *TagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListPopular retrieves tags ordered by association count descending
func (r *TagRepository) ListPopular(ctx context.Context, limit int) ([]*models.Tag, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.id, tags.name").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("COUNT(post_tags.post_id) DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var tags []*models.Tag
	if err := q.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetByName retrieves a tag by its normalized name
func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// Create creates a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// Link associates a tag with a post. An already-existing association is a
// no-op, not an error.
func (r *TagRepository) Link(ctx context.Context, postID, tagID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostTag{PostID: postID, TagID: tagID}).Error
}

// UnlinkAll removes all tag associations for a post
func (r *TagRepository) UnlinkAll(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostTag{}).Error
}
