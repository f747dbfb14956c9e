package service

import (
	"context"
	"strings"

	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/pkg/telemetry"
)

// normalizeTag trims and lower-cases a tag name. All tag writes go
// through this, keeping names unique case-insensitively.
func normalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetTags retrieves all tags ordered by name
func (s *Service) GetTags(ctx context.Context) ([]*models.Tag, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_tags")
	defer span.End()

	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, storageError(OpListTags, err)
	}
	return tags, nil
}

// GetPopularTags retrieves tags ordered by how many posts carry them
func (s *Service) GetPopularTags(ctx context.Context, limit int) ([]*models.Tag, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_popular_tags")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	tags, err := s.tags.ListPopular(ctx, limit)
	if err != nil {
		return nil, storageError(OpPopularTags, err)
	}
	return tags, nil
}

// AttachTags reconciles a post's tags with the given names: each name is
// normalized, created if absent, and linked to the post. Only the post's
// owner may call this. Useful on its own to retry tagging after a partial
// post creation failure.
func (s *Service) AttachTags(ctx context.Context, postID string, tagNames []string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.attach_tags")
	defer span.End()

	if _, err := s.requirePostOwner(ctx, OpAttachTags, postID); err != nil {
		return err
	}
	return s.attachTags(ctx, postID, tagNames)
}

// attachTags is the reconciler: get-or-create each tag, then upsert the
// association. Names are processed in input order. The batch is not
// transactional; a failure leaves earlier associations in place.
func (s *Service) attachTags(ctx context.Context, postID string, tagNames []string) error {
	for _, name := range tagNames {
		normalized := normalizeTag(name)
		if normalized == "" {
			continue
		}

		tag, err := s.resolveTag(ctx, normalized)
		if err != nil {
			return err
		}

		// An existing association is a success, not a duplicate-key error
		if err := s.tags.Link(ctx, postID, tag.ID); err != nil {
			return storageError(OpAttachTags, err)
		}
	}
	return nil
}

// resolveTag looks up a tag by normalized name, creating it when absent.
// A create that loses a race to a concurrent writer falls back to the
// winner's row.
func (s *Service) resolveTag(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := s.tags.GetByName(ctx, name)
	if err != nil {
		return nil, storageError(OpAttachTags, err)
	}
	if tag != nil {
		return tag, nil
	}

	tag = &models.Tag{ID: s.newID(), Name: name}
	if err := s.tags.Create(ctx, tag); err != nil {
		if KindOf(storageError(OpAttachTags, err)) == KindConflict {
			existing, getErr := s.tags.GetByName(ctx, name)
			if getErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, storageError(OpAttachTags, err)
	}
	return tag, nil
}
