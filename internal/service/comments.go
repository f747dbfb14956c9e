package service

import (
	"context"

	"github.com/plumehq/plume/internal/feed"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/pkg/telemetry"
)

// GetComments retrieves a post's comments ordered oldest first, with
// author profiles embedded
func (s *Service) GetComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_comments")
	defer span.End()

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, storageError(OpListComments, err)
	}
	return comments, nil
}

// CreateComment adds a comment by the current identity. Content is
// validated by the caller before invocation; the façade does not
// re-validate it.
func (s *Service) CreateComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_comment")
	defer span.End()

	identity, err := s.requireIdentity(ctx, OpCreateComment)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        s.newID(),
		PostID:    postID,
		AuthorID:  identity.ID,
		Content:   content,
		CreatedAt: s.now(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storageError(OpCreateComment, err)
	}

	s.publish(ctx, feed.CommentsTopic(postID), feed.Event{
		Table:      "comments",
		Type:       feed.EventInsert,
		EntityID:   comment.ID,
		OccurredAt: s.now(),
	})

	return comment, nil
}

// DeleteComment deletes a comment owned by the current identity.
// Ownership is re-checked against a fresh row.
func (s *Service) DeleteComment(ctx context.Context, commentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.delete_comment")
	defer span.End()

	identity, err := s.requireIdentity(ctx, OpDeleteComment)
	if err != nil {
		return err
	}

	authorID, found, err := s.comments.GetAuthorID(ctx, commentID)
	if err != nil {
		return storageError(OpDeleteComment, err)
	}
	if !found {
		return Errorf(KindNotFound, OpDeleteComment, "comment %s not found", commentID)
	}
	if authorID != identity.ID {
		return Errorf(KindUnauthorized, OpDeleteComment, "identity %s does not own comment %s", identity.ID, commentID)
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return storageError(OpDeleteComment, err)
	}
	return nil
}
