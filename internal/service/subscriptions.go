package service

import (
	"context"

	"github.com/plumehq/plume/internal/feed"
	"github.com/plumehq/plume/pkg/telemetry"
)

// SubscribeToComments delivers an event to fn for every comment inserted
// on the given post. The returned subscription must be closed when no
// longer needed.
func (s *Service) SubscribeToComments(ctx context.Context, postID string, fn feed.Handler) (*feed.Subscription, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.subscribe_comments")
	defer span.End()

	if s.broker == nil {
		return nil, Errorf(KindInternal, OpListComments, "no change-feed broker configured")
	}
	sub, err := s.broker.Subscribe(ctx, feed.CommentsTopic(postID), fn)
	if err != nil {
		return nil, NewError(KindServiceUnavailable, OpListComments, err)
	}
	return sub, nil
}

// SubscribeToPostUpdates delivers an event to fn for every update to the
// given post. The returned subscription must be closed when no longer
// needed.
func (s *Service) SubscribeToPostUpdates(ctx context.Context, postID string, fn feed.Handler) (*feed.Subscription, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.subscribe_post_updates")
	defer span.End()

	if s.broker == nil {
		return nil, Errorf(KindInternal, OpUpdatePost, "no change-feed broker configured")
	}
	sub, err := s.broker.Subscribe(ctx, feed.PostTopic(postID), fn)
	if err != nil {
		return nil, NewError(KindServiceUnavailable, OpUpdatePost, err)
	}
	return sub, nil
}
