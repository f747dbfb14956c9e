// Package service is the single authorized entry point for all entity
// operations. It routes each operation to the primary data client or the
// secondary compute client per the routing table, enforces ownership
// before every mutation, manages derived data (slugs, tag links) and
// exposes change-feed subscriptions.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/cache"
	"github.com/plumehq/plume/internal/compute"
	"github.com/plumehq/plume/internal/feed"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/session"
	"github.com/plumehq/plume/internal/store"
	"github.com/plumehq/plume/pkg/logging"
)

// PostStore is the primary data client's post surface
type PostStore interface {
	List(ctx context.Context, opts store.ListPostsOptions) ([]*models.Post, error)
	ListDrafts(ctx context.Context, authorID string) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetAuthorID(ctx context.Context, id string) (string, bool, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, opts store.SearchPostsOptions) ([]*models.Post, error)
}

// CommentStore is the primary data client's comment surface
type CommentStore interface {
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Comment, error)
	GetAuthorID(ctx context.Context, id string) (string, bool, error)
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
}

// ProfileStore is the primary data client's profile surface
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// TagStore is the primary data client's tag surface
type TagStore interface {
	List(ctx context.Context) ([]*models.Tag, error)
	ListPopular(ctx context.Context, limit int) ([]*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Link(ctx context.Context, postID, tagID string) error
	UnlinkAll(ctx context.Context, postID string) error
}

// ComputeClient is the secondary compute API surface
type ComputeClient interface {
	TrendingPosts(ctx context.Context, token string, daysBack int) ([]*models.TrendingPost, error)
	PostAnalytics(ctx context.Context, token string, postID string) (*models.PostAnalytics, error)
	SearchPosts(ctx context.Context, token string, query string, opts compute.SearchOptions) ([]*models.TrendingPost, error)
}

// Deps are the collaborators a Service is constructed from. All of them
// are injected so tests can substitute fakes.
type Deps struct {
	Posts    PostStore
	Comments CommentStore
	Profiles ProfileStore
	Tags     TagStore
	Compute  ComputeClient
	Session  session.Accessor
	Broker   feed.Broker
	Cache    *cache.Cache
}

// Options control service behavior
type Options struct {
	// DeleteCascade removes a post's comments and tag associations when
	// the post is deleted
	DeleteCascade    bool
	TrendingCacheTTL time.Duration
}

// Service is the data service façade
type Service struct {
	posts    PostStore
	comments CommentStore
	profiles ProfileStore
	tags     TagStore
	compute  ComputeClient
	session  session.Accessor
	broker   feed.Broker
	cache    *cache.Cache
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// New creates a new data service
func New(deps Deps, opts Options) *Service {
	return &Service{
		posts:    deps.Posts,
		comments: deps.Comments,
		profiles: deps.Profiles,
		tags:     deps.Tags,
		compute:  deps.Compute,
		session:  deps.Session,
		broker:   deps.Broker,
		cache:    deps.Cache,
		opts:     opts,
		logger:   logging.GetLogger().With(zap.String("component", "data-service")),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newID,
	}
}

// requireIdentity fetches the current identity, never from a cache.
// Returns an unauthorized error when there is no session.
func (s *Service) requireIdentity(ctx context.Context, op string) (*session.Identity, error) {
	identity, err := s.session.Identity(ctx)
	if err != nil {
		return nil, NewError(KindUnauthorized, op, err)
	}
	return identity, nil
}

// requireToken fetches the bearer credential for compute calls
func (s *Service) requireToken(ctx context.Context, op string) (string, error) {
	token, err := s.session.BearerToken(ctx)
	if err != nil {
		return "", NewError(KindUnauthorized, op, err)
	}
	return token, nil
}

// requirePostOwner re-checks post ownership against a fresh row, never a
// cached object. There is a narrow window between this check and the
// mutation; accepted under optimistic concurrency.
func (s *Service) requirePostOwner(ctx context.Context, op, postID string) (*session.Identity, error) {
	identity, err := s.requireIdentity(ctx, op)
	if err != nil {
		return nil, err
	}

	authorID, found, err := s.posts.GetAuthorID(ctx, postID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if !found {
		return nil, Errorf(KindNotFound, op, "post %s not found", postID)
	}
	if authorID != identity.ID {
		return nil, Errorf(KindUnauthorized, op, "identity %s does not own post %s", identity.ID, postID)
	}
	return identity, nil
}

// storageError wraps a primary-backend failure, classifying unique
// constraint violations as conflicts
func storageError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewError(KindConflict, op, err)
	}
	return NewError(KindInternal, op, err)
}

// computeError wraps a compute-backend failure: a rejected credential maps
// to unauthorized, everything else to service unavailable
func computeError(op string, err error) error {
	var cerr *compute.Error
	if errors.As(err, &cerr) && cerr.Unauthorized() {
		return NewError(KindUnauthorized, op, err)
	}
	return NewError(KindServiceUnavailable, op, err)
}

// publish emits a change-feed event. Notification failures are logged and
// swallowed; the mutation already committed and the feed is advisory.
func (s *Service) publish(ctx context.Context, topic string, ev feed.Event) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, topic, ev); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("topic", topic),
			zap.String("table", ev.Table),
			zap.Error(err))
	}
}
