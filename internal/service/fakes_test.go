package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/plumehq/plume/internal/compute"
	"github.com/plumehq/plume/internal/feed"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/session"
	"github.com/plumehq/plume/internal/store"
)

type fakePostStore struct {
	posts     map[string]*models.Post
	failWith  error
	updateLog []map[string]interface{}
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[string]*models.Post)}
}

func (f *fakePostStore) List(ctx context.Context, opts store.ListPostsOptions) ([]*models.Post, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*models.Post
	for _, p := range f.posts {
		if opts.PublishedOnly && !p.Published {
			continue
		}
		if opts.AuthorID != "" && p.AuthorID != opts.AuthorID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakePostStore) ListDrafts(ctx context.Context, authorID string) ([]*models.Post, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID && !p.Published {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakePostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.posts[id], nil
}

func (f *fakePostStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) GetAuthorID(ctx context.Context, id string) (string, bool, error) {
	if f.failWith != nil {
		return "", false, f.failWith
	}
	p, ok := f.posts[id]
	if !ok {
		return "", false, nil
	}
	return p.AuthorID, true, nil
}

func (f *fakePostStore) Create(ctx context.Context, post *models.Post) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, p := range f.posts {
		if p.Slug == post.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if f.failWith != nil {
		return f.failWith
	}
	p, ok := f.posts[id]
	if !ok {
		return nil
	}
	f.updateLog = append(f.updateLog, fields)
	if v, ok := fields["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := fields["slug"]; ok {
		p.Slug = v.(string)
	}
	if v, ok := fields["content"]; ok {
		p.Content = v.(string)
	}
	if v, ok := fields["excerpt"]; ok {
		p.Excerpt = v.(string)
	}
	if v, ok := fields["published"]; ok {
		p.Published = v.(bool)
	}
	if v, ok := fields["updated_at"]; ok {
		p.UpdatedAt = v.(time.Time)
	}
	return nil
}

func (f *fakePostStore) Delete(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostStore) Search(ctx context.Context, opts store.SearchPostsOptions) ([]*models.Post, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	q := strings.ToLower(opts.Query)
	var out []*models.Post
	for _, p := range f.posts {
		if opts.PublishedOnly && !p.Published {
			continue
		}
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Content), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeCommentStore struct {
	comments map[string]*models.Comment
	failWith error
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[string]*models.Comment)}
}

func (f *fakeCommentStore) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCommentStore) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Comment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*models.Comment
	for _, c := range f.comments {
		if c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCommentStore) GetAuthorID(ctx context.Context, id string) (string, bool, error) {
	if f.failWith != nil {
		return "", false, f.failWith
	}
	c, ok := f.comments[id]
	if !ok {
		return "", false, nil
	}
	return c.AuthorID, true, nil
}

func (f *fakeCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	if f.failWith != nil {
		return f.failWith
	}
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentStore) Delete(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentStore) DeleteByPost(ctx context.Context, postID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for id, c := range f.comments {
		if c.PostID == postID {
			delete(f.comments, id)
		}
	}
	return nil
}

type fakeProfileStore struct {
	profiles map[string]*models.Profile
	failWith error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.profiles[id], nil
}

func (f *fakeProfileStore) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, p := range f.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, p := range f.profiles {
		if p.Username == profile.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if _, exists := f.profiles[profile.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	clone := *profile
	f.profiles[profile.ID] = &clone
	return nil
}

func (f *fakeProfileStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if f.failWith != nil {
		return f.failWith
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil
	}
	if v, ok := fields["username"]; ok {
		p.Username = v.(string)
	}
	if v, ok := fields["full_name"]; ok {
		p.FullName = v.(string)
	}
	if v, ok := fields["bio"]; ok {
		p.Bio = v.(string)
	}
	if v, ok := fields["avatar_url"]; ok {
		p.AvatarURL = v.(string)
	}
	if v, ok := fields["updated_at"]; ok {
		p.UpdatedAt = v.(time.Time)
	}
	return nil
}

type fakeTagStore struct {
	tags       map[string]*models.Tag // keyed by name
	links      map[string][]string    // postID -> tagIDs, insertion order
	failCreate error
	failLink   error
	createdN   int
	getMisses  int
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{
		tags:  make(map[string]*models.Tag),
		links: make(map[string][]string),
	}
}

func (f *fakeTagStore) List(ctx context.Context) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, t := range f.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTagStore) ListPopular(ctx context.Context, limit int) ([]*models.Tag, error) {
	counts := make(map[string]int)
	for _, tagIDs := range f.links {
		for _, id := range tagIDs {
			counts[id]++
		}
	}
	tags, _ := f.List(ctx)
	sort.SliceStable(tags, func(i, j int) bool { return counts[tags[i].ID] > counts[tags[j].ID] })
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (f *fakeTagStore) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	if f.getMisses > 0 {
		f.getMisses--
		return nil, nil
	}
	return f.tags[name], nil
}

func (f *fakeTagStore) Create(ctx context.Context, tag *models.Tag) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	if _, exists := f.tags[tag.Name]; exists {
		return gorm.ErrDuplicatedKey
	}
	clone := *tag
	f.tags[tag.Name] = &clone
	f.createdN++
	return nil
}

func (f *fakeTagStore) Link(ctx context.Context, postID, tagID string) error {
	if f.failLink != nil {
		return f.failLink
	}
	for _, existing := range f.links[postID] {
		if existing == tagID {
			return nil
		}
	}
	f.links[postID] = append(f.links[postID], tagID)
	return nil
}

func (f *fakeTagStore) UnlinkAll(ctx context.Context, postID string) error {
	delete(f.links, postID)
	return nil
}

type fakeCompute struct {
	trending  []*models.TrendingPost
	analytics *models.PostAnalytics
	hits      []*models.TrendingPost
	failWith  error
	calls     int
	lastDays  int
	lastQuery string
}

func (f *fakeCompute) TrendingPosts(ctx context.Context, token string, daysBack int) ([]*models.TrendingPost, error) {
	f.calls++
	f.lastDays = daysBack
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.trending, nil
}

func (f *fakeCompute) PostAnalytics(ctx context.Context, token string, postID string) (*models.PostAnalytics, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.analytics, nil
}

func (f *fakeCompute) SearchPosts(ctx context.Context, token string, query string, opts compute.SearchOptions) ([]*models.TrendingPost, error) {
	f.calls++
	f.lastQuery = query
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.hits, nil
}

// testEnv bundles a service with its fakes and a deterministic clock
type testEnv struct {
	svc      *Service
	posts    *fakePostStore
	comments *fakeCommentStore
	profiles *fakeProfileStore
	tags     *fakeTagStore
	compute  *fakeCompute
	broker   *feed.MemoryBroker
	clock    time.Time
}

var testIdentity = &session.Identity{ID: "user-1", Email: "author@example.com"}

func newTestEnv(accessor session.Accessor, opts Options) *testEnv {
	env := &testEnv{
		posts:    newFakePostStore(),
		comments: newFakeCommentStore(),
		profiles: newFakeProfileStore(),
		tags:     newFakeTagStore(),
		compute:  &fakeCompute{},
		broker:   feed.NewMemoryBroker(),
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = New(Deps{
		Posts:    env.posts,
		Comments: env.comments,
		Profiles: env.profiles,
		Tags:     env.tags,
		Compute:  env.compute,
		Session:  accessor,
		Broker:   env.broker,
	}, opts)

	var n int
	env.svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	env.svc.now = func() time.Time {
		env.clock = env.clock.Add(time.Second)
		return env.clock
	}
	return env
}

func authedEnv() *testEnv {
	return newTestEnv(session.NewStatic(testIdentity, "token-1"), Options{DeleteCascade: true})
}

func anonEnv() *testEnv {
	return newTestEnv(session.NewStatic(nil, ""), Options{DeleteCascade: true})
}
