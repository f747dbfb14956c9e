package service

// Backend identifies which backend serves an operation
type Backend string

const (
	// BackendPrimary is the relational data API (direct CRUD, embedding,
	// change feeds)
	BackendPrimary Backend = "primary"
	// BackendCompute is the secondary API for derived and aggregate
	// operations
	BackendCompute Backend = "compute"
)

// Operation names. Used as routing keys and carried on service errors.
const (
	OpListPosts         = "posts.list"
	OpGetPostBySlug     = "posts.get_by_slug"
	OpGetPostByID       = "posts.get_by_id"
	OpCreatePost        = "posts.create"
	OpUpdatePost        = "posts.update"
	OpDeletePost        = "posts.delete"
	OpUserPosts         = "posts.by_author"
	OpDrafts            = "posts.drafts"
	OpSearchPosts       = "posts.search"
	OpTrendingPosts     = "posts.trending"
	OpPostAnalytics     = "posts.analytics"
	OpSearchRanked      = "posts.search_ranked"
	OpListComments      = "comments.list"
	OpCreateComment     = "comments.create"
	OpDeleteComment     = "comments.delete"
	OpGetProfile        = "profiles.get"
	OpProfileByUsername = "profiles.get_by_username"
	OpCreateProfile     = "profiles.create"
	OpUpdateProfile     = "profiles.update"
	OpListTags          = "tags.list"
	OpPopularTags       = "tags.popular"
	OpAttachTags        = "tags.attach"
	OpAuthorStats       = "activity.author_stats"
	OpRecentActivity    = "activity.recent"
)

// routes is the backend policy table: every operation's backend choice
// lives here, not at the call sites. Simple CRUD and embedding stay on the
// primary data API; computation-heavy operations (trending, analytics,
// ranked search) go to the compute API.
var routes = map[string]Backend{
	OpListPosts:         BackendPrimary,
	OpGetPostBySlug:     BackendPrimary,
	OpGetPostByID:       BackendPrimary,
	OpCreatePost:        BackendPrimary,
	OpUpdatePost:        BackendPrimary,
	OpDeletePost:        BackendPrimary,
	OpUserPosts:         BackendPrimary,
	OpDrafts:            BackendPrimary,
	OpSearchPosts:       BackendPrimary,
	OpTrendingPosts:     BackendCompute,
	OpPostAnalytics:     BackendCompute,
	OpSearchRanked:      BackendCompute,
	OpListComments:      BackendPrimary,
	OpCreateComment:     BackendPrimary,
	OpDeleteComment:     BackendPrimary,
	OpGetProfile:        BackendPrimary,
	OpProfileByUsername: BackendPrimary,
	OpCreateProfile:     BackendPrimary,
	OpUpdateProfile:     BackendPrimary,
	OpListTags:          BackendPrimary,
	OpPopularTags:       BackendPrimary,
	OpAttachTags:        BackendPrimary,
	OpAuthorStats:       BackendPrimary,
	OpRecentActivity:    BackendPrimary,
}

// RouteFor returns the backend serving an operation. Operations missing
// from the table default to the primary backend.
func RouteFor(op string) Backend {
	if backend, ok := routes[op]; ok {
		return backend
	}
	return BackendPrimary
}
