package models

import (
	"time"
)

// ActivityType identifies the kind of entry in an activity feed
type ActivityType string

const (
	ActivityPost    ActivityType = "post"
	ActivityComment ActivityType = "comment"
)

// Activity is a synthesized entry in a profile's activity feed: either a
// post or a comment, unified by date. Not persisted.
type Activity struct {
	Type    ActivityType `json:"type"`
	Date    time.Time    `json:"date"`
	Post    *Post        `json:"post,omitempty"`
	Comment *Comment     `json:"comment,omitempty"`
}

// AuthorStats aggregates writing activity for a single author.
// JoinedDate is the earliest post created_at; nil when the author has no
// posts.
type AuthorStats struct {
	TotalPosts     int        `json:"total_posts"`
	PublishedPosts int        `json:"published_posts"`
	DraftPosts     int        `json:"draft_posts"`
	TotalComments  int        `json:"total_comments"`
	JoinedDate     *time.Time `json:"joined_date,omitempty"`
}

// TrendingPost is the compute API's ranked representation of a post
type TrendingPost struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Excerpt      string  `json:"excerpt,omitempty"`
	Score        float64 `json:"score"`
	CommentCount int64   `json:"comment_count"`
}

// PostAnalytics is the compute API's per-post analytics payload
type PostAnalytics struct {
	PostID         string  `json:"post_id"`
	Views          int64   `json:"views"`
	UniqueVisitors int64   `json:"unique_visitors"`
	CommentCount   int64   `json:"comment_count"`
	AvgReadSeconds float64 `json:"avg_read_seconds"`
}
