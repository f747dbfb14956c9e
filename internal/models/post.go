package models

import (
	"time"
)

// Post represents a blog post
type Post struct {
	ID        string    `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex:posts_slug_ux;column:slug" json:"slug"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	Excerpt   string    `gorm:"type:varchar(500);column:excerpt" json:"excerpt,omitempty"`
	AuthorID  string    `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Published bool      `gorm:"not null;default:false;column:published" json:"published"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`

	// Relationships
	Author *Profile `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Tags   []Tag    `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID" json:"tags,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
