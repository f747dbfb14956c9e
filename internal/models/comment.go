package models

import (
	"time"
)

// Comment represents a comment on a post. Comments are immutable after
// creation except for deletion.
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index;column:post_id" json:"post_id"`
	AuthorID  string    `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Author *Profile `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
