package models

// Tag represents a post tag. Names are unique, trimmed and lower-cased at
// write time.
type Tag struct {
	ID   string `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Name string `gorm:"type:varchar(64);not null;uniqueIndex:tags_name_ux;column:name" json:"name"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// PostTag represents a post-to-tag association. The (post_id, tag_id) pair
// is unique; duplicate association attempts are no-ops.
type PostTag struct {
	PostID string `gorm:"type:uuid;primaryKey;column:post_id" json:"post_id"`
	TagID  string `gorm:"type:uuid;primaryKey;column:tag_id" json:"tag_id"`
}

// TableName specifies the table name for PostTag
func (PostTag) TableName() string {
	return "post_tags"
}
