package models

import (
	"time"

	"github.com/lib/pq"
)

// PostStatus controls visibility of a content post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid post categories.
var PostCategories = []string{"Academic", "Sports", "Event", "Announcement", "Urgent", "General"}

// Post is a published content article on the school site.
type Post struct {
	ID        string         `db:"id" json:"id"`
	Title     string         `db:"title" json:"title"`
	Content   string         `db:"content" json:"content"`
	Category  string         `db:"category" json:"category"`
	Author    string         `db:"author" json:"author"`
	AuthorID  string         `db:"author_id" json:"author_id"`
	Excerpt   *string        `db:"excerpt" json:"excerpt,omitempty"`
	Status    PostStatus     `db:"status" json:"status"`
	Tags      pq.StringArray `db:"tags" json:"tags"`
	ImageURL  *string        `db:"image_url" json:"image_url,omitempty"`
	ReadTime  int            `db:"read_time" json:"read_time"`
	Views     int            `db:"views" json:"views"`
	Likes     pq.StringArray `db:"likes" json:"likes"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// PostFilter captures listing criteria for posts.
type PostFilter struct {
	Category string
	Status   *PostStatus
	Search   string
	Page     int
	PageSize int
}
