package domain

import "time"

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	StatusPublished PostStatus = "published"
	StatusFuture    PostStatus = "future"
	StatusDraft     PostStatus = "draft"
	StatusPending   PostStatus = "pending"
	StatusPrivate   PostStatus = "private"
	StatusTrash     PostStatus = "trash"
)

// Valid reports whether the status is one of the known publication states.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusPublished, StatusFuture, StatusDraft, StatusPending, StatusPrivate, StatusTrash:
		return true
	}
	return false
}

// CommentPolicy controls whether a post accepts new comments.
type CommentPolicy string

const (
	CommentsOpen     CommentPolicy = "open"
	CommentsPending  CommentPolicy = "pending"
	CommentsApproved CommentPolicy = "approved"
)

// PostType categorizes the editorial intent of a post.
type PostType string

const (
	PostSeller        PostType = "seller"
	PostInformation   PostType = "information"
	PostEngaging      PostType = "engaging"
	PostEntertainment PostType = "entertainment"
	PostEducational   PostType = "educational"
	PostCustom        PostType = "custom"
)

// Post is the core blogging entity.
type Post struct {
	ID            int64         `json:"id"`
	Date          time.Time     `json:"date"`
	Modified      time.Time     `json:"modified"`
	Name          string        `json:"name"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	Status        PostStatus    `json:"status"`
	CommentPolicy CommentPolicy `json:"comment_policy"`
	Type          PostType      `json:"type"`
	CommentCount  int           `json:"comment_count"`
	AuthorID      int64         `json:"author_id"`
}

// CreatePostInput carries the fields needed to insert a new post.
type CreatePostInput struct {
	Name          string
	Content       string
	Excerpt       string
	Status        PostStatus
	CommentPolicy CommentPolicy
	Type          PostType
	AuthorID      int64
}

// UpdatePostInput carries a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Name    *string
	Content *string
	Excerpt *string
	Status  *PostStatus
}
