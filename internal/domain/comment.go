package domain

import "time"

// CommentType distinguishes the flavor of a comment.
type CommentType string

const (
	CommentTextual    CommentType = "textual"
	CommentConceptual CommentType = "conceptual"
)

// Valid reports whether the type is a known comment type.
func (t CommentType) Valid() bool {
	return t == CommentTextual || t == CommentConceptual
}

// Comment is a reader reaction attached to a post.
type Comment struct {
	ID       int64       `json:"id"`
	Date     time.Time   `json:"date"`
	Karma    int         `json:"karma"`
	Content  string      `json:"content"`
	Approved bool        `json:"approved"`
	Type     CommentType `json:"type"`
	AuthorID int64       `json:"author_id"`
	PostID   int64       `json:"post_id"`
}

// CreateCommentInput carries the fields needed to insert a new comment.
type CreateCommentInput struct {
	Karma    int
	Content  string
	Type     CommentType
	AuthorID int64
	PostID   int64
}

// UpdateCommentInput carries a partial update; nil fields are left unchanged.
type UpdateCommentInput struct {
	Karma    *int
	Content  *string
	Approved *bool
}
