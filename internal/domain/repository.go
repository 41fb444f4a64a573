package domain

import "context"

// PostRepository defines the persistence port for posts.
// Implementations live in infrastructure/postgres.
type PostRepository interface {
	// Create inserts a new post and returns its id.
	Create(ctx context.Context, input CreatePostInput) (int64, error)

	// ListByFilter fetches posts matching the filter. An always-true filter
	// returns all posts.
	ListByFilter(ctx context.Context, f Filter) ([]*Post, error)

	// Update applies a partial update and returns the updated post.
	// Returns ErrNotFound if the post does not exist.
	Update(ctx context.Context, id int64, input UpdatePostInput) (*Post, error)

	// Delete removes a post. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines the persistence port for comments.
type CommentRepository interface {
	// Create inserts a new comment and returns its id.
	Create(ctx context.Context, input CreateCommentInput) (int64, error)

	// ListByAuthor fetches comments written by the author, narrowed by the
	// filter. An always-true filter returns all of the author's comments.
	ListByAuthor(ctx context.Context, authorID int64, f Filter) ([]*Comment, error)

	// Update applies a partial update and returns the updated comment.
	// Returns ErrNotFound if the comment does not exist.
	Update(ctx context.Context, id int64, input UpdateCommentInput) (*Comment, error)

	// Delete removes a comment. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

// FollowerRepository defines the persistence port for the follow graph.
type FollowerRepository interface {
	// Follow records that follower now follows followee (both by username).
	Follow(ctx context.Context, follower, followee string) error

	// Unfollow removes the follow edge.
	Unfollow(ctx context.Context, follower, followee string) error

	// FollowerEmails returns the emails of everyone following the given
	// user, ordered by follower id so fan-out events are deterministic.
	FollowerEmails(ctx context.Context, userID int64) ([]string, error)
}
