// Package query holds the closed set of query strategies the read path can
// execute through the cache. Each strategy captures the parameters needed
// both to compute its cache key and to perform the persistence call; a
// strategy instance is built per request and executed at most once.
package query

import (
	"context"
	"strconv"

	"github.com/postline/postline/internal/cache"
	"github.com/postline/postline/internal/domain"
)

// PostsByStatus fetches the post list, optionally narrowed by publication
// status. An empty status lists every post.
type PostsByStatus struct {
	repo   domain.PostRepository
	status domain.PostStatus
}

// NewPostsByStatus builds the strategy.
func NewPostsByStatus(repo domain.PostRepository, status domain.PostStatus) PostsByStatus {
	return PostsByStatus{repo: repo, status: status}
}

// Execute performs a single round trip to the post repository.
func (s PostsByStatus) Execute(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.ListByFilter(ctx, domain.StatusEquals(s.status))
}

// KeyParams returns the ordered filter values identifying the query.
func (s PostsByStatus) KeyParams() []cache.Param {
	return []cache.Param{{Name: "status", Value: string(s.status)}}
}

// CommentsByTypeAndAuthor fetches the comment list of one author,
// optionally narrowed by comment type. An empty type lists all of the
// author's comments.
type CommentsByTypeAndAuthor struct {
	repo     domain.CommentRepository
	ctype    domain.CommentType
	authorID int64
}

// NewCommentsByTypeAndAuthor builds the strategy.
func NewCommentsByTypeAndAuthor(repo domain.CommentRepository, ctype domain.CommentType, authorID int64) CommentsByTypeAndAuthor {
	return CommentsByTypeAndAuthor{repo: repo, ctype: ctype, authorID: authorID}
}

// Execute performs a single round trip to the comment repository.
func (s CommentsByTypeAndAuthor) Execute(ctx context.Context) ([]*domain.Comment, error) {
	return s.repo.ListByAuthor(ctx, s.authorID, domain.TypeEquals(s.ctype))
}

// KeyParams returns the ordered filter values identifying the query.
// The author id participates so two users never share a comment entry.
func (s CommentsByTypeAndAuthor) KeyParams() []cache.Param {
	return []cache.Param{
		{Name: "type", Value: string(s.ctype)},
		{Name: "author", Value: strconv.FormatInt(s.authorID, 10)},
	}
}
