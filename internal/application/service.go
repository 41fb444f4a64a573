// Package application orchestrates the blogging use-cases: the cache-backed
// read path for posts and comments, the write path, and the notification
// fan-out triggered by post creation.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/postline/postline/internal/cache"
	"github.com/postline/postline/internal/domain"
	"github.com/postline/postline/internal/query"
)

const publishTimeout = 15 * time.Second

// EventPublisher is the port to the notification queue. The Kafka
// implementation lives in internal/notify.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.NotificationEvent) error
}

// Service holds all blogging use-cases.
type Service struct {
	posts     domain.PostRepository
	comments  domain.CommentRepository
	followers domain.FollowerRepository
	cache     *cache.Client
	publisher EventPublisher
}

// NewService creates a new application Service.
func NewService(
	posts domain.PostRepository,
	comments domain.CommentRepository,
	followers domain.FollowerRepository,
	cacheClient *cache.Client,
	publisher EventPublisher,
) *Service {
	return &Service{
		posts:     posts,
		comments:  comments,
		followers: followers,
		cache:     cacheClient,
		publisher: publisher,
	}
}

// CreatePost inserts the post and emits exactly one notification event for
// it. The publish happens on a background goroutine so the HTTP response
// does not wait on queue I/O.
func (s *Service) CreatePost(ctx context.Context, input domain.CreatePostInput) (int64, error) {
	if input.Status == "" {
		input.Status = domain.StatusPublished
	}
	if input.CommentPolicy == "" {
		input.CommentPolicy = domain.CommentsOpen
	}
	if input.Type == "" {
		input.Type = domain.PostEntertainment
	}

	id, err := s.posts.Create(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}

	emails, err := s.followers.FollowerEmails(ctx, input.AuthorID)
	if err != nil {
		// The post exists; the notification cannot be built without the
		// recipient list, so it is skipped rather than failing the request.
		log.Error().Err(err).Int64("author_id", input.AuthorID).Msg("follower lookup failed, notification skipped")
		return id, nil
	}

	ev := domain.NotificationEvent{
		EventID:         uuid.NewString(),
		ActorID:         input.AuthorID,
		SubjectID:       id,
		RecipientEmails: emails,
	}
	go s.publish(ev)

	return id, nil
}

// publish runs detached from the request with its own deadline.
func (s *Service) publish(ev domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Error().Err(err).
			Str("event_id", ev.EventID).
			Int64("actor_id", ev.ActorID).
			Int64("subject_id", ev.SubjectID).
			Msg("notification publish failed")
	}
}

// ListPosts serves the post list through the read-through cache. If the
// backing store is unreachable the strategy is executed directly; reads
// never fail because the cache is down.
func (s *Service) ListPosts(ctx context.Context, status domain.PostStatus) ([]*domain.Post, error) {
	strategy := query.NewPostsByStatus(s.posts, status)

	posts, err := cache.GetOrCompute(ctx, s.cache, "posts", strategy)
	if errors.Is(err, cache.ErrStoreUnavailable) {
		log.Warn().Err(err).Msg("cache store unavailable, serving posts directly")
		return strategy.Execute(ctx)
	}
	return posts, err
}

// ChangePost applies a partial update.
func (s *Service) ChangePost(ctx context.Context, id int64, input domain.UpdatePostInput) (*domain.Post, error) {
	return s.posts.Update(ctx, id, input)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	return s.posts.Delete(ctx, id)
}

// CreateComment inserts a new comment.
func (s *Service) CreateComment(ctx context.Context, input domain.CreateCommentInput) (int64, error) {
	if input.Type == "" {
		input.Type = domain.CommentTextual
	}
	id, err := s.comments.Create(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("create comment: %w", err)
	}
	return id, nil
}

// ListComments serves the author's comment list through the read-through
// cache, with the same store-unavailable fallback as ListPosts.
func (s *Service) ListComments(ctx context.Context, ctype domain.CommentType, authorID int64) ([]*domain.Comment, error) {
	strategy := query.NewCommentsByTypeAndAuthor(s.comments, ctype, authorID)

	comments, err := cache.GetOrCompute(ctx, s.cache, "comments", strategy)
	if errors.Is(err, cache.ErrStoreUnavailable) {
		log.Warn().Err(err).Msg("cache store unavailable, serving comments directly")
		return strategy.Execute(ctx)
	}
	return comments, err
}

// ChangeComment applies a partial update.
func (s *Service) ChangeComment(ctx context.Context, id int64, input domain.UpdateCommentInput) (*domain.Comment, error) {
	return s.comments.Update(ctx, id, input)
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	return s.comments.Delete(ctx, id)
}

// Follow records that follower now follows followee.
func (s *Service) Follow(ctx context.Context, follower, followee string) error {
	return s.followers.Follow(ctx, follower, followee)
}

// Unfollow removes the follow edge.
func (s *Service) Unfollow(ctx context.Context, follower, followee string) error {
	return s.followers.Unfollow(ctx, follower, followee)
}
