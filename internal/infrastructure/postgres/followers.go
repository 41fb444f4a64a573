package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postline/postline/internal/domain"
)

// FollowerRepository is the PostgreSQL implementation of domain.FollowerRepository.
// The follow graph lives in user_following(user_id, following_id), where
// user_id follows following_id.
type FollowerRepository struct {
	pool *pgxpool.Pool
}

// NewFollowerRepository creates a postgres FollowerRepository.
func NewFollowerRepository(pool *pgxpool.Pool) *FollowerRepository {
	return &FollowerRepository{pool: pool}
}

// Follow records a follow edge between two usernames. Following someone
// twice is a no-op.
func (r *FollowerRepository) Follow(ctx context.Context, follower, followee string) error {
	followerID, err := r.userID(ctx, follower)
	if err != nil {
		return err
	}
	followeeID, err := r.userID(ctx, followee)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_following (user_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return wrapPgError("insert follow edge", err)
	}
	return nil
}

// Unfollow removes a follow edge between two usernames.
func (r *FollowerRepository) Unfollow(ctx context.Context, follower, followee string) error {
	followerID, err := r.userID(ctx, follower)
	if err != nil {
		return err
	}
	followeeID, err := r.userID(ctx, followee)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM user_following WHERE user_id = $1 AND following_id = $2
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("follow edge %s -> %s: %w", follower, followee, domain.ErrNotFound)
	}
	return nil
}

// FollowerEmails returns the emails of everyone following the given user,
// ordered by follower id.
func (r *FollowerRepository) FollowerEmails(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.email
		FROM users u
		JOIN user_following uf ON uf.user_id = u.id
		WHERE uf.following_id = $1
		ORDER BY u.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list follower emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan follower email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *FollowerRepository) userID(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("lookup user %q: %w", username, err)
	}
	return id, nil
}
