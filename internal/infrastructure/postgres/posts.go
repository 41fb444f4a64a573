package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postline/postline/internal/domain"
)

const postColumns = "id, date, modified, name, content, excerpt, status, comment_policy, type, comment_count, author_id"

// PostRepository is the PostgreSQL implementation of domain.PostRepository.
type PostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a postgres PostRepository.
func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create inserts a new post and returns its id.
func (r *PostRepository) Create(ctx context.Context, input domain.CreatePostInput) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO posts (name, content, excerpt, status, comment_policy, type, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, input.Name, input.Content, input.Excerpt, string(input.Status),
		string(input.CommentPolicy), string(input.Type), input.AuthorID).Scan(&id)
	if err != nil {
		return 0, wrapPgError("insert post", err)
	}
	return id, nil
}

// ListByFilter fetches posts matching the filter, oldest first.
func (r *PostRepository) ListByFilter(ctx context.Context, f domain.Filter) ([]*domain.Post, error) {
	query := "SELECT " + postColumns + " FROM posts"
	var args []any

	cond := f.IsSatisfied()
	if !cond.AlwaysTrue() {
		for i, clause := range cond.Clauses() {
			if i == 0 {
				query += fmt.Sprintf(" WHERE %s = $%d", clause.Column, i+1)
			} else {
				query += fmt.Sprintf(" AND %s = $%d", clause.Column, i+1)
			}
			args = append(args, clause.Value)
		}
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var results []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// Update applies the non-nil fields and bumps the modified timestamp.
func (r *PostRepository) Update(ctx context.Context, id int64, input domain.UpdatePostInput) (*domain.Post, error) {
	query := "UPDATE posts SET modified = now()"
	var args []any
	paramIdx := 1

	appendSet := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, paramIdx)
		args = append(args, value)
		paramIdx++
	}

	if input.Name != nil {
		appendSet("name", *input.Name)
	}
	if input.Content != nil {
		appendSet("content", *input.Content)
	}
	if input.Excerpt != nil {
		appendSet("excerpt", *input.Excerpt)
	}
	if input.Status != nil {
		appendSet("status", string(*input.Status))
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", paramIdx, postColumns)
	args = append(args, id)

	p, err := scanPost(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update post %d: %w", id, domain.ErrNotFound)
		}
		return nil, wrapPgError("update post", err)
	}
	return p, nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete post %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanPost(row scannable) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.ID, &p.Date, &p.Modified, &p.Name, &p.Content, &p.Excerpt,
		&p.Status, &p.CommentPolicy, &p.Type, &p.CommentCount, &p.AuthorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}
