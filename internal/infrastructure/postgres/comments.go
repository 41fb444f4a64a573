package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postline/postline/internal/domain"
)

const commentColumns = "id, date, karma, content, approved, type, author_id, post_id"

// CommentRepository is the PostgreSQL implementation of domain.CommentRepository.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a postgres CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a new comment and returns its id.
func (r *CommentRepository) Create(ctx context.Context, input domain.CreateCommentInput) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO comments (karma, content, type, author_id, post_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, input.Karma, input.Content, string(input.Type), input.AuthorID, input.PostID).Scan(&id)
	if err != nil {
		return 0, wrapPgError("insert comment", err)
	}
	return id, nil
}

// ListByAuthor fetches the author's comments narrowed by the filter.
func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID int64, f domain.Filter) ([]*domain.Comment, error) {
	query := "SELECT " + commentColumns + " FROM comments WHERE author_id = $1"
	args := []any{authorID}
	paramIdx := 2

	for _, clause := range f.IsSatisfied().Clauses() {
		query += fmt.Sprintf(" AND %s = $%d", clause.Column, paramIdx)
		args = append(args, clause.Value)
		paramIdx++
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var results []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Update applies the non-nil fields.
func (r *CommentRepository) Update(ctx context.Context, id int64, input domain.UpdateCommentInput) (*domain.Comment, error) {
	var sets []string
	var args []any
	paramIdx := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, paramIdx))
		args = append(args, value)
		paramIdx++
	}

	if input.Karma != nil {
		appendSet("karma", *input.Karma)
	}
	if input.Content != nil {
		appendSet("content", *input.Content)
	}
	if input.Approved != nil {
		appendSet("approved", *input.Approved)
	}

	var query string
	if len(sets) == 0 {
		query = fmt.Sprintf("SELECT %s FROM comments WHERE id = $1", commentColumns)
	} else {
		query = fmt.Sprintf("UPDATE comments SET %s WHERE id = $%d RETURNING %s",
			strings.Join(sets, ", "), paramIdx, commentColumns)
	}
	args = append(args, id)

	c, err := scanComment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update comment %d: %w", id, domain.ErrNotFound)
		}
		return nil, wrapPgError("update comment", err)
	}
	return c, nil
}

// Delete removes a comment.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete comment %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanComment(row scannable) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID, &c.Date, &c.Karma, &c.Content, &c.Approved,
		&c.Type, &c.AuthorID, &c.PostID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &c, nil
}
