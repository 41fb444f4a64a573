package query_test

import (
	"context"
	"testing"

	"github.com/postline/postline/internal/domain"
	"github.com/postline/postline/internal/query"
)

type fakePostRepo struct {
	calls  int
	filter domain.Filter
	result []*domain.Post
}

func (r *fakePostRepo) Create(context.Context, domain.CreatePostInput) (int64, error) {
	panic("not used")
}

func (r *fakePostRepo) ListByFilter(_ context.Context, f domain.Filter) ([]*domain.Post, error) {
	r.calls++
	r.filter = f
	return r.result, nil
}

func (r *fakePostRepo) Update(context.Context, int64, domain.UpdatePostInput) (*domain.Post, error) {
	panic("not used")
}

func (r *fakePostRepo) Delete(context.Context, int64) error {
	panic("not used")
}

type fakeCommentRepo struct {
	authorID int64
	filter   domain.Filter
}

func (r *fakeCommentRepo) Create(context.Context, domain.CreateCommentInput) (int64, error) {
	panic("not used")
}

func (r *fakeCommentRepo) ListByAuthor(_ context.Context, authorID int64, f domain.Filter) ([]*domain.Comment, error) {
	r.authorID = authorID
	r.filter = f
	return nil, nil
}

func (r *fakeCommentRepo) Update(context.Context, int64, domain.UpdateCommentInput) (*domain.Comment, error) {
	panic("not used")
}

func (r *fakeCommentRepo) Delete(context.Context, int64) error {
	panic("not used")
}

func TestPostsByStatus_ExecuteFiltersByStatus(t *testing.T) {
	repo := &fakePostRepo{result: []*domain.Post{{ID: 1}}}
	s := query.NewPostsByStatus(repo, domain.StatusPublished)

	posts, err := s.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(posts) != 1 || repo.calls != 1 {
		t.Fatalf("expected one result from one round trip, got %d results, %d calls", len(posts), repo.calls)
	}

	clauses := repo.filter.IsSatisfied().Clauses()
	if len(clauses) != 1 || clauses[0].Column != "status" || clauses[0].Value != "published" {
		t.Fatalf("unexpected filter clauses: %+v", clauses)
	}
}

func TestPostsByStatus_EmptyStatusMeansNoFilter(t *testing.T) {
	repo := &fakePostRepo{}
	s := query.NewPostsByStatus(repo, "")

	if _, err := s.Execute(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !repo.filter.IsSatisfied().AlwaysTrue() {
		t.Fatal("empty status must degrade to the always-true filter")
	}
}

func TestPostsByStatus_KeyParams(t *testing.T) {
	s := query.NewPostsByStatus(&fakePostRepo{}, domain.StatusDraft)

	params := s.KeyParams()
	if len(params) != 1 || params[0].Name != "status" || params[0].Value != "draft" {
		t.Fatalf("unexpected key params: %+v", params)
	}
}

func TestCommentsByTypeAndAuthor_ExecutePassesAuthorAndType(t *testing.T) {
	repo := &fakeCommentRepo{}
	s := query.NewCommentsByTypeAndAuthor(repo, domain.CommentConceptual, 7)

	if _, err := s.Execute(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if repo.authorID != 7 {
		t.Fatalf("expected author 7, got %d", repo.authorID)
	}

	clauses := repo.filter.IsSatisfied().Clauses()
	if len(clauses) != 1 || clauses[0].Column != "type" || clauses[0].Value != "conceptual" {
		t.Fatalf("unexpected filter clauses: %+v", clauses)
	}
}

func TestCommentsByTypeAndAuthor_KeyParamsIncludeAuthor(t *testing.T) {
	s := query.NewCommentsByTypeAndAuthor(&fakeCommentRepo{}, domain.CommentTextual, 7)

	params := s.KeyParams()
	if len(params) != 2 {
		t.Fatalf("expected 2 key params, got %d", len(params))
	}
	if params[0].Name != "type" || params[0].Value != "textual" {
		t.Fatalf("unexpected first param: %+v", params[0])
	}
	if params[1].Name != "author" || params[1].Value != "7" {
		t.Fatalf("unexpected second param: %+v", params[1])
	}
}
