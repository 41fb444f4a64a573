package domain_test

import (
	"testing"

	"github.com/postline/postline/internal/domain"
)

func TestStatusEquals_AbsentValueDegradesToAlwaysTrue(t *testing.T) {
	cond := domain.StatusEquals("").IsSatisfied()
	if !cond.AlwaysTrue() {
		t.Fatal("expected always-true condition for absent status")
	}
	if len(cond.Clauses()) != 0 {
		t.Fatal("always-true condition must carry no clauses")
	}
}

func TestTypeEquals_AbsentValueDegradesToAlwaysTrue(t *testing.T) {
	cond := domain.TypeEquals("").IsSatisfied()
	if !cond.AlwaysTrue() {
		t.Fatal("expected always-true condition for absent type")
	}
}

func TestStatusEquals_PresentValueFilters(t *testing.T) {
	cond := domain.StatusEquals(domain.StatusPublished).IsSatisfied()
	if cond.AlwaysTrue() {
		t.Fatal("expected a filtering condition")
	}

	clauses := cond.Clauses()
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Column != "status" || clauses[0].Value != "published" {
		t.Fatalf("unexpected clause: %+v", clauses[0])
	}
}

func TestAnd_MergesClausesInOrder(t *testing.T) {
	f := domain.StatusEquals(domain.StatusDraft).And(domain.TypeEquals(domain.CommentTextual))

	clauses := f.IsSatisfied().Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	if clauses[0].Column != "status" || clauses[1].Column != "type" {
		t.Fatalf("unexpected clause order: %+v", clauses)
	}
}

func TestAnd_AlwaysTrueIsIdentity(t *testing.T) {
	f := domain.StatusEquals(domain.StatusDraft)

	left := domain.AlwaysTrue().And(f)
	right := f.And(domain.AlwaysTrue())

	if len(left.IsSatisfied().Clauses()) != 1 || len(right.IsSatisfied().Clauses()) != 1 {
		t.Fatal("always-true must not contribute clauses")
	}
}
