package domain

// Filter is an immutable boolean predicate over entity fields, used to
// parameterize list queries. A filter constructed with an absent comparison
// value degrades to "always true" (no filtering), never to "always false".
type Filter struct {
	clauses []Clause
}

// Clause is a single column = value comparison consumable by a query builder.
type Clause struct {
	Column string
	Value  string
}

// AlwaysTrue returns a filter that matches every row.
func AlwaysTrue() Filter {
	return Filter{}
}

// StatusEquals filters posts by publication status. An empty status yields
// the always-true filter.
func StatusEquals(status PostStatus) Filter {
	if status == "" {
		return AlwaysTrue()
	}
	return Filter{clauses: []Clause{{Column: "status", Value: string(status)}}}
}

// TypeEquals filters comments by comment type. An empty type yields the
// always-true filter.
func TypeEquals(t CommentType) Filter {
	if t == "" {
		return AlwaysTrue()
	}
	return Filter{clauses: []Clause{{Column: "type", Value: string(t)}}}
}

// And combines two filters into one matching rows satisfying both.
func (f Filter) And(g Filter) Filter {
	if len(g.clauses) == 0 {
		return f
	}
	if len(f.clauses) == 0 {
		return g
	}
	merged := make([]Clause, 0, len(f.clauses)+len(g.clauses))
	merged = append(merged, f.clauses...)
	merged = append(merged, g.clauses...)
	return Filter{clauses: merged}
}

// IsSatisfied evaluates the filter into its condition form.
func (f Filter) IsSatisfied() Condition {
	return Condition{clauses: f.clauses}
}

// Condition is the evaluated form of a Filter. A condition with no clauses
// is the "always true" constant and must translate to "no WHERE clause",
// not "no results".
type Condition struct {
	clauses []Clause
}

// AlwaysTrue reports whether the condition matches every row.
func (c Condition) AlwaysTrue() bool {
	return len(c.clauses) == 0
}

// Clauses returns the comparisons to apply, in construction order.
func (c Condition) Clauses() []Clause {
	return c.clauses
}
