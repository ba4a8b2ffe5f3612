package repository

import (
	"fmt"
	"strings"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
)

// Placeholder renders the bind marker for the n-th (1-based) argument.
type Placeholder func(n int) string

// DollarPlaceholder renders Postgres-style $n markers.
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// QuestionPlaceholder renders ? markers.
func QuestionPlaceholder(int) string { return "?" }

// Dialect carries the SQL differences the filter compiler cares about. Lower
// must fold case the same way strings.ToLower does.
type Dialect struct {
	Placeholder Placeholder
	Lower       string
}

// PostgresDialect targets Postgres, whose LOWER is Unicode-aware.
var PostgresDialect = Dialect{Placeholder: DollarPlaceholder, Lower: "LOWER"}

var ticketColumns = map[access.Field]string{
	access.FieldRequester: "requester_id",
	access.FieldAssignee:  "assignee_id",
	access.FieldStatus:    "status",
	access.FieldPriority:  "priority",
	access.FieldCode:      "code",
	access.FieldSubject:   "subject",
}

// CompileTicketFilter turns a FilterSpec into a WHERE clause body and its
// arguments. The base predicate and every refinement are joined with AND;
// disjunctions are always parenthesized so they cannot leak into siblings.
func CompileTicketFilter(spec access.FilterSpec, dialect Dialect, argOffset int) (string, []any, error) {
	lower := dialect.Lower
	if lower == "" {
		lower = "LOWER"
	}
	c := &filterCompiler{ph: dialect.Placeholder, lower: lower, argOffset: argOffset}
	conjuncts := spec.Conjuncts()
	clauses := make([]string, 0, len(conjuncts))
	for _, p := range conjuncts {
		clause, err := c.predicate(p)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
	}
	return strings.Join(clauses, " AND "), c.args, nil
}

type filterCompiler struct {
	ph        Placeholder
	lower     string
	argOffset int
	args      []any
}

func (c *filterCompiler) bind(v any) string {
	c.args = append(c.args, v)
	return c.ph(c.argOffset + len(c.args))
}

func (c *filterCompiler) predicate(p access.Predicate) (string, error) {
	switch p.Op {
	case access.OpAll:
		return "1=1", nil
	case access.OpAny:
		if len(p.Any) == 0 {
			return "1=0", nil
		}
		parts := make([]string, 0, len(p.Any))
		for _, sub := range p.Any {
			clause, err := c.predicate(sub)
			if err != nil {
				return "", err
			}
			parts = append(parts, clause)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	}

	column, ok := ticketColumns[p.Field]
	if !ok {
		return "", fmt.Errorf("unsupported filter field %q", p.Field)
	}
	switch p.Op {
	case access.OpEq:
		return fmt.Sprintf("%s = %s", column, c.bind(p.Value)), nil
	case access.OpNe:
		return fmt.Sprintf("(%s IS NULL OR %s <> %s)", column, column, c.bind(p.Value)), nil
	case access.OpIsNull:
		return fmt.Sprintf("%s IS NULL", column), nil
	case access.OpContainsFold:
		pattern := "%" + escapeLike(strings.ToLower(p.Value)) + "%"
		return fmt.Sprintf(`%s(%s) LIKE %s ESCAPE '\'`, c.lower, column, c.bind(pattern)), nil
	}
	return "", fmt.Errorf("unsupported filter operator %q", p.Op)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
