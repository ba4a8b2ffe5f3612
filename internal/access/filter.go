package access

import (
	"strings"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// Field names a ticket attribute a predicate can test.
type Field string

const (
	FieldRequester Field = "requester"
	FieldAssignee  Field = "assignee"
	FieldStatus    Field = "status"
	FieldPriority  Field = "priority"
	FieldCode      Field = "code"
	FieldSubject   Field = "subject"
)

// Op is the predicate operator.
type Op string

const (
	// OpAll matches every ticket.
	OpAll Op = "all"
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	// OpIsNull matches when the field has no value.
	OpIsNull Op = "is_null"
	// OpContainsFold is a case-insensitive substring match.
	OpContainsFold Op = "contains_fold"
	// OpAny is a disjunction over Any.
	OpAny Op = "any"
)

// Predicate is a tagged condition over a single ticket.
type Predicate struct {
	Op    Op
	Field Field
	Value string
	Any   []Predicate
}

// MatchAll returns the predicate that accepts every ticket.
func MatchAll() Predicate { return Predicate{Op: OpAll} }

// Eq builds an exact-match predicate.
func Eq(field Field, value string) Predicate {
	return Predicate{Op: OpEq, Field: field, Value: value}
}

// Ne builds a not-equal predicate.
func Ne(field Field, value string) Predicate {
	return Predicate{Op: OpNe, Field: field, Value: value}
}

// IsNull builds a missing-value predicate.
func IsNull(field Field) Predicate {
	return Predicate{Op: OpIsNull, Field: field}
}

// ContainsFold builds a case-insensitive substring predicate.
func ContainsFold(field Field, value string) Predicate {
	return Predicate{Op: OpContainsFold, Field: field, Value: value}
}

// AnyOf builds a disjunction.
func AnyOf(preds ...Predicate) Predicate {
	return Predicate{Op: OpAny, Any: preds}
}

// Matches evaluates the predicate against a ticket.
func (p Predicate) Matches(t *domain.Ticket) bool {
	switch p.Op {
	case OpAll:
		return true
	case OpAny:
		for _, sub := range p.Any {
			if sub.Matches(t) {
				return true
			}
		}
		return false
	}

	value, present := fieldValue(t, p.Field)
	switch p.Op {
	case OpEq:
		return present && value == p.Value
	case OpNe:
		return !present || value != p.Value
	case OpIsNull:
		return !present
	case OpContainsFold:
		return present && strings.Contains(strings.ToLower(value), strings.ToLower(p.Value))
	}
	return false
}

func fieldValue(t *domain.Ticket, field Field) (string, bool) {
	switch field {
	case FieldRequester:
		return t.RequesterID, t.RequesterID != ""
	case FieldAssignee:
		if t.IsUnassigned() {
			return "", false
		}
		return *t.AssigneeID, true
	case FieldStatus:
		return string(t.Status), true
	case FieldPriority:
		return string(t.Priority), true
	case FieldCode:
		return t.Code, true
	case FieldSubject:
		return t.Subject, true
	}
	return "", false
}

// FilterSpec selects the tickets visible in a list view. Base carries the role
// visibility rule; every refinement narrows it: Base AND all(Refinements).
type FilterSpec struct {
	Base        Predicate
	Refinements []Predicate
}

// Matches applies the composition rule to a single ticket.
func (f FilterSpec) Matches(t *domain.Ticket) bool {
	if !f.Base.Matches(t) {
		return false
	}
	for _, r := range f.Refinements {
		if !r.Matches(t) {
			return false
		}
	}
	return true
}

// Conjuncts returns Base followed by the refinements, each to be ANDed.
func (f FilterSpec) Conjuncts() []Predicate {
	out := make([]Predicate, 0, len(f.Refinements)+1)
	out = append(out, f.Base)
	return append(out, f.Refinements...)
}

func (f *FilterSpec) refine(p Predicate) {
	f.Refinements = append(f.Refinements, p)
}
