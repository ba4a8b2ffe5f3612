// Package access decides which tickets an actor may see or act on.
// Nothing here performs I/O or mutates its inputs.
package access

import (
	"strings"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// Recognized values of ListQuery.Assigned.
const (
	AssignedMe         = "me"
	AssignedUnassigned = "unassigned"
)

// Sentinels accepted by ListQuery.Status and ListQuery.Priority.
const (
	StatusAll             = "ALL"
	StatusAllExceptClosed = "ALL_EXCEPT_CLOSED"
	PriorityAll           = "ALL"
)

// ListQuery carries the optional list narrowing parameters.
type ListQuery struct {
	Assigned string
	Status   string
	Priority string
	Q        string
}

// CanAccess reports whether actor may view the ticket and post to its thread.
// Only the actor's role and id and the ticket's requester and assignee are consulted.
func CanAccess(actor *domain.Actor, ticket *domain.Ticket) bool {
	if actor == nil || ticket == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return ticket.RequesterID != "" && ticket.RequesterID == actor.ID
	case domain.RoleAgent:
		return ticket.IsAssignedTo(actor.ID) || ticket.IsUnassigned()
	}
	return false
}

// ListFilter builds the visibility filter for a ticket list. ok is false when the
// actor's role may not list tickets at all.
func ListFilter(actor *domain.Actor, query ListQuery) (spec *FilterSpec, ok bool) {
	if actor == nil {
		return nil, false
	}

	spec = &FilterSpec{}
	assigned := strings.TrimSpace(query.Assigned)

	switch actor.Role {
	case domain.RoleCustomer:
		spec.Base = Eq(FieldRequester, actor.ID)
	case domain.RoleAdmin:
		if assigned == AssignedUnassigned {
			spec.Base = IsNull(FieldAssignee)
		} else {
			spec.Base = MatchAll()
		}
	case domain.RoleAgent:
		switch assigned {
		case AssignedMe:
			spec.Base = Eq(FieldAssignee, actor.ID)
		case AssignedUnassigned:
			spec.Base = IsNull(FieldAssignee)
		default:
			spec.Base = AnyOf(Eq(FieldAssignee, actor.ID), IsNull(FieldAssignee))
		}
	default:
		return nil, false
	}

	if status := strings.TrimSpace(query.Status); status != "" {
		switch status {
		case StatusAll:
		case StatusAllExceptClosed:
			spec.refine(Ne(FieldStatus, string(domain.TicketStatusClosed)))
		default:
			spec.refine(Eq(FieldStatus, status))
		}
	}

	if priority := strings.TrimSpace(query.Priority); priority != "" && priority != PriorityAll {
		spec.refine(Eq(FieldPriority, priority))
	}

	if text := strings.TrimSpace(query.Q); text != "" {
		spec.refine(AnyOf(ContainsFold(FieldCode, text), ContainsFold(FieldSubject, text)))
	}

	return spec, true
}
