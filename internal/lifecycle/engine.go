// Package lifecycle computes the next ticket state for each trigger.
//
// Every trigger takes the current ticket by value and returns a complete next
// state; callers persist that state atomically. Nothing here performs I/O.
package lifecycle

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// Trigger names an action that drives a transition.
type Trigger string

const (
	TriggerCreate      Trigger = "create"
	TriggerPostMessage Trigger = "post_message"
	TriggerSelfAssign  Trigger = "self_assign"
	TriggerSetAssignee Trigger = "set_assignee"
	TriggerSetStatus   Trigger = "set_status"
)

// Clock returns the current time.
type Clock func() time.Time

// Engine applies triggers to tickets.
type Engine struct {
	now Clock
}

// NewEngine builds an engine; a nil clock uses time.Now in UTC.
func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{now: clock}
}

// CreateInput describes a new ticket once its category has been resolved and its
// code allocated.
type CreateInput struct {
	Code        string
	Subject     string
	Description string
	CategoryID  string
	Priority    domain.TicketPriority
}

// Transition is the outcome of a trigger.
type Transition struct {
	Trigger Trigger
	Before  domain.Ticket
	After   domain.Ticket
}

// StatusChanged reports whether the trigger moved the ticket to a new status.
func (t Transition) StatusChanged() bool {
	return t.Before.Status != t.After.Status
}

// AssigneeChanged reports whether the trigger changed ownership.
func (t Transition) AssigneeChanged() bool {
	before, after := "", ""
	if !t.Before.IsUnassigned() {
		before = *t.Before.AssigneeID
	}
	if !t.After.IsUnassigned() {
		after = *t.After.AssigneeID
	}
	return before != after
}

// ValidateCreate checks a creation request before any code is allocated, so an
// obviously invalid request does not burn a sequence value.
func ValidateCreate(actor domain.Actor, subject, description, categorySlug string, priority domain.TicketPriority) error {
	if actor.Role != domain.RoleCustomer {
		return apperrors.NewAccessDenied("only customers can create tickets")
	}
	missing := []string{}
	if strings.TrimSpace(subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(categorySlug) == "" {
		missing = append(missing, "categorySlug")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"required": missing})
	}
	if err := checkLength("subject", subject, domain.SubjectMinLen, domain.SubjectMaxLen); err != nil {
		return err
	}
	if err := checkLength("description", description, domain.DescriptionMinLen, domain.DescriptionMaxLen); err != nil {
		return err
	}
	if priority != "" && !priority.Valid() {
		return apperrors.NewValidationError("invalid priority", map[string]any{
			"field":   "priority",
			"allowed": domain.TicketPriorities,
		})
	}
	return nil
}

// Create builds the initial state of a new ticket.
func (e *Engine) Create(actor domain.Actor, input CreateInput) (domain.Ticket, error) {
	if actor.Role != domain.RoleCustomer {
		return domain.Ticket{}, apperrors.NewAccessDenied("only customers can create tickets")
	}
	if strings.TrimSpace(input.CategoryID) == "" {
		return domain.Ticket{}, apperrors.NewValidationError("category required", map[string]any{"field": "categoryId"})
	}
	if strings.TrimSpace(input.Code) == "" {
		return domain.Ticket{}, apperrors.NewValidationError("ticket code required", map[string]any{"field": "code"})
	}
	if err := checkLength("subject", input.Subject, domain.SubjectMinLen, domain.SubjectMaxLen); err != nil {
		return domain.Ticket{}, err
	}
	if err := checkLength("description", input.Description, domain.DescriptionMinLen, domain.DescriptionMaxLen); err != nil {
		return domain.Ticket{}, err
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !priority.Valid() {
		return domain.Ticket{}, apperrors.NewValidationError("invalid priority", map[string]any{"field": "priority"})
	}

	now := e.now()
	return domain.Ticket{
		Code:          input.Code,
		Subject:       strings.TrimSpace(input.Subject),
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.TicketStatusOpen,
		Priority:      priority,
		CategoryID:    input.CategoryID,
		RequesterID:   actor.ID,
		AssigneeID:    nil,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// PostMessage appends a message and applies the role-dependent side effects.
// resolvedAt and closedAt are left as they are; only SetStatus recomputes them.
func (e *Engine) PostMessage(current domain.Ticket, actor domain.Actor, body string) (Transition, domain.TicketMessage, error) {
	if !access.CanAccess(&actor, &current) {
		return Transition{}, domain.TicketMessage{}, apperrors.NewAccessDenied("you are not allowed to post in this ticket")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Transition{}, domain.TicketMessage{}, apperrors.NewValidationError("message body is required", map[string]any{"field": "body"})
	}
	if utf8.RuneCountInString(body) > domain.MessageBodyMaxLen {
		return Transition{}, domain.TicketMessage{}, apperrors.NewValidationError("message body too long", map[string]any{
			"field": "body",
			"max":   domain.MessageBodyMaxLen,
		})
	}

	now := e.now()
	next := current.Clone()
	next.LastMessageAt = now
	next.UpdatedAt = now

	switch actor.Role {
	case domain.RoleAgent:
		if next.IsUnassigned() {
			next.AssigneeID = stringPtr(actor.ID)
		}
		// A closed ticket stays closed when an agent comments.
		if next.Status != domain.TicketStatusClosed {
			next.Status = domain.TicketStatusWaitingOnCustomer
		}
	case domain.RoleCustomer:
		// A customer reply always revives the ticket, including RESOLVED and CLOSED.
		if next.IsUnassigned() {
			next.Status = domain.TicketStatusOpen
		} else {
			next.Status = domain.TicketStatusInProgress
		}
	}

	msg := domain.TicketMessage{
		TicketID:   current.ID,
		AuthorID:   actor.ID,
		Body:       body,
		IsInternal: false,
		CreatedAt:  now,
	}
	return Transition{Trigger: TriggerPostMessage, Before: current, After: next}, msg, nil
}

// SelfAssign lets an agent claim an unassigned ticket. The first claim wins.
func (e *Engine) SelfAssign(current domain.Ticket, actor domain.Actor) (Transition, error) {
	if actor.Role != domain.RoleAgent {
		return Transition{}, apperrors.NewAccessDenied("only agents can assign tickets to themselves")
	}
	if !current.IsUnassigned() {
		return Transition{}, apperrors.NewConflict("ticket is already assigned", map[string]any{"ticket_id": current.ID})
	}
	next := current.Clone()
	next.AssigneeID = stringPtr(actor.ID)
	next.Status = domain.TicketStatusInProgress
	next.UpdatedAt = e.now()
	return Transition{Trigger: TriggerSelfAssign, Before: current, After: next}, nil
}

// NormalizeAssigneeID trims raw input and maps blank values to nil.
func NormalizeAssigneeID(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SetAssignee lets an admin assign the ticket to an agent or clear the assignee.
// target is the resolved user for a non-nil assignee id, or nil to unassign.
// Status is not affected.
func (e *Engine) SetAssignee(current domain.Ticket, actor domain.Actor, target *domain.User) (Transition, error) {
	if actor.Role != domain.RoleAdmin {
		return Transition{}, apperrors.NewAccessDenied("only admins can reassign tickets")
	}
	next := current.Clone()
	if target == nil {
		next.AssigneeID = nil
	} else {
		if target.Role != domain.RoleAgent {
			return Transition{}, apperrors.NewValidationError("assignee must be an AGENT", map[string]any{
				"assignee_id": target.ID,
				"role":        target.Role,
			})
		}
		next.AssigneeID = stringPtr(target.ID)
	}
	next.UpdatedAt = e.now()
	return Transition{Trigger: TriggerSetAssignee, Before: current, After: next}, nil
}

// SetStatus applies an explicit status change by an agent or admin.
func (e *Engine) SetStatus(current domain.Ticket, actor domain.Actor, status domain.TicketStatus) (Transition, error) {
	if actor.Role != domain.RoleAgent && actor.Role != domain.RoleAdmin {
		return Transition{}, apperrors.NewAccessDenied("only agents/admins can change ticket status")
	}
	if !status.Valid() {
		return Transition{}, apperrors.NewValidationError("invalid status", map[string]any{
			"field":   "status",
			"value":   status,
			"allowed": domain.TicketStatuses,
		})
	}

	now := e.now()
	next := current.Clone()
	if status == domain.TicketStatusInProgress && next.IsUnassigned() && actor.Role == domain.RoleAgent {
		next.AssigneeID = stringPtr(actor.ID)
	}
	next.Status = status

	next.ResolvedAt = nil
	if status == domain.TicketStatusResolved {
		next.ResolvedAt = timePtr(now)
	}
	next.ClosedAt = nil
	if status == domain.TicketStatusClosed {
		next.ClosedAt = timePtr(now)
	}
	next.UpdatedAt = now
	return Transition{Trigger: TriggerSetStatus, Before: current, After: next}, nil
}

func checkLength(field, value string, lo, hi int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < lo || n > hi {
		return apperrors.NewValidationError(field+" length out of range", map[string]any{
			"field": field,
			"min":   lo,
			"max":   hi,
		})
	}
	return nil
}

func stringPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }
