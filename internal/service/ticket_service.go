package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/lifecycle"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/sequence"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

const bodyPreviewLen = 140

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	messages    repository.TicketMessageRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	sequence    *sequence.Generator
	engine      *lifecycle.Engine
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	codePrefix  string
	counterName string
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	Sequence     *sequence.Generator
	Engine       *lifecycle.Engine
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	CodePrefix   string
	CounterName  string
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject      string
	Description  string
	CategorySlug string
	Priority     domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:     deps.TicketRepo,
		messages:    deps.MessageRepo,
		categories:  deps.CategoryRepo,
		users:       deps.UserRepo,
		sequence:    deps.Sequence,
		engine:      deps.Engine,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		codePrefix:  deps.CodePrefix,
		counterName: deps.CounterName,
	}
	if s.engine == nil {
		s.engine = lifecycle.NewEngine(nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.codePrefix == "" {
		s.codePrefix = "TCK"
	}
	if s.counterName == "" {
		s.counterName = sequence.TicketCounter
	}
	return s
}

// CreateTicket files a new ticket on behalf of a customer.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if err := lifecycle.ValidateCreate(actor, input.Subject, input.Description, input.CategorySlug, input.Priority); err != nil {
		return nil, err
	}

	category, err := s.categories.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(input.CategorySlug)))
	if err != nil {
		return nil, notFoundOr(err, "category", map[string]any{"category_slug": input.CategorySlug})
	}

	seq, err := s.sequence.Next(ctx, s.counterName)
	if err != nil {
		return nil, err
	}

	ticket, err := s.engine.Create(actor, lifecycle.CreateInput{
		Code:        sequence.Format(s.codePrefix, seq),
		Subject:     input.Subject,
		Description: input.Description,
		CategoryID:  category.ID,
		Priority:    input.Priority,
	})
	if err != nil {
		return nil, err
	}
	ticket.ID = uuid.NewString()

	if err := s.tickets.Create(ctx, &ticket); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("ticket code already in use", map[string]any{"code": ticket.Code})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventTicketCreated, &ticket, actor, events.TicketCreatedPayload{
		Code:       ticket.Code,
		CategoryID: ticket.CategoryID,
		Priority:   ticket.Priority,
		Subject:    ticket.Subject,
	})
	return &ticket, nil
}

// ListFilter exposes the visibility filter used by ListTickets.
func (s *TicketService) ListFilter(actor domain.Actor, query access.ListQuery) (*access.FilterSpec, error) {
	spec, ok := access.ListFilter(&actor, query)
	if !ok {
		return nil, apperrors.NewAccessDenied("access denied")
	}
	return spec, nil
}

// ListTickets returns the tickets visible to actor, most recent activity first.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, query access.ListQuery, page repository.Page) ([]domain.Ticket, error) {
	spec, err := s.ListFilter(actor, query)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx, *spec, page)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// GetTicket loads a ticket the actor may access.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(&actor, ticket) {
		return nil, apperrors.NewAccessDenied("access denied")
	}
	return ticket, nil
}

// ListMessages returns the ticket thread oldest first.
func (s *TicketService) ListMessages(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.TicketMessage, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(&actor, ticket) {
		return nil, apperrors.NewAccessDenied("you are not allowed to view these messages")
	}
	messages, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return messages, nil
}

// PostMessage appends a message to the thread and applies its lifecycle effects.
func (s *TicketService) PostMessage(ctx context.Context, actor domain.Actor, ticketID, body string) (*domain.TicketMessage, *domain.Ticket, error) {
	if err := validateTicketID(ticketID); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, nil, apperrors.NewValidationError("message body is required", map[string]any{"field": "body"})
	}
	current, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}

	transition, msg, err := s.engine.PostMessage(*current, actor, body)
	if err != nil {
		return nil, nil, err
	}
	msg.ID = uuid.NewString()
	next := transition.After

	if err := s.tickets.AppendMessage(ctx, &next, current.Version, &msg); err != nil {
		return nil, nil, s.writeError(err, current.ID)
	}
	transition.After = next

	s.publish(ctx, events.EventTicketMessagePosted, &next, actor, events.TicketMessagePostedPayload{
		MessageID:   msg.ID,
		BodyPreview: preview(msg.Body),
	})
	s.publishTransition(ctx, transition, actor)
	return &msg, &next, nil
}

// SelfAssign lets an agent claim an unassigned ticket.
func (s *TicketService) SelfAssign(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	if actor.Role != domain.RoleAgent {
		return nil, apperrors.NewAccessDenied("only agents can assign tickets to themselves")
	}
	current, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	transition, err := s.engine.SelfAssign(*current, actor)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, current, transition, actor)
}

// SetAssignee lets an admin assign an agent or clear the assignee. A nil or blank
// assigneeID unassigns the ticket.
func (s *TicketService) SetAssignee(ctx context.Context, actor domain.Actor, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewAccessDenied("only admins can reassign tickets")
	}
	if err := validateTicketID(ticketID); err != nil {
		return nil, err
	}

	var target *domain.User
	if id := lifecycle.NormalizeAssigneeID(assigneeID); id != nil {
		if _, err := uuid.Parse(*id); err != nil {
			return nil, apperrors.NewValidationError("invalid assignee id", map[string]any{"assignee_id": *id})
		}
		user, err := s.users.GetByID(ctx, *id)
		if err != nil {
			return nil, notFoundOr(err, "assignee user", map[string]any{"assignee_id": *id})
		}
		target = user
	}

	current, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	transition, err := s.engine.SetAssignee(*current, actor, target)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, current, transition, actor)
}

// SetStatus applies an explicit status change by an agent or admin.
func (s *TicketService) SetStatus(ctx context.Context, actor domain.Actor, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if actor.Role != domain.RoleAgent && actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewAccessDenied("only agents/admins can change ticket status")
	}
	if err := validateTicketID(ticketID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{
			"field":   "status",
			"value":   status,
			"allowed": domain.TicketStatuses,
		})
	}
	current, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	transition, err := s.engine.SetStatus(*current, actor, status)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, current, transition, actor)
}

func (s *TicketService) commit(ctx context.Context, current *domain.Ticket, transition lifecycle.Transition, actor domain.Actor) (*domain.Ticket, error) {
	next := transition.After
	if err := s.tickets.Update(ctx, &next, current.Version); err != nil {
		return nil, s.writeError(err, current.ID)
	}
	transition.After = next
	s.publishTransition(ctx, transition, actor)
	return &next, nil
}

func (s *TicketService) load(ctx context.Context, rawID string) (*domain.Ticket, error) {
	ticketID, err := parseTicketID(rawID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

func (s *TicketService) writeError(err error, ticketID string) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return apperrors.NewConflict("ticket was modified concurrently", map[string]any{"ticket_id": ticketID})
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict("duplicate key", map[string]any{"ticket_id": ticketID})
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.NewInternalError(err)
}

func (s *TicketService) publishTransition(ctx context.Context, transition lifecycle.Transition, actor domain.Actor) {
	if transition.AssigneeChanged() {
		s.publish(ctx, events.EventTicketAssigned, &transition.After, actor, events.TicketAssignedPayload{
			PreviousAssigneeID: transition.Before.AssigneeID,
			AssigneeID:         transition.After.AssigneeID,
		})
	}
	if transition.StatusChanged() {
		s.publish(ctx, events.EventTicketStatusChanged, &transition.After, actor, events.TicketStatusChangedPayload{
			OldStatus: transition.Before.Status,
			NewStatus: transition.After.Status,
			Trigger:   string(transition.Trigger),
		})
	}
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticket *domain.Ticket, actor domain.Actor, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
	}
}

func validateTicketID(id string) error {
	_, err := parseTicketID(id)
	return err
}

// parseTicketID returns the canonical form of a ticket id as stored.
func parseTicketID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", apperrors.NewValidationError("invalid ticket id", map[string]any{"ticket_id": id})
	}
	return parsed.String(), nil
}

// notFoundOr maps repository.ErrNotFound to a NotFound error for resource and
// anything else to Internal.
func notFoundOr(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.NewInternalError(err)
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= bodyPreviewLen {
		return body
	}
	return string([]rune(body)[:bodyPreviewLen]) + "…"
}
