package dto

import (
	"time"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. Required fields and bounds are enforced by the lifecycle engine
// so that every missing field is reported at once.
type CreateTicketRequest struct {
	Subject      string                `json:"subject"`
	Description  string                `json:"description"`
	CategorySlug string                `json:"categorySlug"`
	Priority     domain.TicketPriority `json:"priority"`
}

// TicketListQuery captures list narrowing and paging parameters. Unrecognized
// assigned values fall back to the caller's default view.
type TicketListQuery struct {
	Assigned string `query:"assigned"`
	Status   string `query:"status"`
	Priority string `query:"priority"`
	Q        string `query:"q" validate:"max=200"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// PostMessageRequest payload.
type PostMessageRequest struct {
	Body string `json:"body"`
}

// SetStatusRequest payload. The status is checked after the caller's role.
type SetStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// SetAssigneeRequest payload. A null or blank assigneeId unassigns the ticket.
type SetAssigneeRequest struct {
	AssigneeID *string `json:"assigneeId"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID            string                `json:"id"`
	Code          string                `json:"code"`
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	CategoryID    string                `json:"categoryId"`
	RequesterID   string                `json:"requesterId"`
	AssigneeID    *string               `json:"assigneeId"`
	LastMessageAt time.Time             `json:"lastMessageAt"`
	ResolvedAt    *time.Time            `json:"resolvedAt"`
	ClosedAt      *time.Time            `json:"closedAt"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// TicketMessageResponse represents thread message.
type TicketMessageResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticketId"`
	AuthorID   string    `json:"authorId"`
	Body       string    `json:"body"`
	IsInternal bool      `json:"isInternal"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PostMessageResponse returns the stored message with the ticket it updated.
type PostMessageResponse struct {
	Message TicketMessageResponse `json:"message"`
	Ticket  TicketResponse        `json:"ticket"`
}

// PageMeta echoes the effective paging window.
type PageMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Count    int `json:"count"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            t.ID,
		Code:          t.Code,
		Subject:       t.Subject,
		Description:   t.Description,
		Status:        t.Status,
		Priority:      t.Priority,
		CategoryID:    t.CategoryID,
		RequesterID:   t.RequesterID,
		AssigneeID:    t.AssigneeID,
		LastMessageAt: t.LastMessageAt,
		ResolvedAt:    t.ResolvedAt,
		ClosedAt:      t.ClosedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// NewTicketResponses maps a page of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewTicketMessageResponse maps a thread entry.
func NewTicketMessageResponse(m *domain.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:         m.ID,
		TicketID:   m.TicketID,
		AuthorID:   m.AuthorID,
		Body:       m.Body,
		IsInternal: m.IsInternal,
		CreatedAt:  m.CreatedAt,
	}
}

// NewTicketMessageResponses maps a thread.
func NewTicketMessageResponses(messages []domain.TicketMessage) []TicketMessageResponse {
	out := make([]TicketMessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewTicketMessageResponse(&messages[i]))
	}
	return out
}
