package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
	"github.com/helpdesk-kit/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
)

// TicketsHandler exposes ticket endpoints for every role; the service decides what each actor may do.
type TicketsHandler struct {
	service   *service.TicketService
	validator *validator.Validate
}

// NewTicketsHandler builds handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, validator: validator.New()}
}

// CreateTicket handles POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), actor, service.TicketCreateInput{
		Subject:      req.Subject,
		Description:  req.Description,
		CategorySlug: req.CategorySlug,
		Priority:     req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets handles GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var query dto.TicketListQuery
	if err := bindQuery(c, h.validator, &query); err != nil {
		return err
	}

	page := repository.Page{Limit: query.PageSize}.Normalize()
	if query.Page > 1 {
		page.Offset = (query.Page - 1) * page.Limit
	}
	tickets, err := h.service.ListTickets(c.UserContext(), actor, access.ListQuery{
		Assigned: query.Assigned,
		Status:   query.Status,
		Priority: query.Priority,
		Q:        query.Q,
	}, page)
	if err != nil {
		return err
	}

	pageNumber := query.Page
	if pageNumber < 1 {
		pageNumber = 1
	}
	return c.JSON(fiber.Map{
		"data": dto.NewTicketResponses(tickets),
		"meta": dto.PageMeta{Page: pageNumber, PageSize: page.Limit, Count: len(tickets)},
	})
}

// GetTicket handles GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListMessages handles GET /api/tickets/:id/messages.
func (h *TicketsHandler) ListMessages(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	messages, err := h.service.ListMessages(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketMessageResponses(messages)})
}

// PostMessage handles POST /api/tickets/:id/messages.
func (h *TicketsHandler) PostMessage(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.PostMessageRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	msg, ticket, err := h.service.PostMessage(c.UserContext(), actor, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.PostMessageResponse{
		Message: dto.NewTicketMessageResponse(msg),
		Ticket:  dto.NewTicketResponse(ticket),
	}})
}

// SelfAssign handles PATCH /api/tickets/:id/assign.
func (h *TicketsHandler) SelfAssign(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.SelfAssign(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// SetStatus handles PATCH /api/tickets/:id/status.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SetStatusRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	ticket, err := h.service.SetStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// SetAssignee handles PATCH /api/tickets/:id/assignee.
func (h *TicketsHandler) SetAssignee(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SetAssigneeRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	ticket, err := h.service.SetAssignee(c.UserContext(), actor, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
