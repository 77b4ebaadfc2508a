package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TicketsHandler manages the maintenance ticket lifecycle.
type TicketsHandler struct {
	tickets *service.TicketService
	scopes  *service.ScopeService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, scopes *service.ScopeService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, scopes: scopes}
}

// OpenTicket POST /tickets.
func (h *TicketsHandler) OpenTicket(c *fiber.Ctx) error {
	set, user, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.OpenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.SiteID == "" || req.CategoryID == "" {
		return apperrors.NewInvalidInput("site_id and category_id required", nil)
	}

	ticket, err := h.tickets.OpenTicket(c.UserContext(), set, user.ID, service.TicketCreateInput{
		SiteID:      req.SiteID,
		BuildingID:  req.BuildingID,
		CategoryID:  req.CategoryID,
		Priority:    req.Priority,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /sites/:id/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}

	var statuses []domain.TicketStatus
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			statuses = append(statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	tickets, err := h.tickets.ListTickets(c.UserContext(), set, c.Params("id"), statuses, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Acknowledge POST /tickets/:id/acknowledge.
func (h *TicketsHandler) Acknowledge(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Acknowledge(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Resolve POST /tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.ResolveTicket(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                ticket.ID,
		ExternalKey:       ticket.ExternalKey,
		CompanyID:         ticket.CompanyID,
		SiteID:            ticket.SiteID,
		BuildingID:        ticket.BuildingID,
		ContractVersionID: ticket.ContractVersionID,
		CategoryID:        ticket.CategoryID,
		TeamID:            ticket.TeamID,
		RequesterID:       ticket.RequesterID,
		Title:             ticket.Title,
		Description:       ticket.Description,
		Priority:          ticket.Priority,
		Status:            ticket.Status,
		OpenedAt:          ticket.OpenedAt,
		AcknowledgedAt:    ticket.AcknowledgedAt,
		ResolvedAt:        ticket.ResolvedAt,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}
