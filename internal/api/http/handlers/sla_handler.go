package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	"github.com/spec-kit/facility-service/internal/service"
)

// SlaHandler exposes SLA targets, pause/resume transitions, and breach
// records.
type SlaHandler struct {
	sla     *service.SlaService
	tickets *service.TicketService
	scopes  *service.ScopeService
}

// NewSlaHandler constructs handler.
func NewSlaHandler(sla *service.SlaService, tickets *service.TicketService, scopes *service.ScopeService) *SlaHandler {
	return &SlaHandler{sla: sla, tickets: tickets, scopes: scopes}
}

// ListTargets GET /tickets/:id/sla-targets.
func (h *SlaHandler) ListTargets(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	// Coverage check rides on the ticket lookup.
	ticket, err := h.tickets.GetTicket(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	targets, err := h.sla.ListTargets(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	items := make([]dto.SlaTargetResponse, 0, len(targets))
	for i := range targets {
		items = append(items, targetResponse(&targets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PauseTarget POST /sla-targets/:id/pause.
func (h *SlaHandler) PauseTarget(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	if err := h.requireTargetCoverage(c, set); err != nil {
		return err
	}
	target, err := h.sla.Pause(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": targetResponse(target)})
}

// ResumeTarget POST /sla-targets/:id/resume.
func (h *SlaHandler) ResumeTarget(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	if err := h.requireTargetCoverage(c, set); err != nil {
		return err
	}
	target, err := h.sla.Resume(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": targetResponse(target)})
}

// ListBreaches GET /sla-breaches. Without a ticket filter this is a
// platform-wide view, so platform scope is required.
func (h *SlaHandler) ListBreaches(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}

	filter := repository.BreachFilter{Limit: parseInt(c.Query("limit"), 50)}
	if ticketID := c.Query("ticket_id"); ticketID != "" {
		if _, err := h.tickets.GetTicket(c.UserContext(), set, ticketID); err != nil {
			return err
		}
		filter.TicketID = &ticketID
	} else if err := h.scopes.RequirePlatform(set); err != nil {
		return err
	}
	if notifiedStr := c.Query("notified"); notifiedStr != "" {
		notified := notifiedStr == "true"
		filter.Notified = &notified
	}

	breaches, err := h.sla.ListBreaches(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.SlaBreachResponse, 0, len(breaches))
	for i := range breaches {
		items = append(items, breachResponse(&breaches[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *SlaHandler) requireTargetCoverage(c *fiber.Ctx, set *domain.ScopeSet) error {
	ticketID, err := h.sla.TicketForTarget(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	_, err = h.tickets.GetTicket(c.UserContext(), set, ticketID)
	return err
}

func targetResponse(target *domain.SlaTarget) dto.SlaTargetResponse {
	return dto.SlaTargetResponse{
		ID:          target.ID,
		TicketID:    target.TicketID,
		Type:        target.Type,
		State:       target.State,
		DueAt:       target.DueAt,
		PausedAt:    target.PausedAt,
		SatisfiedAt: target.SatisfiedAt,
		CreatedAt:   target.CreatedAt,
		UpdatedAt:   target.UpdatedAt,
	}
}

func breachResponse(breach *domain.SlaBreach) dto.SlaBreachResponse {
	return dto.SlaBreachResponse{
		ID:         breach.ID,
		TicketID:   breach.TicketID,
		Type:       breach.Type,
		DetectedAt: breach.DetectedAt,
		DelayMs:    breach.DelayMs,
		Notified:   breach.Notified,
		CreatedAt:  breach.CreatedAt,
	}
}
