package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TicketService coordinates the maintenance ticket lifecycle. Opening a
// ticket pins the site's current contract version, routes a team, and fixes
// the SLA deadlines; acknowledge/resolve feed the corresponding targets.
type TicketService struct {
	tickets     repository.TicketRepository
	contracts   repository.ContractRepository
	directory   repository.DirectoryRepository
	scopeSvc    *ScopeService
	contractSvc *ContractService
	slaSvc      *SlaService
	dispatcher  events.Dispatcher
	clock       Clock
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	ContractRepo  repository.ContractRepository
	DirectoryRepo repository.DirectoryRepository
	ScopeSvc      *ScopeService
	ContractSvc   *ContractService
	SlaSvc        *SlaService
	Dispatcher    events.Dispatcher
	Clock         Clock
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	SiteID      string
	BuildingID  *string
	CategoryID  string
	Priority    domain.TicketPriority
	Title       string
	Description string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		contracts:   deps.ContractRepo,
		directory:   deps.DirectoryRepo,
		scopeSvc:    deps.ScopeSvc,
		contractSvc: deps.ContractSvc,
		slaSvc:      deps.SlaSvc,
		dispatcher:  deps.Dispatcher,
		clock:       clock,
	}
}

// OpenTicket creates a ticket against the site's active contract. The
// category must be included in the current version; the SLA targets are
// fixed from that version's terms at the opening time.
func (s *TicketService) OpenTicket(ctx context.Context, set *domain.ScopeSet, requesterID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := s.scopeSvc.RequireSite(ctx, set, input.SiteID); err != nil {
		return nil, err
	}
	site, err := s.directory.GetSite(ctx, input.SiteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("site", map[string]any{"site_id": input.SiteID})
		}
		return nil, err
	}
	if input.BuildingID != nil {
		building, err := s.directory.GetBuilding(ctx, *input.BuildingID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("building", map[string]any{"building_id": *input.BuildingID})
			}
			return nil, err
		}
		if building.SiteID != input.SiteID {
			return nil, apperrors.NewInvalidInput("building does not belong to site", map[string]any{
				"building_id": *input.BuildingID,
				"site_id":     input.SiteID,
			})
		}
	}

	contract, err := s.contracts.GetActiveContractForSite(ctx, input.SiteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("active contract for site", map[string]any{"site_id": input.SiteID})
		}
		return nil, err
	}
	version, err := s.contracts.GetLatestVersion(ctx, contract.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("contract version", map[string]any{"contract_id": contract.ID})
		}
		return nil, err
	}

	link, err := s.contracts.GetContractCategory(ctx, version.ID, input.CategoryID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewInvalidInput("category not covered by contract version", map[string]any{
				"category_id":         input.CategoryID,
				"contract_version_id": version.ID,
			})
		}
		return nil, err
	}
	if !link.Included {
		return nil, apperrors.NewInvalidInput("category excluded from contract version", map[string]any{
			"category_id":         input.CategoryID,
			"contract_version_id": version.ID,
		})
	}
	// Fail before the ticket row exists: a ticket without its targets would
	// be invisible to breach detection.
	if err := s.slaSvc.ValidateTerms(ctx, link.SLA); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}

	attrs := map[string]string{
		"category_id": input.CategoryID,
		"priority":    string(priority),
	}
	if input.BuildingID != nil {
		attrs["building_id"] = *input.BuildingID
	}
	teamID, err := s.contractSvc.RouteTicket(ctx, version.ID, attrs, input.CategoryID, input.BuildingID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ExternalKey:       generateTicketKey(),
		CompanyID:         site.CompanyID,
		SiteID:            input.SiteID,
		BuildingID:        input.BuildingID,
		ContractVersionID: version.ID,
		CategoryID:        input.CategoryID,
		TeamID:            teamID,
		RequesterID:       requesterID,
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		Priority:          priority,
		Status:            domain.TicketStatusOpen,
		OpenedAt:          s.clock.Now(),
	}
	if ticket.Title == "" {
		return nil, apperrors.NewInvalidInput("title required", nil)
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if _, err := s.slaSvc.CreateTargetsForTicket(ctx, ticket, link.SLA); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketOpened, ticket.ID, events.TicketOpenedPayload{
		SiteID:     ticket.SiteID,
		CategoryID: ticket.CategoryID,
		TeamID:     ticket.TeamID,
		Priority:   ticket.Priority,
	})
	return ticket, nil
}

// Acknowledge marks an open ticket acknowledged and feeds the ACK target.
// A late acknowledgement converts the target into a breach instead.
func (s *TicketService) Acknowledge(ctx context.Context, set *domain.ScopeSet, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getCovered(ctx, set, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusOpen {
		return nil, apperrors.NewConflict("ticket is not open", map[string]any{
			"ticket_id": ticketID,
			"status":    string(ticket.Status),
		})
	}

	// Feed the target first: a paused target rejects the event with Conflict
	// and the ticket must not change in that case.
	if _, err := s.slaSvc.Satisfy(ctx, ticket.ID, domain.SlaTargetAck); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	ticket.Status = domain.TicketStatusAcknowledged
	ticket.AcknowledgedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketAcknowledged, ticket.ID, events.TicketStatusPayload{
		Status: ticket.Status,
	})
	return ticket, nil
}

// ResolveTicket marks an acknowledged (or open) ticket resolved and feeds
// the RESOLVE target.
func (s *TicketService) ResolveTicket(ctx context.Context, set *domain.ScopeSet, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getCovered(ctx, set, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusOpen && ticket.Status != domain.TicketStatusAcknowledged {
		return nil, apperrors.NewConflict("ticket cannot be resolved in current status", map[string]any{
			"ticket_id": ticketID,
			"status":    string(ticket.Status),
		})
	}

	if _, err := s.slaSvc.Satisfy(ctx, ticket.ID, domain.SlaTargetResolve); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	ticket.Status = domain.TicketStatusResolved
	ticket.ResolvedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketResolved, ticket.ID, events.TicketStatusPayload{
		Status: ticket.Status,
	})
	return ticket, nil
}

// GetTicket fetches a ticket the caller covers.
func (s *TicketService) GetTicket(ctx context.Context, set *domain.ScopeSet, ticketID string) (*domain.Ticket, error) {
	return s.getCovered(ctx, set, ticketID)
}

// ListTickets lists tickets within the caller's scope for one site.
func (s *TicketService) ListTickets(ctx context.Context, set *domain.ScopeSet, siteID string, statuses []domain.TicketStatus, limit, offset int) ([]domain.Ticket, error) {
	if err := s.scopeSvc.RequireSite(ctx, set, siteID); err != nil {
		return nil, err
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		SiteID:   &siteID,
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *TicketService) getCovered(ctx context.Context, set *domain.ScopeSet, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	if err := s.scopeSvc.RequireSite(ctx, set, ticket.SiteID); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
}

func generateTicketKey() string {
	return fmt.Sprintf("FMT-%s", strings.ToUpper(uuid.NewString()[:8]))
}
