package dto

import (
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// OpenTicketRequest payload.
type OpenTicketRequest struct {
	SiteID      string                `json:"site_id"`
	BuildingID  *string               `json:"building_id,omitempty"`
	CategoryID  string                `json:"category_id"`
	Priority    domain.TicketPriority `json:"priority"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
}

// TicketResponse representation.
type TicketResponse struct {
	ID                string                `json:"id"`
	ExternalKey       string                `json:"external_key"`
	CompanyID         string                `json:"company_id"`
	SiteID            string                `json:"site_id"`
	BuildingID        *string               `json:"building_id,omitempty"`
	ContractVersionID string                `json:"contract_version_id"`
	CategoryID        string                `json:"category_id"`
	TeamID            *string               `json:"team_id,omitempty"`
	RequesterID       string                `json:"requester_id"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	Priority          domain.TicketPriority `json:"priority"`
	Status            domain.TicketStatus   `json:"status"`
	OpenedAt          time.Time             `json:"opened_at"`
	AcknowledgedAt    *time.Time            `json:"acknowledged_at,omitempty"`
	ResolvedAt        *time.Time            `json:"resolved_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}
