package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "OPEN"
	TicketStatusAcknowledged TicketStatus = "ACKNOWLEDGED"
	TicketStatusResolved     TicketStatus = "RESOLVED"
	TicketStatusClosed       TicketStatus = "CLOSED"
	TicketStatusCancelled    TicketStatus = "CANCELLED"
)

// TicketPriority enumerates urgency levels used by routing conditions.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Ticket is the aggregate for maintenance requests. It pins the contract
// version whose terms were in force when it was opened.
type Ticket struct {
	ID                string
	ExternalKey       string
	CompanyID         string
	SiteID            string
	BuildingID        *string
	ContractVersionID string
	CategoryID        string
	TeamID            *string
	RequesterID       string
	Title             string
	Description       string
	Priority          TicketPriority
	Status            TicketStatus
	OpenedAt          time.Time
	AcknowledgedAt    *time.Time
	ResolvedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
