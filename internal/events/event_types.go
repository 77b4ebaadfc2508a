package events

import (
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened       EventType = "ticket_opened"
	EventTicketAcknowledged EventType = "ticket_acknowledged"
	EventTicketResolved     EventType = "ticket_resolved"
	EventSlaPaused          EventType = "sla_paused"
	EventSlaResumed         EventType = "sla_resumed"
	EventSlaSatisfied       EventType = "sla_satisfied"
	EventSlaBreachDetected  EventType = "sla_breach_detected"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketOpenedPayload payload.
type TicketOpenedPayload struct {
	SiteID     string                `json:"site_id"`
	CategoryID string                `json:"category_id"`
	TeamID     *string               `json:"team_id,omitempty"`
	Priority   domain.TicketPriority `json:"priority"`
}

// TicketStatusPayload payload for lifecycle transitions.
type TicketStatusPayload struct {
	Status domain.TicketStatus `json:"status"`
}

// SlaTargetPayload payload for target transitions.
type SlaTargetPayload struct {
	TargetID   string               `json:"target_id"`
	TargetType domain.SlaTargetType `json:"target_type"`
	DueAt      time.Time            `json:"due_at"`
}

// SlaBreachPayload payload.
type SlaBreachPayload struct {
	BreachID   string               `json:"breach_id"`
	TargetType domain.SlaTargetType `json:"target_type"`
	DetectedAt time.Time            `json:"detected_at"`
	DelayMs    int64                `json:"delay_ms"`
}
