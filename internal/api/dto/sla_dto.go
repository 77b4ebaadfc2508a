package dto

import (
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// SlaTargetResponse representation.
type SlaTargetResponse struct {
	ID          string                `json:"id"`
	TicketID    string                `json:"ticket_id"`
	Type        domain.SlaTargetType  `json:"type"`
	State       domain.SlaTargetState `json:"state"`
	DueAt       time.Time             `json:"due_at"`
	PausedAt    *time.Time            `json:"paused_at,omitempty"`
	SatisfiedAt *time.Time            `json:"satisfied_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// SlaBreachResponse representation.
type SlaBreachResponse struct {
	ID         string               `json:"id"`
	TicketID   string               `json:"ticket_id"`
	Type       domain.SlaTargetType `json:"type"`
	DetectedAt time.Time            `json:"detected_at"`
	DelayMs    int64                `json:"delay_ms"`
	Notified   bool                 `json:"notified"`
	CreatedAt  time.Time            `json:"created_at"`
}
