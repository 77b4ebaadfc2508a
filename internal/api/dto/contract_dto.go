package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// CreateContractRequest payload.
type CreateContractRequest struct {
	SiteID    string `json:"site_id"`
	Reference string `json:"reference"`
}

// CreateVersionRequest payload.
type CreateVersionRequest struct {
	Coverage   json.RawMessage `json:"coverage"`
	Escalation json.RawMessage `json:"escalation"`
	Approvals  json.RawMessage `json:"approvals"`
}

// AttachCategoryRequest payload.
type AttachCategoryRequest struct {
	CategoryID string          `json:"category_id"`
	Included   *bool           `json:"included"`
	SLA        domain.SLATerms `json:"sla"`
}

// AddRoutingRuleRequest payload.
type AddRoutingRuleRequest struct {
	Priority  int             `json:"priority"`
	Condition json.RawMessage `json:"condition"`
	Action    json.RawMessage `json:"action"`
}

// ContractResponse representation.
type ContractResponse struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	Reference string    `json:"reference"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ContractVersionResponse representation.
type ContractVersionResponse struct {
	ID         string          `json:"id"`
	ContractID string          `json:"contract_id"`
	Version    int             `json:"version"`
	Coverage   json.RawMessage `json:"coverage"`
	Escalation json.RawMessage `json:"escalation,omitempty"`
	Approvals  json.RawMessage `json:"approvals,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ContractCategoryResponse representation.
type ContractCategoryResponse struct {
	ID                string          `json:"id"`
	ContractVersionID string          `json:"contract_version_id"`
	CategoryID        string          `json:"category_id"`
	Included          bool            `json:"included"`
	SLA               domain.SLATerms `json:"sla"`
	CreatedAt         time.Time       `json:"created_at"`
}

// RoutingRuleResponse representation.
type RoutingRuleResponse struct {
	ID                string          `json:"id"`
	ContractVersionID string          `json:"contract_version_id"`
	Priority          int             `json:"priority"`
	Condition         json.RawMessage `json:"condition"`
	Action            json.RawMessage `json:"action"`
	CreatedAt         time.Time       `json:"created_at"`
}
