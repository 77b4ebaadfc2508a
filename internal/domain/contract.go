package domain

import (
	"encoding/json"
	"time"
)

// Contract binds a site to a maintenance provider agreement. Terms live on
// versions; the contract row itself only anchors identity and site lineage.
type Contract struct {
	ID        string
	SiteID    string
	Reference string
	Active    bool
	CreatedAt time.Time
}

// ContractVersion is an immutable snapshot of contractual terms. New terms
// require a new version, never an in-place edit.
type ContractVersion struct {
	ID         string
	ContractID string
	Version    int
	Coverage   json.RawMessage
	Escalation json.RawMessage
	Approvals  json.RawMessage
	CreatedAt  time.Time
}

// SLATerms is the per-category deadline payload carried on a
// ContractCategory row.
type SLATerms struct {
	AckMinutes     int     `json:"ack_minutes"`
	ResolveMinutes int     `json:"resolve_minutes"`
	CalendarCode   *string `json:"calendar_code,omitempty"`
}

// AckDuration returns the acknowledge window.
func (t SLATerms) AckDuration() time.Duration {
	return time.Duration(t.AckMinutes) * time.Minute
}

// ResolveDuration returns the resolve window.
func (t SLATerms) ResolveDuration() time.Duration {
	return time.Duration(t.ResolveMinutes) * time.Minute
}

// ContractCategory includes a category in a contract version with its SLA
// terms.
type ContractCategory struct {
	ID                string
	ContractVersionID string
	CategoryID        string
	Included          bool
	SLA               SLATerms
	CreatedAt         time.Time
}

// DefaultRoutingPriority is assigned when a rule omits priority. Lower
// values take precedence.
const DefaultRoutingPriority = 100

// RoutingRule maps ticket attributes to a team for one contract version.
// Rules are evaluated by ascending priority, ties broken by insertion order.
type RoutingRule struct {
	ID                string
	ContractVersionID string
	Priority          int
	Condition         json.RawMessage
	Action            json.RawMessage
	CreatedAt         time.Time
}

// RoutingAction is the decoded action payload of a routing rule.
type RoutingAction struct {
	TeamID string `json:"team_id"`
}

// Matches decodes the rule condition as a flat attribute→value map and
// reports whether every pair is satisfied by attrs. A rule with an empty
// condition matches everything; an undecodable condition matches nothing.
func (r *RoutingRule) Matches(attrs map[string]string) bool {
	if len(r.Condition) == 0 {
		return true
	}
	var cond map[string]string
	if err := json.Unmarshal(r.Condition, &cond); err != nil {
		return false
	}
	for key, want := range cond {
		if attrs[key] != want {
			return false
		}
	}
	return true
}
