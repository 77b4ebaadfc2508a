package dto

import "time"

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

// AddMemberRequest payload.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

// AddCompetencyRequest payload.
type AddCompetencyRequest struct {
	ContractVersionID string  `json:"contract_version_id"`
	CategoryID        string  `json:"category_id"`
	BuildingID        *string `json:"building_id,omitempty"`
}

// TeamResponse representation.
type TeamResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMemberResponse representation.
type TeamMemberResponse struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CompetencyResponse representation.
type CompetencyResponse struct {
	ID                string    `json:"id"`
	ContractVersionID string    `json:"contract_version_id"`
	TeamID            string    `json:"team_id"`
	CategoryID        string    `json:"category_id"`
	BuildingID        *string   `json:"building_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
