package domain

import "time"

// Team is a maintenance crew belonging to one company.
type Team struct {
	ID        string
	CompanyID string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamMember is the membership edge between a team and a user.
type TeamMember struct {
	ID        string
	TeamID    string
	UserID    string
	CreatedAt time.Time
}

// CompetencyEntry declares that a team handles a category under a contract
// version, optionally narrowed to one building of the contract's site.
type CompetencyEntry struct {
	ID                string
	ContractVersionID string
	TeamID            string
	CategoryID        string
	BuildingID        *string
	CreatedAt         time.Time
}
