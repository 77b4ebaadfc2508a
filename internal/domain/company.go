package domain

import "time"

// Company is the tenant root. Every scoped entity traces back to exactly
// one company, directly or through its site/building lineage.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Site is a physical location owned by a company.
type Site struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
}

// Building is a structure within a site.
type Building struct {
	ID        string
	SiteID    string
	Name      string
	CreatedAt time.Time
}
