package domain

import "time"

// Category is a maintenance category within one company's taxonomy.
type Category struct {
	ID        string
	CompanyID string
	Key       string
	Name      string
	CreatedAt time.Time
}

// Skill is a technician competency within one company's taxonomy.
type Skill struct {
	ID        string
	CompanyID string
	Key       string
	Name      string
	CreatedAt time.Time
}

// CategorySkill links a category to a skill of the same company.
type CategorySkill struct {
	ID         string
	CategoryID string
	SkillID    string
	CreatedAt  time.Time
}
