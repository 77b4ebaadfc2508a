package dto

import "time"

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// CreateSkillRequest payload.
type CreateSkillRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// LinkSkillRequest payload.
type LinkSkillRequest struct {
	SkillID string `json:"skill_id"`
}

// CategoryResponse representation.
type CategoryResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SkillResponse representation.
type SkillResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategorySkillResponse representation.
type CategorySkillResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	SkillID    string    `json:"skill_id"`
	CreatedAt  time.Time `json:"created_at"`
}
