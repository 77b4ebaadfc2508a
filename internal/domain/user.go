package domain

import "time"

// User is an authenticated principal. Administrative visibility is granted
// separately through AdminScope rows, never stored on the user itself.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
