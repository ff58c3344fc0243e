package models

import "time"

// User captures application-facing fields for an authenticated identity.
type User struct {
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the public projection returned by listing endpoints.
type UserSummary struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Summary projects the user onto its public fields.
func (u User) Summary() UserSummary {
	return UserSummary{Username: u.Username, Role: u.Role}
}
