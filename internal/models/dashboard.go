package models

import (
	"encoding/json"
	"time"
)

// Widget is a single chart or panel placed on a saved dashboard.
type Widget struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Dashboard is a named widget layout owned by one user.
type Dashboard struct {
	ID        string    `json:"id"`
	Owner     string    `json:"user"`
	Name      string    `json:"name"`
	Widgets   []Widget  `json:"widgets"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
