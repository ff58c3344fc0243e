package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/medplat-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore is the credential store. Username uniqueness is enforced by the
// implementation itself, so CreateUser is safe under concurrent registration.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// UpdatePassword and UpdateRole succeed without effect when username is absent.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	UpdateRole(ctx context.Context, username string, role models.Role) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// RecordStore persists uploaded records grouped by collection.
type RecordStore interface {
	InsertRecords(ctx context.Context, collection string, records []models.Record) (int, error)
	// ListRecords returns records in insertion order. limit <= 0 means no limit.
	ListRecords(ctx context.Context, collection string, limit int) ([]models.Record, error)
	LatestRecord(ctx context.Context, collection string) (models.Record, error)
}

// DashboardStore persists saved dashboards per owner.
type DashboardStore interface {
	CreateDashboard(ctx context.Context, d models.Dashboard) (models.Dashboard, error)
	// UpdateDashboard returns ErrNotFound unless d.ID exists and belongs to d.Owner.
	UpdateDashboard(ctx context.Context, d models.Dashboard) (models.Dashboard, error)
	ListDashboards(ctx context.Context, owner string) ([]models.Dashboard, error)
	DeleteDashboard(ctx context.Context, owner, id string) error
}

// Store bundles every persistence concern of the service.
type Store interface {
	UserStore
	RecordStore
	DashboardStore
	Close()
}
