// Package memory is a process-local Store used in tests and when no database is configured.
package memory

import (
	"sync"

	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps everything in maps guarded by a single mutex.
type Store struct {
	mu         sync.Mutex
	users      map[string]models.User
	records    map[string][]models.Record
	nextRecord int64
	dashboards map[string]models.Dashboard
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:      map[string]models.User{},
		records:    map[string][]models.Record{},
		dashboards: map[string]models.Dashboard{},
	}
}

// Close is a no-op.
func (s *Store) Close() {}
