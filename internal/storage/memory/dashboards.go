package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/storage"
)

func (s *Store) CreateDashboard(_ context.Context, d models.Dashboard) (models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = now
	s.dashboards[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDashboard(_ context.Context, d models.Dashboard) (models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.dashboards[d.ID]
	if !ok || existing.Owner != d.Owner {
		return models.Dashboard{}, storage.ErrNotFound
	}
	existing.Name = d.Name
	existing.Widgets = d.Widgets
	existing.UpdatedAt = time.Now().UTC()
	s.dashboards[d.ID] = existing
	return existing, nil
}

func (s *Store) ListDashboards(_ context.Context, owner string) ([]models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Dashboard{}
	for _, d := range s.dashboards {
		if d.Owner == owner {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Store) DeleteDashboard(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.dashboards[id]; ok && d.Owner == owner {
		delete(s.dashboards, id)
	}
	return nil
}
