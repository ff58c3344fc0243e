package memory

import (
	"context"
	"strconv"

	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/storage"
)

func (s *Store) InsertRecords(_ context.Context, collection string, records []models.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.nextRecord++
		stored := models.Record{
			ID:     strconv.FormatInt(s.nextRecord, 10),
			Fields: append([]models.Field(nil), r.Fields...),
		}
		s.records[collection] = append(s.records[collection], stored)
	}
	return len(records), nil
}

func (s *Store) ListRecords(_ context.Context, collection string, limit int) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.records[collection]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return append([]models.Record{}, all...), nil
}

func (s *Store) LatestRecord(_ context.Context, collection string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.records[collection]
	if len(all) == 0 {
		return models.Record{}, storage.ErrNotFound
	}
	return all[len(all)-1], nil
}
