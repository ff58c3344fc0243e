package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/storage"
)

const dashboardColumns = `id::text, owner, name, widgets, created_at, updated_at`

func (s *Store) CreateDashboard(ctx context.Context, d models.Dashboard) (models.Dashboard, error) {
	widgets, err := encodeWidgets(d.Widgets)
	if err != nil {
		return models.Dashboard{}, err
	}
	query := `
		INSERT INTO dashboards (id, owner, name, widgets)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING ` + dashboardColumns
	row := s.pool.QueryRow(ctx, query, uuid.NewString(), d.Owner, d.Name, widgets)
	created, err := scanDashboard(row)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("insert dashboard: %w", err)
	}
	return created, nil
}

func (s *Store) UpdateDashboard(ctx context.Context, d models.Dashboard) (models.Dashboard, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Dashboard{}, storage.ErrNotFound
	}
	widgets, err := encodeWidgets(d.Widgets)
	if err != nil {
		return models.Dashboard{}, err
	}
	query := `
		UPDATE dashboards SET name = $3, widgets = $4::jsonb, updated_at = NOW()
		WHERE id = $1 AND owner = $2
		RETURNING ` + dashboardColumns
	return scanDashboard(s.pool.QueryRow(ctx, query, id.String(), d.Owner, d.Name, widgets))
}

func (s *Store) ListDashboards(ctx context.Context, owner string) ([]models.Dashboard, error) {
	query := `SELECT ` + dashboardColumns + ` FROM dashboards WHERE owner = $1 ORDER BY updated_at DESC`
	rows, err := s.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	defer rows.Close()

	out := []models.Dashboard{}
	for rows.Next() {
		d, err := scanDashboard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) DeleteDashboard(ctx context.Context, owner, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	const query = `DELETE FROM dashboards WHERE id = $1 AND owner = $2`
	if _, err := s.pool.Exec(ctx, query, parsed.String(), owner); err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	return nil
}

func encodeWidgets(widgets []models.Widget) (string, error) {
	if widgets == nil {
		widgets = []models.Widget{}
	}
	b, err := json.Marshal(widgets)
	if err != nil {
		return "", fmt.Errorf("encode widgets: %w", err)
	}
	return string(b), nil
}

func scanDashboard(row pgx.Row) (models.Dashboard, error) {
	var d models.Dashboard
	var widgets []byte
	if err := row.Scan(&d.ID, &d.Owner, &d.Name, &widgets, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return models.Dashboard{}, notFound(err)
	}
	if err := json.Unmarshal(widgets, &d.Widgets); err != nil {
		return models.Dashboard{}, fmt.Errorf("decode widgets: %w", err)
	}
	return d, nil
}
