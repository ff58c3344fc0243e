package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/medplat-be/internal/models"
)

// InsertRecords stores the batch atomically and returns the number inserted.
func (s *Store) InsertRecords(ctx context.Context, collection string, records []models.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin insert records: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `INSERT INTO records (collection, body) VALUES ($1, $2::json)`
	batch := &pgx.Batch{}
	for i, r := range records {
		body, err := r.Body()
		if err != nil {
			return 0, fmt.Errorf("encode record %d: %w", i, err)
		}
		batch.Queue(query, collection, string(body))
	}
	results := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("insert records: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit records: %w", err)
	}
	return len(records), nil
}

// ListRecords returns records of collection in insertion order.
func (s *Store) ListRecords(ctx context.Context, collection string, limit int) ([]models.Record, error) {
	var lim *int64
	if limit > 0 {
		l := int64(limit)
		lim = &l
	}
	const query = `SELECT id, body::text FROM records WHERE collection = $1 ORDER BY id LIMIT $2`
	rows, err := s.pool.Query(ctx, query, collection, lim)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := []models.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestRecord returns the most recently inserted record of collection.
func (s *Store) LatestRecord(ctx context.Context, collection string) (models.Record, error) {
	const query = `SELECT id, body::text FROM records WHERE collection = $1 ORDER BY id DESC LIMIT 1`
	return scanRecord(s.pool.QueryRow(ctx, query, collection))
}

func scanRecord(row pgx.Row) (models.Record, error) {
	var id int64
	var body string
	if err := row.Scan(&id, &body); err != nil {
		return models.Record{}, notFound(err)
	}
	var r models.Record
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return models.Record{}, fmt.Errorf("decode record %d: %w", id, err)
	}
	r.ID = strconv.FormatInt(id, 10)
	return r, nil
}
