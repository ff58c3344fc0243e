// Package ingest turns uploaded CSV and JSON files into records.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hongminglow/medplat-be/internal/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoData          = errors.New("no data found in file")
	ErrInvalidContent  = errors.New("invalid file content")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse dispatches on the file extension (case-insensitive).
func Parse(filename string, content []byte) ([]models.Record, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	var (
		records []models.Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = ParseCSV(content)
	case ".json":
		records, err = ParseJSON(content)
	default:
		return nil, ErrUnsupportedType
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return records, nil
}

// ParseCSV reads a header row followed by data rows. Every value stays a string;
// short rows leave trailing fields null and surplus cells are dropped.
func ParseCSV(content []byte) ([]models.Record, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", ErrInvalidContent, err)
	}

	var records []models.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv row: %v", ErrInvalidContent, err)
		}
		rec := models.Record{Fields: make([]models.Field, 0, len(header))}
		for i, name := range header {
			var value any
			if i < len(row) {
				value = row[i]
			}
			rec.Set(name, value)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseJSON accepts an array of objects or a single object.
func ParseJSON(content []byte) ([]models.Record, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '{':
		var rec models.Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return []models.Record{rec}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		records := make([]models.Record, 0, len(items))
		for i, item := range items {
			var rec models.Record
			if err := json.Unmarshal(item, &rec); err != nil {
				return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidContent, i, err)
			}
			records = append(records, rec)
		}
		return records, nil
	}
	return nil, fmt.Errorf("%w: expected a JSON object or array", ErrInvalidContent)
}
