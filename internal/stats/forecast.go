package stats

import (
	"fmt"

	"github.com/hongminglow/medplat-be/internal/models"
)

// ForecastHorizon is the number of projected points.
const ForecastHorizon = 5

// ForecastResult holds the projected series for one field. Field is empty when
// nothing could be projected.
type ForecastResult struct {
	Field  string
	Values []float64
}

// Project extends vals by ForecastHorizon points along the average slope between
// the first and last observation. Fewer than two values yield an empty projection.
func Project(vals []float64) []float64 {
	if len(vals) < 2 {
		return []float64{}
	}
	first, last := vals[0], vals[len(vals)-1]
	delta := (last - first) / float64(len(vals)-1)
	out := make([]float64, ForecastHorizon)
	for i := range out {
		out[i] = last + delta*float64(i+1)
	}
	return out
}

// Forecast projects the first numeric field of the collection.
func Forecast(records []models.Record) (ForecastResult, error) {
	fields := NumericFields(records)
	if len(fields) == 0 {
		return ForecastResult{Values: []float64{}}, nil
	}
	field := fields[0]
	vals, err := Values(records, field)
	if err != nil {
		return ForecastResult{}, err
	}
	if len(vals) < 2 {
		return ForecastResult{Values: []float64{}}, nil
	}
	projected := Project(vals)
	if !allFinite(projected...) {
		return ForecastResult{}, fmt.Errorf("%w: field %q projection overflows", ErrNonFinite, field)
	}
	return ForecastResult{Field: field, Values: projected}, nil
}
