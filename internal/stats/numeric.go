// Package stats holds the single-pass heuristics run over uploaded records:
// numeric field detection, mean/deviation anomaly flags, a straight-line
// forecast and the weekly case-load aggregation used by the NLP endpoint.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hongminglow/medplat-be/internal/models"
)

// ErrNonNumeric is returned when a value of a numeric field cannot be read as a number.
var ErrNonNumeric = errors.New("non-numeric value in numeric field")

// ErrNonFinite is returned when a statistic overflows to an infinite or NaN value.
var ErrNonFinite = errors.New("statistic is not a finite number")

// decimalPattern accepts an optional sign and at most one decimal point.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// IsNumericString reports whether s is a plain base-10 decimal. Surrounding
// whitespace is not accepted; callers trim first.
func IsNumericString(s string) bool {
	return decimalPattern.MatchString(s)
}

// isNumeric decides whether a single value marks its field as numeric.
func isNumeric(v any) bool {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return err == nil && finite(f)
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case string:
		return IsNumericString(strings.TrimSpace(val))
	}
	return false
}

// NumericFields lists the numeric fields of the collection in field order.
// Only the first record is inspected.
func NumericFields(records []models.Record) []string {
	if len(records) == 0 {
		return nil
	}
	var fields []string
	for _, f := range records[0].Fields {
		if isNumeric(f.Value) {
			fields = append(fields, f.Key)
		}
	}
	return fields
}

// toFloat coerces a present value to float64. ok is false for null and blank values.
func toFloat(v any) (value float64, ok bool, err error) {
	switch val := v.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false, err
		}
		return checkFinite(f)
	case float64:
		return checkFinite(val)
	case float32:
		return checkFinite(float64(val))
	case int:
		return float64(val), true, nil
	case int8:
		return float64(val), true, nil
	case int16:
		return float64(val), true, nil
	case int32:
		return float64(val), true, nil
	case int64:
		return float64(val), true, nil
	case uint:
		return float64(val), true, nil
	case uint8:
		return float64(val), true, nil
	case uint16:
		return float64(val), true, nil
	case uint32:
		return float64(val), true, nil
	case uint64:
		return float64(val), true, nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, false, nil
		}
		if !IsNumericString(trimmed) {
			return 0, false, fmt.Errorf("not a decimal number: %q", val)
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false, err
		}
		return checkFinite(f)
	}
	return 0, false, fmt.Errorf("unsupported type %T", v)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func checkFinite(f float64) (float64, bool, error) {
	if !finite(f) {
		return 0, false, fmt.Errorf("value %v is not finite", f)
	}
	return f, true, nil
}

func allFinite(vals ...float64) bool {
	for _, v := range vals {
		if !finite(v) {
			return false
		}
	}
	return true
}

// Values collects the present values of field across records, in record order.
func Values(records []models.Record, field string) ([]float64, error) {
	vals := make([]float64, 0, len(records))
	for i, r := range records {
		raw, found := r.Get(field)
		if !found {
			continue
		}
		v, ok, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q in record %d: %v", ErrNonNumeric, field, i, raw)
		}
		if ok {
			vals = append(vals, v)
		}
	}
	return vals, nil
}
