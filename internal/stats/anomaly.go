package stats

import (
	"fmt"
	"math"

	"github.com/hongminglow/medplat-be/internal/models"
)

// DeviationThreshold is the number of standard deviations a value must exceed to be flagged.
const DeviationThreshold = 2.0

// Anomaly is one flagged value.
type Anomaly struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

// AnomalyReport is the outcome of DetectAnomalies.
type AnomalyReport struct {
	Anomaly   bool
	Anomalies []Anomaly
}

// MeanStdDev returns the arithmetic mean and the population standard deviation.
func MeanStdDev(vals []float64) (mean, std float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	n := float64(len(vals))
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean = sum / n
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}

// DetectAnomalies flags, for every numeric field, each value lying strictly more
// than two population standard deviations from the field mean. Fields with fewer
// than two values are skipped.
func DetectAnomalies(records []models.Record) (AnomalyReport, error) {
	report := AnomalyReport{Anomalies: []Anomaly{}}
	for _, field := range NumericFields(records) {
		vals, err := Values(records, field)
		if err != nil {
			return AnomalyReport{}, err
		}
		if len(vals) < 2 {
			continue
		}
		mean, std := MeanStdDev(vals)
		if !allFinite(mean, std) {
			return AnomalyReport{}, fmt.Errorf("%w: field %q: mean %v, deviation %v", ErrNonFinite, field, mean, std)
		}
		for _, v := range vals {
			if math.Abs(v-mean) > DeviationThreshold*std {
				report.Anomalies = append(report.Anomalies, Anomaly{Field: field, Value: v})
			}
		}
	}
	report.Anomaly = len(report.Anomalies) > 0
	return report, nil
}
