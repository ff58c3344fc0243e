package stats

import (
	"fmt"
	"strings"

	"github.com/hongminglow/medplat-be/internal/models"
)

const caseLoadColor = "#1976d2"

// Dataset is one series of a chart.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
}

// ChartData is the bar chart payload consumed by the dashboard frontend.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// CaseLoad sums case counts per week. The week field is the first key containing
// "week" (otherwise the first key) and the case field the first key containing
// "case" (otherwise the second key); both are picked from the first record.
// Unreadable counts contribute zero. Returns nil for an empty collection.
func CaseLoad(records []models.Record) *ChartData {
	if len(records) == 0 {
		return nil
	}
	keys := records[0].Keys()
	weekField := pickKey(keys, "week", 0)
	caseField := pickKey(keys, "case", 1)

	var labels []string
	totals := map[string]float64{}
	for _, r := range records {
		week := "Unknown"
		if v, ok := r.Get(weekField); ok && v != nil && fmt.Sprint(v) != "" {
			week = fmt.Sprint(v)
		}
		if _, seen := totals[week]; !seen {
			labels = append(labels, week)
			totals[week] = 0
		}
		if v, ok := r.Get(caseField); ok {
			if n, ok, err := toFloat(v); ok && err == nil {
				totals[week] += n
			}
		}
	}

	data := make([]float64, 0, len(labels))
	for _, l := range labels {
		data = append(data, totals[l])
	}
	return &ChartData{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Cases", Data: data, BackgroundColor: caseLoadColor}},
	}
}

func pickKey(keys []string, contains string, fallback int) string {
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), contains) {
			return k
		}
	}
	if fallback < len(keys) {
		return keys[fallback]
	}
	return ""
}
