package stats

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/medplat-be/internal/models"
)

func rec(kv ...any) models.Record {
	var r models.Record
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func series(field string, vals ...any) []models.Record {
	out := make([]models.Record, 0, len(vals))
	for _, v := range vals {
		out = append(out, rec(field, v))
	}
	return out
}

func TestIsNumericString(t *testing.T) {
	cases := map[string]bool{
		"12":    true,
		"-3.5":  true,
		"+7":    true,
		"1.":    true,
		".25":   true,
		"":      false,
		".":     false,
		"1.2.3": false,
		"1e5":   false,
		"1,000": false,
		" 12":   false,
		"abc":   false,
		"--1":   false,
		"12a":   false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsNumericString(in), "input %q", in)
	}
}

func TestNumericFields_FirstRecordOnly(t *testing.T) {
	records := []models.Record{
		rec("ward", "X", "admissions", json.Number("4"), "rate", "0.5", "flag", true, "note", nil),
		rec("ward", "12", "admissions", json.Number("9"), "extra", json.Number("1")),
	}
	assert.Equal(t, []string{"admissions", "rate"}, NumericFields(records))
	assert.Empty(t, NumericFields(nil))
}

func TestNumericFields_TrimsStrings(t *testing.T) {
	records := []models.Record{rec("beds", " 12 ", "nan", "NaN", "inf", "Inf", "exp", "1e5")}
	assert.Equal(t, []string{"beds"}, NumericFields(records))
}

func TestMeanStdDev_Population(t *testing.T) {
	mean, std := MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 2.0, std)
}

func TestDetectAnomalies_SingleLargeValueStaysWithinTwoSigma(t *testing.T) {
	records := series("v", 1, 2, 3, 4, 100)
	mean, std := MeanStdDev([]float64{1, 2, 3, 4, 100})
	require.Equal(t, 22.0, mean)
	assert.InDelta(t, math.Sqrt(1522), std, 1e-12)
	// |100-22| = 78 and 2σ ≈ 78.03, so nothing crosses the threshold.
	report, err := DetectAnomalies(records)
	require.NoError(t, err)
	assert.False(t, report.Anomaly)
	assert.Empty(t, report.Anomalies)
}

func TestDetectAnomalies_ExactBoundaryIsNotFlagged(t *testing.T) {
	// mean 1, σ 2, |5-1| == 2σ
	report, err := DetectAnomalies(series("v", 0, 0, 0, 0, 5))
	require.NoError(t, err)
	assert.False(t, report.Anomaly)
}

func TestDetectAnomalies_FlagsOutlier(t *testing.T) {
	report, err := DetectAnomalies(series("v", 0, 0, 0, 0, 0, 6))
	require.NoError(t, err)
	assert.True(t, report.Anomaly)
	assert.Equal(t, []Anomaly{{Field: "v", Value: 6}}, report.Anomalies)
}

func TestDetectAnomalies_FieldThenValueOrder(t *testing.T) {
	var records []models.Record
	for i := 0; i < 9; i++ {
		records = append(records, rec("a", json.Number("10"), "b", "1"))
	}
	records = append(records, rec("a", json.Number("100"), "b", "50"))
	report, err := DetectAnomalies(records)
	require.NoError(t, err)
	assert.Equal(t, []Anomaly{{Field: "a", Value: 100}, {Field: "b", Value: 50}}, report.Anomalies)
}

func TestDetectAnomalies_SkipsSparseFields(t *testing.T) {
	records := []models.Record{
		rec("only", json.Number("5"), "v", 0),
		rec("v", 0), rec("v", 0), rec("v", 0), rec("v", 0), rec("v", 6),
	}
	report, err := DetectAnomalies(records)
	require.NoError(t, err)
	assert.Equal(t, []Anomaly{{Field: "v", Value: 6}}, report.Anomalies)
}

func TestDetectAnomalies_NullAndBlankValuesAreAbsent(t *testing.T) {
	records := series("v", "3", nil, "", "3")
	report, err := DetectAnomalies(records)
	require.NoError(t, err)
	assert.False(t, report.Anomaly)
}

func TestDetectAnomalies_NonNumericLaterValue(t *testing.T) {
	_, err := DetectAnomalies(series("v", "1", "two"))
	assert.ErrorIs(t, err, ErrNonNumeric)
}

func TestValues_RejectsNonDecimalStrings(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-Infinity", "1e5", "0x1p3", "1_000"} {
		_, err := Values(series("v", "1", raw), "v")
		assert.ErrorIs(t, err, ErrNonNumeric, "value %q", raw)
	}

	vals, err := Values(series("v", " 2 ", "3.5"), "v")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3.5}, vals)
}

func TestValues_RejectsNonFiniteNumbers(t *testing.T) {
	_, err := Values(series("v", 1.0, math.Inf(1)), "v")
	assert.ErrorIs(t, err, ErrNonNumeric)
	_, err = Values(series("v", 1.0, math.NaN()), "v")
	assert.ErrorIs(t, err, ErrNonNumeric)
}

func TestDetectAnomalies_OverflowIsAnError(t *testing.T) {
	_, err := DetectAnomalies(series("v", "-1"+strings.Repeat("0", 308), "1"+strings.Repeat("0", 308)))
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestForecast_OverflowIsAnError(t *testing.T) {
	_, err := Forecast(series("v", "-1"+strings.Repeat("0", 308), "1"+strings.Repeat("0", 308)))
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestDetectAnomalies_Empty(t *testing.T) {
	report, err := DetectAnomalies(nil)
	require.NoError(t, err)
	assert.False(t, report.Anomaly)
	assert.NotNil(t, report.Anomalies)
}

func TestForecast_TwoPoints(t *testing.T) {
	res, err := Forecast(series("v", json.Number("10"), json.Number("20")))
	require.NoError(t, err)
	assert.Equal(t, "v", res.Field)
	assert.Equal(t, []float64{30, 40, 50, 60, 70}, res.Values)
}

func TestForecast_UsesEndpointsOnly(t *testing.T) {
	res, err := Forecast(series("v", 0, 100, -50, 6))
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 10, 12, 14, 16}, res.Values)
}

func TestForecast_FirstNumericField(t *testing.T) {
	records := []models.Record{
		rec("name", "a", "beds", "4", "staff", json.Number("1")),
		rec("name", "b", "beds", "6", "staff", json.Number("9")),
	}
	res, err := Forecast(records)
	require.NoError(t, err)
	assert.Equal(t, "beds", res.Field)
	assert.Equal(t, []float64{8, 10, 12, 14, 16}, res.Values)
}

func TestForecast_NotEnoughData(t *testing.T) {
	for name, records := range map[string][]models.Record{
		"empty":      nil,
		"single":     series("v", 3),
		"no numeric": series("v", "x", "y"),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := Forecast(records)
			require.NoError(t, err)
			assert.Empty(t, res.Field)
			assert.Equal(t, []float64{}, res.Values)
		})
	}
}

func TestCaseLoad(t *testing.T) {
	records := []models.Record{
		rec("Week", "W1", "Cases", "12"),
		rec("Week", "W2", "Cases", "7"),
		rec("Week", "W1", "Cases", "3"),
		rec("Week", "W3", "Cases", "n/a"),
	}
	chart := CaseLoad(records)
	require.NotNil(t, chart)
	assert.Equal(t, []string{"W1", "W2", "W3"}, chart.Labels)
	require.Len(t, chart.Datasets, 1)
	assert.Equal(t, []float64{15, 7, 0}, chart.Datasets[0].Data)
	assert.Equal(t, "Cases", chart.Datasets[0].Label)
}

func TestCaseLoad_FallsBackToPositionalKeys(t *testing.T) {
	chart := CaseLoad([]models.Record{rec("period", "Jan", "count", json.Number("2"))})
	require.NotNil(t, chart)
	assert.Equal(t, []string{"Jan"}, chart.Labels)
	assert.Equal(t, []float64{2}, chart.Datasets[0].Data)
	assert.Nil(t, CaseLoad(nil))
}
