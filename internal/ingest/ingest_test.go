package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CSV(t *testing.T) {
	content := "\xEF\xBB\xBFweek,cases,ward\nW1,12,X\n\nW2,7\n"
	records, err := Parse("Admissions.CSV", []byte(content))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"week", "cases", "ward"}, records[0].Keys())
	v, _ := records[0].Get("cases")
	assert.Equal(t, "12", v)

	ward, ok := records[1].Get("ward")
	assert.True(t, ok)
	assert.Nil(t, ward)
}

func TestParse_JSONArrayKeepsOrderAndNumbers(t *testing.T) {
	records, err := Parse("data.json", []byte(`[{"z":1,"a":"2"},{"z":3.5}]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"z", "a"}, records[0].Keys())
	v, _ := records[1].Get("z")
	assert.Equal(t, json.Number("3.5"), v)
}

func TestParse_JSONSingleObject(t *testing.T) {
	records, err := Parse("one.json", []byte(` {"k":"v"} `))
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     error
	}{
		{"unsupported", "data.xlsx", "x", ErrUnsupportedType},
		{"no extension", "data", "x", ErrUnsupportedType},
		{"empty csv", "a.csv", "", ErrNoData},
		{"header only", "a.csv", "a,b\n", ErrNoData},
		{"empty json array", "a.json", "[]", ErrNoData},
		{"blank json", "a.json", "  ", ErrNoData},
		{"json scalar", "a.json", "42", ErrInvalidContent},
		{"json array of scalars", "a.json", "[1,2]", ErrInvalidContent},
		{"broken json", "a.json", `[{"a":`, ErrInvalidContent},
		{"broken csv quote", "a.csv", "a,b\n\"x,1\n", ErrInvalidContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.filename, []byte(tc.content))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
