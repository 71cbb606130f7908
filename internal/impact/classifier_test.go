package impact

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeMetric(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Árboles Plantados", "arboles plantados"},
		{"  arboles   plantados ", "arboles plantados"},
		{"CO2 capturado", "co2 capturado"},
		{"CO₂ Capturado", "co2 capturado"},
		{"Agua\tinfiltrada", "agua infiltrada"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMetric(tt.in))
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000", "1000"},
		{" 2.5 ", "2.5"},
		{"1000 árboles", "1000"},
		{"1e3", "1000"},
		{".5", "0.5"},
		{"+7", "7"},
		{"5.", "5"},
		{"15,000", "15"},
		{"abc", "0"},
		{"", "0"},
		{"-20", "0"},
		{"Infinity", "0"},
		{"0.12345", "0.1235"},
		{"1e19", "9999999999999999.9999"},
		{"1e7000000", "9999999999999999.9999"},
		{"1e-7000000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseValue(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "ParseValue(%q) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		entry  Entry
		field  Field
		amount string
	}{
		{"accented trees", Entry{Metric: "árboles plantados", Value: "1000"}, FieldTreesPlanted, "1000"},
		{"plain trees", Entry{Metric: "ARBOLES PLANTADOS", Value: "12"}, FieldTreesPlanted, "12"},
		{"water", Entry{Metric: "agua infiltrada", Value: "15000", Unit: "litros"}, FieldWaterLiters, "15000"},
		{"volunteers", Entry{Metric: "Voluntarios", Value: "150"}, FieldVolunteers, "150"},
		{"uniforms", Entry{Metric: "uniformes reciclados", Value: "40"}, FieldUniformsRecycled, "40"},
		{"bottles", Entry{Metric: "botellas recicladas", Value: "3000"}, FieldBottlesRecycled, "3000"},
		{"co2 kg", Entry{Metric: "CO2 capturado", Value: "9", Unit: "kg"}, FieldCO2Kg, "9"},
		{"co2 tons", Entry{Metric: "CO2 capturado", Value: "2", Unit: "toneladas"}, FieldCO2Kg, "2000"},
		{"co2 tons upper", Entry{Metric: "co2 capturado", Value: "1.5", Unit: "TON"}, FieldCO2Kg, "1500"},
		{"co2 tons past the column", Entry{Metric: "co2 capturado", Value: "1e15", Unit: "toneladas"}, FieldCO2Kg, "9999999999999999.9999"},
		{"bad value", Entry{Metric: "voluntarios", Value: "muchos"}, FieldVolunteers, "0"},
		{"unknown metric", Entry{Metric: "Equipos reciclados", Value: "500"}, FieldNone, "0"},
		{"synonym is not matched", Entry{Metric: "árboles sembrados", Value: "10"}, FieldNone, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.entry)
			assert.Equal(t, tt.field, c.Field)
			assert.True(t, c.Amount.Equal(decimal.RequireFromString(tt.amount)), "amount = %s, want %s", c.Amount, tt.amount)
		})
	}
}

func TestSummarize(t *testing.T) {
	entries := []Entry{
		{Metric: "árboles plantados", Value: "1000"},
		{Metric: "arboles plantados", Value: "10"},
		{Metric: "voluntarios", Value: "150"},
		{Metric: "Equipos reciclados", Value: "500"},
		{Metric: "co2 capturado", Value: "2", Unit: "toneladas"},
	}

	s := Summarize(entries)

	assert.Equal(t, 4, s.Classified)
	assert.Len(t, s.Unclassified, 1)
	assert.Equal(t, "Equipos reciclados", s.Unclassified[0].Metric)
	assert.True(t, s.Bundle.TreesPlanted.Equal(decimal.NewFromInt(1010)))
	assert.True(t, s.Bundle.Volunteers.Equal(decimal.NewFromInt(150)))
	assert.True(t, s.Bundle.CO2Kg.Equal(decimal.NewFromInt(2000)))
	assert.True(t, s.Bundle.WaterLiters.IsZero())
}

func TestSummarizeOnlyUnknownMetrics(t *testing.T) {
	s := Summarize([]Entry{
		{Metric: "kilos de composta", Value: "80"},
		{Metric: "", Value: "3"},
	})

	assert.True(t, s.Bundle.IsZero())
	assert.Zero(t, s.Classified)
	assert.Len(t, s.Unclassified, 2)
}

func TestKnownMetricsAreLookupKeys(t *testing.T) {
	names := KnownMetrics()

	assert.Len(t, names, 6)
	for _, name := range names {
		assert.NotEqual(t, FieldNone, LookupMetric(name), name)
		assert.Equal(t, name, NormalizeMetric(name))
	}
}
