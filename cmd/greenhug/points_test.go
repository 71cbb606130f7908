package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPoints(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		points       int64
		unclassified int
	}{
		{
			name:   "trees and volunteers",
			input:  `[{"metric":"Árboles plantados","value":"1000"},{"metric":"Voluntarios","value":"150"}]`,
			points: 3450,
		},
		{
			name:   "water",
			input:  `[{"metric":"agua infiltrada","value":"15000","unit":"litros"}]`,
			points: 7,
		},
		{
			name:         "unknown metric",
			input:        `[{"metric":"sonrisas","value":"99"}]`,
			points:       0,
			unclassified: 1,
		},
		{
			name:  "empty",
			input: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runPoints(strings.NewReader(tt.input), &out))

			var report struct {
				Points       int64             `json:"points"`
				Unclassified []json.RawMessage `json:"unclassified"`
			}
			require.NoError(t, json.Unmarshal(out.Bytes(), &report))
			assert.Equal(t, tt.points, report.Points)
			assert.Len(t, report.Unclassified, tt.unclassified)
		})
	}
}

func TestRunPointsRejectsBadJSON(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runPoints(strings.NewReader(`{"metric":`), &out))
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(`[{"metric":"CO2 capturado","value":"2","unit":"toneladas"}]`))
	root.SetArgs([]string{"points"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"points": 666`)

	for _, name := range []string{"migrate", "reconcile", "setup-admin", "points"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
