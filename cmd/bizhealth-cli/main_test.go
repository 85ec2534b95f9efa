package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizhealth-workers/pkg/registry"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuestionnaireCmd(t *testing.T) {
	out, err := run(t, "questionnaire", "--type", "cafe", "--responses", `{"city":"Mumbai"}`)
	require.NoError(t, err)

	var step map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &step))
	assert.Equal(t, "seating_capacity", step["id"])

	_, err = run(t, "questionnaire", "--type", "bakery")
	assert.Error(t, err)
}

func TestCostsCmd(t *testing.T) {
	out, err := run(t, "costs", "--type", "CAFE",
		"--responses", `{"city":"Mumbai","seating_capacity":20,"menu_type":"Full Meals"}`)
	require.NoError(t, err)

	var result struct {
		LocationSource string `json:"locationSource"`
		Analysis       struct {
			TotalCapex      string `json:"totalCapex"`
			BreakEvenMonths *int64 `json:"breakEvenMonths"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "city-fallback", result.LocationSource)
	assert.Equal(t, "835000", result.Analysis.TotalCapex)
	require.NotNil(t, result.Analysis.BreakEvenMonths)
	assert.Equal(t, int64(5), *result.Analysis.BreakEvenMonths)

	_, err = run(t, "costs", "--type", "CAFE", "--responses", `{"city":"Mumbai"}`)
	assert.ErrorContains(t, err, "seating_capacity")
}

func TestScoreCmd(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantScore float64
		wantErr   bool
	}{
		{name: "healthy day", args: []string{"--sales", "15000", "--expenses", "8000", "--wastage", "500"}, wantScore: 60},
		{name: "loss day", args: []string{"--sales", "1000", "--expenses", "2000"}, wantScore: 0},
		{name: "negative wastage", args: []string{"--sales", "1000", "--wastage", "-5"}, wantErr: true},
		{name: "not a number", args: []string{"--sales", "lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"score"}, tt.args...)...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var result map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, tt.wantScore, result["healthScore"])
		})
	}
}

func TestSummarizeCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"date":"2024-06-30","sales":15000,"expenses":8000,"wastage":500},
		{"date":"2024-06-29","sales":"1000","expenses":"2000","wastage":"0"}
	]`), 0o644))

	out, err := run(t, "summarize", "--file", path, "--today", "2024-06-30")
	require.NoError(t, err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, float64(60), summary["currentScore"])
	assert.Equal(t, float64(0), summary["previousScore"])
	assert.Equal(t, "INSUFFICIENT_DATA", summary["trend"])
}

func TestRegistryCmds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	_, err := run(t, "registry", "add", "--path", path,
		"--id", "summarize-health", "--display-name", "Summarize Health", "--category", "health")
	require.NoError(t, err)

	_, err = run(t, "registry", "update", "--path", path, "--id", "summarize-health", "--field", "status", "--value", "completed")
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	a, ok := reg.Find("summarize-health")
	require.True(t, ok)
	assert.Equal(t, "completed", a.ImplementationStatus)

	out, err := run(t, "registry", "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 activities")

	out, err = run(t, "registry", "validate", "--path", filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 8 activities")

	out, err = run(t, "registry", "list", "--path", filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "create-business-profile"), strings.Index(out, "calculate-feasibility"))
	assert.Less(t, strings.Index(out, "render-feasibility-pdf"), strings.Index(out, "send-health-alert"))
}
