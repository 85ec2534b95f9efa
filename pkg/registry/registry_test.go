package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: "Record Daily Metrics",
		Category:    "health",
		TaskType:    id,
		Timeout:     "10s",
	}
}

func TestActivityRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(*ActivityRegistry) {}},
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "duplicate id", mutate: func(r *ActivityRegistry) {
			r.Activities = append(r.Activities, r.Activities[0])
		}, wantErr: "duplicate activity ID"},
		{name: "duplicate task type", mutate: func(r *ActivityRegistry) {
			a := validActivity("other")
			a.TaskType = "record-daily-metrics"
			r.Activities = append(r.Activities, a)
		}, wantErr: "duplicate task type"},
		{name: "missing display name", mutate: func(r *ActivityRegistry) { r.Activities[0].DisplayName = "" }, wantErr: "DisplayName"},
		{name: "missing category", mutate: func(r *ActivityRegistry) { r.Activities[0].Category = "" }, wantErr: "Category"},
		{name: "unknown category", mutate: func(r *ActivityRegistry) { r.Activities[0].Category = "crm" }, wantErr: "unknown category"},
		{name: "negative retries", mutate: func(r *ActivityRegistry) { r.Activities[0].Retries = -1 }, wantErr: "negative retries"},
		{name: "bad timeout", mutate: func(r *ActivityRegistry) { r.Activities[0].Timeout = "ten" }, wantErr: "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{validActivity("record-daily-metrics")}}
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestActivityRegistry_AddUpdateFind(t *testing.T) {
	reg := &ActivityRegistry{}
	require.NoError(t, reg.Add(validActivity("summarize-health")))
	assert.Error(t, reg.Add(validActivity("summarize-health")))

	require.NoError(t, reg.Update("summarize-health", "status", "completed"))
	require.NoError(t, reg.Update("summarize-health", "retries", "3"))
	assert.Error(t, reg.Update("summarize-health", "retries", "many"))
	assert.Error(t, reg.Update("summarize-health", "colour", "blue"))
	assert.Error(t, reg.Update("missing", "status", "completed"))

	a, ok := reg.Find("summarize-health")
	require.True(t, ok)
	assert.Equal(t, "completed", a.ImplementationStatus)
	assert.Equal(t, 3, a.Retries)
	assert.NotEmpty(t, reg.LastUpdated)

	_, ok = reg.Find("send-health-alert")
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{Version: "1.0.0", Activities: []Activity{validActivity("next-question")}}
	reg.Activities[0].InputSchema = map[string]interface{}{"type": "object"}

	require.NoError(t, reg.Save(path))
	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Activities[0].TaskType, loaded.Activities[0].TaskType)
	assert.Equal(t, "object", loaded.Activities[0].InputSchema["type"])
}

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"next-question", "create-business-profile", "calculate-feasibility", "index-feasibility-report",
		"render-feasibility-pdf", "record-daily-metrics", "summarize-health", "send-health-alert",
	} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.InputSchema, taskType)
	}

	assert.Len(t, reg.InCategory(CategoryOnboarding), 2)
	assert.Len(t, reg.InCategory(CategoryFeasibility), 3)
	assert.Len(t, reg.InCategory(CategoryHealth), 3)
	assert.Empty(t, reg.InCategory("crm"))
}
