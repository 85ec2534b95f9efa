// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LoadRegistry reads the activity registry file at path.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes reg to path as indented JSON, creating the directory if needed.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Add appends activity, rejecting duplicate IDs.
func (r *ActivityRegistry) Add(activity Activity) error {
	for _, existing := range r.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}
	r.Activities = append(r.Activities, activity)
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return nil
}

// Update sets one scalar field of the activity with id.
func (r *ActivityRegistry) Update(id, field, value string) error {
	for i := range r.Activities {
		a := &r.Activities[i]
		if a.ID != id {
			continue
		}
		switch field {
		case "status":
			a.ImplementationStatus = value
		case "version":
			a.Version = value
		case "displayName":
			a.DisplayName = value
		case "description":
			a.Description = value
		case "category":
			a.Category = value
		case "taskType":
			a.TaskType = value
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout value: %w", err)
			}
			a.Timeout = value
		case "retries":
			retries, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid retries value: %w", err)
			}
			a.Retries = retries
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		return nil
	}
	return fmt.Errorf("activity with ID %s not found", id)
}

// Validate checks required fields, uniqueness of IDs and task types, and
// that timeouts parse.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		taskTypes[a.TaskType] = true

		if a.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", a.ID)
		}
		if !knownCategory(a.Category) {
			return fmt.Errorf("activity %s has unknown category %q", a.ID, a.Category)
		}
		if a.Retries < 0 {
			return fmt.Errorf("activity %s has negative retries", a.ID)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q", a.ID, a.Timeout)
			}
		}
	}
	return nil
}
