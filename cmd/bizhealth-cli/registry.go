package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/pkg/registry"
)

func newRegistryCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "configs/activity-registry.json", "path to registry file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Check required fields and compile every input schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				reg, err := registry.LoadRegistry(path)
				if err != nil {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				if err := reg.Validate(); err != nil {
					return err
				}
				if _, err := validation.NewFromRegistry(reg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered activities",
			RunE: func(cmd *cobra.Command, _ []string) error {
				reg, err := registry.LoadRegistry(path)
				if err != nil {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				for _, category := range registry.Categories {
					for _, a := range reg.InCategory(category) {
						fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-12s %-10s %s\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout)
					}
				}
				return nil
			},
		},
		newRegistryAddCmd(&path),
		newRegistryUpdateCmd(&path),
	)
	return cmd
}

func newRegistryAddCmd(path *string) *cobra.Command {
	var a registry.Activity
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(*path)
			if os.IsNotExist(err) {
				reg = &registry.ActivityRegistry{Version: "1.0.0", LastUpdated: time.Now().UTC().Format(time.RFC3339)}
			} else if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			if a.TaskType == "" {
				a.TaskType = a.ID
			}
			a.InputSchema = map[string]interface{}{"type": "object"}
			a.OutputSchema = map[string]interface{}{"type": "object"}
			a.ErrorCodes, a.Workflows, a.Tags = []string{}, []string{}, []string{}

			if err := reg.Add(a); err != nil {
				return err
			}
			if err := reg.Save(*path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.ID, "id", "", "activity id, e.g. send-health-alert")
	f.StringVar(&a.DisplayName, "display-name", "", "display name")
	f.StringVar(&a.Description, "description", "", "description")
	f.StringVar(&a.Category, "category", "", "category, e.g. health")
	f.StringVar(&a.TaskType, "task-type", "", "job type, defaults to the id")
	f.StringVar(&a.Version, "version", "1.0.0", "version")
	f.StringVar(&a.ImplementationStatus, "status", "planned", "planned, in-progress, completed or verified")
	f.StringVar(&a.Timeout, "timeout", "10s", "job timeout")
	for _, name := range []string{"id", "display-name", "category"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newRegistryUpdateCmd(path *string) *cobra.Command {
	var id, field, value string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update one field of an activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(id, field, value); err != nil {
				return err
			}
			if err := reg.Save(*path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "activity id")
	cmd.Flags().StringVar(&field, "field", "", "status, version, displayName, description, category, taskType, timeout or retries")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	for _, name := range []string{"id", "field", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
