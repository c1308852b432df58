// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"readiness-workers/internal/common/validation"
	"readiness-workers/pkg/registry"

	"github.com/spf13/cobra"
)

// now is the clock used to stamp lastUpdated. Replaced in tests.
var now = time.Now

func newRootCmd() *cobra.Command {
	var registryPath string

	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintain the activity registry of the readiness workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&registryPath, "path", "p", "configs/activity-registry.json", "Path to registry file")

	root.AddCommand(
		newAddCmd(&registryPath),
		newUpdateCmd(&registryPath),
		newValidateCmd(&registryPath),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newAddCmd(registryPath *string) *cobra.Command {
	activity := registry.Activity{
		InputSchema:  map[string]interface{}{},
		OutputSchema: map[string]interface{}{},
		ErrorCodes:   []string{},
		Workflows:    []string{},
		Tags:         []string{},
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to the registry",
		Example: `  registry-updater add --id match-partners --taskType match-partners \
    --displayName "Match Partners" --description "Ranks catalog partners" --category readiness`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateTaskType(activity.TaskType); err != nil {
				return err
			}

			reg, err := registry.LoadRegistry(*registryPath)
			if err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				reg = &registry.ActivityRegistry{Version: "1.0.0", Activities: []registry.Activity{}}
			}

			for _, existing := range reg.Activities {
				if existing.ID == activity.ID {
					return fmt.Errorf("activity with ID %s already exists", activity.ID)
				}
			}

			reg.Activities = append(reg.Activities, activity)
			if err := reg.Validate(); err != nil {
				return err
			}
			reg.Touch(now())
			if err := reg.Save(*registryPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&activity.ID, "id", "", "Activity ID (e.g., match-partners)")
	f.StringVar(&activity.DisplayName, "displayName", "", "Display Name (e.g., Match Partners)")
	f.StringVar(&activity.Description, "description", "", "Description")
	f.StringVar(&activity.Category, "category", "", "Category (e.g., readiness)")
	f.StringVar(&activity.TaskType, "taskType", "", "Camunda Task Type (e.g., match-partners)")
	f.StringVar(&activity.Version, "version", "1.0.0", "Version")
	f.StringVar(&activity.ImplementationStatus, "status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	f.StringVar(&activity.Timeout, "timeout", "30s", "Job timeout")
	f.IntVar(&activity.Retries, "retries", 3, "Job retries")
	for _, name := range []string{"id", "displayName", "description", "category", "taskType"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUpdateCmd(registryPath *string) *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update an existing activity's field",
		Example: "  registry-updater update --id match-partners --field status --value completed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(*registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			var target *registry.Activity
			for i := range reg.Activities {
				if reg.Activities[i].ID == id {
					target = &reg.Activities[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("activity with ID %s not found", id)
			}
			if err := setField(target, field, value); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}

			reg.Touch(now())
			if err := reg.Save(*registryPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Activity ID to update")
	cmd.Flags().StringVar(&field, "field", "", "Field to update (status, version, etc.)")
	cmd.Flags().StringVar(&value, "value", "", "New value for the field")
	for _, name := range []string{"id", "field", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func setField(a *registry.Activity, field, value string) error {
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
		if err := validation.ValidateTaskType(value); err != nil {
			return err
		}
		a.TaskType = value
	case "timeout":
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
	return nil
}

func newValidateCmd(registryPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file and compile its input schemas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(*registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			if _, err := validation.NewValidator(reg); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}
