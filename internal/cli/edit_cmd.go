package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trama/internal/cli/formatter"
	"trama/internal/domain"
	"trama/internal/wbs"
)

func newTaskEditCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Edit a task interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("edit needs an interactive terminal, use 'task update' instead")
			}

			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			n := app.Tree.Node(id)
			if n == nil {
				return fmt.Errorf("task %s not found", args[0])
			}

			values := newTaskFormValues(n)
			before := values
			if err := taskEditForm(&values).Run(); err != nil {
				return err
			}

			changes := diffTaskForm(before, values)
			if changes == (wbs.Update{}) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No changes"))
				return nil
			}
			if err := app.Tree.UpdateNode(ctx, id, changes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

// diffTaskForm turns the edited form state into a partial update, leaving
// untouched fields nil so the engine does not rewrite them.
func diffTaskForm(before, after taskFormValues) wbs.Update {
	var changes wbs.Update
	if after.Title != before.Title {
		changes.Title = &after.Title
	}
	if after.Description != before.Description {
		changes.Description = &after.Description
	}
	if after.Status != before.Status {
		changes.Status = &after.Status
	}
	if after.Priority != before.Priority {
		changes.Priority = &after.Priority
	}
	if after.StartDate != before.StartDate {
		changes.StartDate = &after.StartDate
	}
	if after.EndDate != before.EndDate {
		changes.EndDate = &after.EndDate
	}
	if after.Estimate != before.Estimate && after.Estimate != "" {
		if v := parseFloatOrZero(after.Estimate); v >= 0 {
			changes.EstimateHours = &v
		}
	}
	if after.Responsible != before.Responsible {
		if after.Responsible == "" {
			changes.ClearResponsible = true
		} else {
			changes.Responsible = &domain.Member{Name: after.Responsible}
		}
	}
	return changes
}

func parseFloatOrZero(s string) float64 {
	var v float64
	if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
		return 0
	}
	return v
}
