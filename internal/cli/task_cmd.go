package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trama/internal/cli/formatter"
	"trama/internal/domain"
	"trama/internal/wbs"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create and maintain WBS tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskEditCmd(app),
		newTaskDoneCmd(app),
		newTaskShowCmd(app),
		newTaskRmCmd(app),
		newTaskRestoreCmd(app),
		newTaskMoveCmd(app),
		newTaskPromoteCmd(app),
		newTaskDemoteCmd(app),
		newTaskReorderCmd(app),
		newTaskDepCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		parentRef   string
		nodeType    string
		status      string
		priority    string
		startDate   string
		endDate     string
		responsible string
		serviceID   string
		multiplier  float64
		estimate    float64
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}

			parentID := ""
			if parentRef != "" {
				id, err := resolveNodeID(app, parentRef)
				if err != nil {
					return err
				}
				parentID = id
			}

			n := &domain.Node{
				Title:            strings.Join(args, " "),
				Type:             nodeType,
				Status:           statusFromFlag(status),
				Priority:         string(domain.NormalizePriority(priority)),
				ResponsibleName:  responsible,
				ServiceCatalogID: serviceID,
			}
			if startDate != "" {
				n.StartDate = domain.ParseDate(startDate)
				if n.StartDate == nil {
					return fmt.Errorf("invalid start date %q", startDate)
				}
			}
			if endDate != "" {
				n.EndDate = domain.ParseDate(endDate)
				if n.EndDate == nil {
					return fmt.Errorf("invalid end date %q", endDate)
				}
			}
			if estimate > 0 {
				n.EstimateHours = &estimate
			}
			if serviceID != "" && multiplier > 0 {
				n.ServiceMultiplier = &multiplier
			}

			created, err := app.Tree.CreateNode(ctx, parentID, n)
			if err != nil {
				return err
			}

			row, _ := rowByID(app.Tree.AllRows(), created.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n",
				formatter.Bold(row.Code()), created.Title, formatter.TruncID(created.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.Flags().StringVarP(&parentRef, "parent", "p", "", "Parent task (id or code)")
	cmd.Flags().StringVar(&nodeType, "type", "task", "Node type (task, phase, milestone, ...)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (urgente, alta, media, baixa)")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Responsible display name")
	cmd.Flags().StringVar(&serviceID, "service", "", "Service catalog item id")
	cmd.Flags().Float64Var(&multiplier, "multiplier", 0, "Service hour multiplier")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "Estimate in hours")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		title       string
		description string
		status      string
		priority    string
		startDate   string
		endDate     string
		duration    int
		estimate    float64
		progress    float64
		serviceID   string
		multiplier  float64
	)

	cmd := &cobra.Command{
		Use:   "update <task>",
		Short: "Update task fields",
		Long: "Update task fields. Only flags that were set are applied; date " +
			"changes re-derive the hour estimate and --duration re-derives the " +
			"end date from the start date.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("status") {
				status = statusFromFlag(status)
			}
			if flags.Changed("priority") {
				priority = string(domain.NormalizePriority(priority))
			}
			changes := wbs.Update{
				Title:             strFlagPtr(flags, "title", &title),
				Description:       strFlagPtr(flags, "description", &description),
				Status:            strFlagPtr(flags, "status", &status),
				Priority:          strFlagPtr(flags, "priority", &priority),
				StartDate:         strFlagPtr(flags, "start", &startDate),
				EndDate:           strFlagPtr(flags, "end", &endDate),
				DurationDays:      intFlagPtr(flags, "duration", &duration),
				EstimateHours:     floatFlagPtr(flags, "estimate", &estimate),
				Progress:          floatFlagPtr(flags, "progress", &progress),
				ServiceCatalogID:  strFlagPtr(flags, "service", &serviceID),
				ServiceMultiplier: floatFlagPtr(flags, "multiplier", &multiplier),
			}

			if err := app.Tree.UpdateNode(ctx, id, changes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date, empty clears")
	cmd.Flags().StringVar(&endDate, "end", "", "End date, empty clears")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in calendar days")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "Estimate in hours")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Progress percentage for leaf tasks")
	cmd.Flags().StringVar(&serviceID, "service", "", "Service catalog item id")
	cmd.Flags().Float64Var(&multiplier, "multiplier", 0, "Service hour multiplier")

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "done <task>...",
		Short: "Mark one or more tasks as done",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}

			ids := make([]string, 0, len(args))
			for _, ref := range args {
				id, err := resolveNodeID(app, ref)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			applied, err := app.Tree.BulkUpdateStatus(ctx, ids, domain.StatusDone.BackendCode())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d task(s) done\n", applied)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "show <task>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			row, _ := rowByID(app.Tree.AllRows(), id)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s  %s\n", formatter.Bold(row.Code()), formatter.Bold(n.Title), formatter.TruncID(n.ID))
			fmt.Fprintf(out, "%s  %s\n", formatter.StatusPill(n.Status), formatter.PriorityPill(n.Priority))
			if n.Description != "" {
				fmt.Fprintf(out, "%s\n", n.Description)
			}
			fmt.Fprintf(out, "%s %s  %s %s\n",
				formatter.Dim("Start:"), formatter.FormatDate(n.StartDate),
				formatter.Dim("End:"), formatter.FormatDate(n.EndDate))
			if n.EstimateHours != nil {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("Estimate:"), formatter.FormatHours(*n.EstimateHours))
			}
			if name := domain.ResolveResponsibleName(n); name != "" {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("Responsible:"), name)
			}
			if pct, ok := app.Tree.Progress()[n.ID]; ok {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("Progress:"), formatter.RenderProgress(pct, 14))
			}

			deps := app.Tree.Dependencies(id)
			if len(deps) > 0 {
				fmt.Fprintf(out, "%s\n", formatter.Dim("Depends on:"))
				for _, d := range deps {
					label := d.Label
					if d.Resolved {
						label = fmt.Sprintf("%s %s", d.Label, d.Title)
					} else {
						label = fmt.Sprintf("%s %s", d.Label, formatter.Dim("(missing)"))
					}
					fmt.Fprintf(out, "  • %s\n", label)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

func newTaskRmCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "rm <task>",
		Short: "Move a task and its subtree to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tree.SoftDelete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to trash\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

func newTaskRestoreCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "restore <task-id>",
		Short: "Restore a task from the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}

			// Trashed tasks have no display code; match id or prefix
			// against the trash listing.
			ref := args[0]
			var id string
			for _, n := range app.Tree.Trash() {
				if n.ID == ref || strings.HasPrefix(n.ID, ref) {
					if id != "" {
						return fmt.Errorf("task reference %q is ambiguous", ref)
					}
					id = n.ID
				}
			}
			if id == "" {
				return fmt.Errorf("no trashed task matches %q", ref)
			}

			if err := app.Tree.Restore(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		parentRef   string
		position    int
	)

	cmd := &cobra.Command{
		Use:   "move <task>",
		Short: "Move a task under a new parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}

			parentID := ""
			if parentRef != "" {
				parentID, err = resolveNodeID(app, parentRef)
				if err != nil {
					return err
				}
			}

			if err := app.Tree.Move(ctx, id, parentID, position); err != nil {
				return err
			}
			row, _ := rowByID(app.Tree.AllRows(), id)
			fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s\n", formatter.Bold(row.Code()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.Flags().StringVarP(&parentRef, "parent", "p", "", "New parent (id or code), empty for top level")
	cmd.Flags().IntVar(&position, "pos", -1, "Position among new siblings, -1 appends")
	return cmd
}

func newTaskPromoteCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "promote <task>",
		Short: "Move a task up one level, after its former parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tree.Promote(ctx, id); err != nil {
				return err
			}
			row, _ := rowByID(app.Tree.AllRows(), id)
			fmt.Fprintf(cmd.OutOrStdout(), "Now at %s\n", formatter.Bold(row.Code()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

func newTaskDemoteCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "demote <task>",
		Short: "Nest a task under its preceding sibling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			expandID, err := app.Tree.Demote(ctx, id)
			if err != nil {
				return err
			}
			if expandID == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to demote under")
				return nil
			}
			row, _ := rowByID(app.Tree.AllRows(), id)
			fmt.Fprintf(cmd.OutOrStdout(), "Now at %s\n", formatter.Bold(row.Code()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

func newTaskReorderCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "reorder <task> <index>",
		Short: "Move a task to a zero-based position among its siblings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			var index int
			if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			if err := app.Tree.Reorder(ctx, id, index); err != nil {
				return err
			}
			row, _ := rowByID(app.Tree.AllRows(), id)
			fmt.Fprintf(cmd.OutOrStdout(), "Now at %s\n", formatter.Bold(row.Code()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}

func newTaskDepCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Maintain task dependencies",
	}

	add := &cobra.Command{
		Use:   "add <task> <predecessor>",
		Short: "Record that a task depends on a predecessor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			predID, err := resolveNodeID(app, args[1])
			if err != nil {
				return err
			}
			if err := app.Tree.AddDependency(ctx, id, predID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dependency recorded")
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <task> <predecessor>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			// The predecessor may be dangling, so fall back to the raw
			// reference when it does not resolve to a live node.
			predID := args[1]
			if resolved, err := resolveNodeID(app, args[1]); err == nil {
				predID = resolved
			}
			if err := app.Tree.RemoveDependency(ctx, id, predID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dependency removed")
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <task>",
		Short: "List a task's predecessors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			deps := app.Tree.Dependencies(id)
			if len(deps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No dependencies"))
				return nil
			}
			for _, d := range deps {
				if d.Resolved {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(d.Label), d.Title)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Label, formatter.Dim("(missing)"))
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.AddCommand(add, rm, list)
	return cmd
}
