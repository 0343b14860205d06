package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trama/internal/analytics"
	"trama/internal/cli/formatter"
)

func newDashboardCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		allProjects bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the analytics dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			scope := analytics.ScopeAllProjects
			if !allProjects {
				projectID, err := resolveProject(ctx, app, projectFlag)
				if err != nil {
					return err
				}
				scope = projectID
			}

			var stop func()
			if app.IsInteractive != nil && app.IsInteractive() {
				stop = formatter.StartSpinner("Crunching numbers...")
			}
			report, err := app.Analytics.Refresh(ctx, scope)
			if stop != nil {
				stop()
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderDashboard(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.Flags().BoolVar(&allProjects, "all", false, "Aggregate across every project")
	return cmd
}
