package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit the tree interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("browse needs an interactive terminal")
			}

			ctx := cmd.Context()
			projectID, err := resolveProject(ctx, app, projectFlag)
			if err != nil {
				return err
			}
			if err := app.Tree.Load(ctx, projectID); err != nil {
				return fmt.Errorf("loading project tree: %w", err)
			}

			title := "Tasks"
			if p, err := app.Projects.GetByID(ctx, projectID); err == nil {
				title = p.Name
			}

			program := tea.NewProgram(newBrowseModel(app, title), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("running browse view: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	return cmd
}
