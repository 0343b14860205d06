package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trama/internal/cli/formatter"
	"trama/internal/domain"
	"trama/internal/wbs"
)

func newTreeCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		statusFlag  string
		ownerFlag   string
		serviceFlag string
		overdueOnly bool
		textFlag    string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the project tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}

			rows := app.Tree.AllRows()

			filter := wbs.Filter{
				ServiceID:   serviceFlag,
				OwnerID:     ownerFlag,
				OverdueOnly: overdueOnly,
				Text:        textFlag,
				Today:       time.Now(),
			}
			if statusFlag != "" {
				s := domain.NormalizeStatus(statusFlag)
				filter.Status = &s
			}
			if textFlag != "" {
				// The text filter also matches catalog service names.
				if items, err := app.Catalog.List(ctx); err == nil {
					names := make(map[string]string, len(items))
					for _, item := range items {
						names[item.ID] = item.Name
					}
					filter.ServiceNames = names
				}
			}
			rows = filter.Apply(rows)

			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderWBS(rows, app.Tree.Progress()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Only tasks in this status")
	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Only tasks owned by this member id")
	cmd.Flags().StringVar(&serviceFlag, "service", "", "Only tasks using this catalog item")
	cmd.Flags().BoolVar(&overdueOnly, "overdue", false, "Only overdue tasks")
	cmd.Flags().StringVarP(&textFlag, "filter", "f", "", "Free text filter")
	return cmd
}
