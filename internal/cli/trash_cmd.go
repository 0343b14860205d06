package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trama/internal/cli/formatter"
)

func newTrashCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect and empty the trash",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List soft-deleted tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			trashed := app.Tree.Trash()
			if len(trashed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Trash is empty."))
				return nil
			}
			rows := make([][]string, 0, len(trashed))
			for _, n := range trashed {
				deleted := ""
				if n.DeletedAt != nil {
					deleted = formatter.HumanTimestamp(*n.DeletedAt)
				}
				rows = append(rows, []string{
					formatter.TruncID(n.ID),
					n.Title,
					formatter.StatusPill(n.Status),
					formatter.Dim(deleted),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "Title", "Status", "Deleted"}, rows))
			return nil
		},
	}

	var olderThanDays int
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete trashed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadTree(ctx, app, projectFlag); err != nil {
				return err
			}
			purged, err := app.Tree.PurgeTrash(ctx, olderThanDays)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d task(s)\n", purged)
			return nil
		},
	}
	purge.Flags().IntVar(&olderThanDays, "older-than", 30, "Only purge tasks deleted at least this many days ago (0 purges everything)")

	cmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.AddCommand(list, purge)
	return cmd
}
