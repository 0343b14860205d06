package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trama/internal/cli/formatter"
)

func newCommentCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Post and read project comments",
	}

	var author string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Post a comment on the project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProject(ctx, app, projectFlag)
			if err != nil {
				return err
			}
			if _, err := app.Comments.Post(ctx, projectID, author, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Posted")
			return nil
		},
	}
	add.Flags().StringVar(&author, "author", "", "Author display name")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent comments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProject(ctx, app, projectFlag)
			if err != nil {
				return err
			}
			comments, err := app.Comments.ListByProject(ctx, projectID, limit)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No comments yet."))
				return nil
			}
			for _, c := range comments {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n  %s\n",
					formatter.Bold(c.AuthorName),
					formatter.Dim(formatter.HumanTimestamp(c.CreatedAt)),
					c.Body)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum comments to show")

	cmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.AddCommand(add, list)
	return cmd
}
