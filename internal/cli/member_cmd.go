package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trama/internal/cli/formatter"
	"trama/internal/domain"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage workspace members",
	}

	var email string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &domain.Member{
				MembershipID: uuid.NewString(),
				Name:         args[0],
				Email:        email,
			}
			if err := app.Members.Upsert(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", formatter.Bold(m.Name), formatter.TruncID(m.MembershipID))
			return nil
		},
	}
	add.Flags().StringVar(&email, "email", "", "Member email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := app.Members.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No members yet."))
				return nil
			}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				rows = append(rows, []string{
					formatter.TruncID(m.MembershipID),
					m.Name,
					formatter.Dim(m.Email),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "Name", "Email"}, rows))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a member",
		Long: "Remove a member. Tasks keep their responsible reference; they " +
			"show up as unassigned once the member record is gone.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Members.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed")
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}
