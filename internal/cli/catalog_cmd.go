package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trama/internal/cli/formatter"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the service catalog",
		Long: "Manage the service catalog. Tasks reference a catalog item to " +
			"derive their planned hours from the item's base hours and the " +
			"task's multiplier.",
	}

	var (
		baseHours float64
		rate      float64
	)
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a catalog item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app.Catalog.Create(cmd.Context(), strings.Join(args, " "), baseHours, rate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", formatter.Bold(item.Name), formatter.TruncID(item.ID))
			return nil
		},
	}
	add.Flags().Float64Var(&baseHours, "hours", 0, "Base hours per unit")
	add.Flags().Float64Var(&rate, "rate", 0, "Hourly rate")

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Catalog is empty."))
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					formatter.TruncID(item.ID),
					item.Name,
					formatter.FormatHours(item.BaseHours),
					fmt.Sprintf("%.2f", item.Rate),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "Name", "Base", "Rate"}, rows))
			return nil
		},
	}

	var (
		newName  string
		newHours float64
		newRate  float64
	)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			item, err := app.Catalog.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				item.Name = newName
			}
			if flags.Changed("hours") {
				item.BaseHours = newHours
			}
			if flags.Changed("rate") {
				item.Rate = newRate
			}
			if err := app.Catalog.Update(ctx, item); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated")
			return nil
		},
	}
	update.Flags().StringVar(&newName, "name", "", "New name")
	update.Flags().Float64Var(&newHours, "hours", 0, "New base hours")
	update.Flags().Float64Var(&newRate, "rate", 0, "New hourly rate")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}

	cmd.AddCommand(add, list, update, rm)
	return cmd
}
