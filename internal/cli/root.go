package cli

import (
	"github.com/spf13/cobra"

	"trama/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Tree      service.TreeService
	Analytics service.AnalyticsService
	Catalog   service.CatalogService
	Members   service.MemberService
	Comments  service.CommentService

	// IsInteractive reports whether stdin is a terminal; interactive
	// forms and the browse view are only offered when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "trama" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "trama",
		Short: "Work breakdown structure planner and progress tracker",
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newTreeCmd(app),
		newTrashCmd(app),
		newCatalogCmd(app),
		newMemberCmd(app),
		newCommentCmd(app),
		newDashboardCmd(app),
		newBrowseCmd(app),
	)

	return root
}
