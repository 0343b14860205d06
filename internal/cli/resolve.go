package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"trama/internal/domain"
	"trama/internal/wbs"
)

// projectEnvVar names the environment override for the active project, so
// scripts do not have to repeat --project on every call.
const projectEnvVar = "TRAMA_PROJECT"

// resolveProject determines the project to operate on: the --project flag
// wins, then the environment, then the only existing project. With several
// projects and no selection the user has to choose explicitly.
func resolveProject(ctx context.Context, app *App, flagValue string) (string, error) {
	if flagValue != "" {
		return resolveProjectRef(ctx, app, flagValue)
	}
	if env := os.Getenv(projectEnvVar); env != "" {
		return resolveProjectRef(ctx, app, env)
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing projects: %w", err)
	}
	switch len(projects) {
	case 0:
		return "", fmt.Errorf("no projects yet, create one with 'trama project add'")
	case 1:
		return projects[0].ID, nil
	default:
		return "", fmt.Errorf("several projects exist, select one with --project or %s", projectEnvVar)
	}
}

// resolveProjectRef accepts a project id, id prefix or exact name.
func resolveProjectRef(ctx context.Context, app *App, ref string) (string, error) {
	if p, err := app.Projects.GetByID(ctx, ref); err == nil {
		return p.ID, nil
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing projects: %w", err)
	}
	var matches []string
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) || strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no project matches %q", ref)
	default:
		return "", fmt.Errorf("project reference %q is ambiguous", ref)
	}
}

// loadTree resolves the project and loads its tree into the service.
func loadTree(ctx context.Context, app *App, projectFlag string) error {
	projectID, err := resolveProject(ctx, app, projectFlag)
	if err != nil {
		return err
	}
	if err := app.Tree.Load(ctx, projectID); err != nil {
		return fmt.Errorf("loading project tree: %w", err)
	}
	return nil
}

// resolveNodeID accepts a node id, id prefix or display code ("2.3") and
// returns the matching node id from the loaded tree.
func resolveNodeID(app *App, ref string) (string, error) {
	rows := app.Tree.AllRows()

	for _, row := range rows {
		if row.Node.ID == ref {
			return ref, nil
		}
	}
	for _, row := range rows {
		if row.DisplayCode == ref || row.Node.Code == ref {
			return row.Node.ID, nil
		}
	}

	var matches []string
	for _, row := range rows {
		if strings.HasPrefix(row.Node.ID, ref) {
			matches = append(matches, row.Node.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task matches %q", ref)
	default:
		return "", fmt.Errorf("task reference %q is ambiguous", ref)
	}
}

// rowByID finds the flattened row for a node id.
func rowByID(rows []wbs.Row, id string) (wbs.Row, bool) {
	for _, row := range rows {
		if row.Node.ID == id {
			return row, true
		}
	}
	return wbs.Row{}, false
}

// siblingIndex returns a node's current position under its parent.
func siblingIndex(rows []wbs.Row, id string) int {
	row, ok := rowByID(rows, id)
	if !ok {
		return -1
	}
	idx := 0
	for _, r := range rows {
		if r.ParentID != row.ParentID {
			continue
		}
		if r.Node.ID == id {
			return idx
		}
		idx++
	}
	return -1
}

// statusFromFlag maps a user-entered status onto its backend code; loose
// labels are accepted the same way imported data is.
func statusFromFlag(raw string) string {
	return domain.NormalizeStatus(raw).BackendCode()
}
