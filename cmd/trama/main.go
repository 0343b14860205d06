package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"trama/internal/cli"
	"trama/internal/db"
	"trama/internal/repository"
	"trama/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.trama/trama.db
	dbPath := os.Getenv("TRAMA_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".trama", "trama.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	nodeRepo := repository.NewSQLiteNodeRepo(database)
	catalogRepo := repository.NewSQLiteServiceCatalogRepo(database)
	memberRepo := repository.NewSQLiteMemberRepo(database)
	commentRepo := repository.NewSQLiteCommentRepo(database)

	// Wire unit of work for transactional tree commits
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if os.Getenv("TRAMA_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects:  service.NewProjectService(projectRepo),
		Tree:      service.NewTreeService(nodeRepo, uow, observers...),
		Analytics: service.NewAnalyticsService(nodeRepo, catalogRepo, commentRepo, projectRepo, observers...),
		Catalog:   service.NewCatalogService(catalogRepo),
		Members:   service.NewMemberService(memberRepo),
		Comments:  service.NewCommentService(commentRepo),
	}

	// Interactive detection gates forms, spinners and the browse view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
