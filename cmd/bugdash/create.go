package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/configfile"
	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/importer"
	"github.com/bugdash/bugdash/internal/spreadsheet"
	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/types"
	"github.com/bugdash/bugdash/internal/ui"
)

var createCmd = &cobra.Command{
	Use:     "create <title>",
	GroupID: "bugs",
	Short:   "Create a single bug",
	Long: `Creates one bug with the next sequence number in its project.
Field values accept the same labels as the import template, e.g.
--severity "Crash/Undoable" or --status "To Fix in Update".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectName, _ := cmd.Flags().GetString("project")
		description, _ := cmd.Flags().GetString("description")
		severity, _ := cmd.Flags().GetString("severity")
		priority, _ := cmd.Flags().GetString("priority")
		status, _ := cmd.Flags().GetString("status")

		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		project, err := resolveProject(rootCtx, store, projectName)
		if err != nil {
			fatal("%v", err)
		}

		row := spreadsheet.Row{
			"Title":       args[0],
			"Description": description,
			"Severity":    severity,
			"Priority":    priority,
			"Status":      status,
		}
		bug := importer.MapRow(row, project.ID, resolveActor())

		ids, err := createWithRetry(rootCtx, store, project.ID, bug)
		if err != nil {
			fatal("failed to create bug: %v", err)
		}
		debug.Logf("created bug %s\n", ids[0])

		debug.PrintNormal("%s Created %s: %s\n",
			ui.PassStyle.Render("✓"),
			ui.AccentStyle.Render(bug.DisplayID(project.Code)),
			bug.Title)
	},
}

// createWithRetry claims a sequence number and inserts the bug, re-claiming
// when a concurrent writer wins the race for the number.
func createWithRetry(ctx context.Context, store storage.Storage, projectID string, bug *types.Bug) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		base, err := store.ClaimBugNumbers(ctx, projectID, 1)
		if err != nil {
			return nil, err
		}
		bug.Number = base
		ids, err := store.CreateBugs(ctx, []*types.Bug{bug})
		if err == nil {
			return ids, nil
		}
		if !errors.Is(err, storage.ErrSequenceConflict) {
			return nil, err
		}
		debug.Logf("sequence conflict at number %d, re-claiming\n", base)
		lastErr = err
	}
	return nil, lastErr
}

// resolveProject looks up a project by name, falling back to the
// workspace's configured default project.
func resolveProject(ctx context.Context, store storage.Storage, name string) (*types.Project, error) {
	if name == "" {
		cwd, err := os.Getwd()
		if err == nil {
			if ws := configfile.Discover(cwd); ws != "" {
				if cfg, err := configfile.Load(ws); err == nil && cfg != nil {
					name = cfg.DefaultProject
				}
			}
		}
	}
	if name == "" {
		return nil, fmt.Errorf("no project specified (use --project or set default_project in %s)", configfile.ConfigFileName)
	}
	project, err := store.GetProjectByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project %q: %w", name, err)
	}
	return project, nil
}

func init() {
	createCmd.Flags().StringP("project", "p", "", "Project name (default: workspace default project)")
	createCmd.Flags().StringP("description", "d", "", "Bug description")
	createCmd.Flags().String("severity", "", "Severity (crash, high, medium, low, suggestion)")
	createCmd.Flags().String("priority", "", "Priority (highest, high, medium, low)")
	createCmd.Flags().String("status", "", "Status (new, open, blocked, in_progress, fixed, fix_in_update, wont_fix)")
	rootCmd.AddCommand(createCmd)
}
