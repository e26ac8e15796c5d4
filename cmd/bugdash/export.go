package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/export"
	"github.com/bugdash/bugdash/internal/types"
	"github.com/bugdash/bugdash/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "data",
	Short:   "Export bugs to CSV",
	Long: `Writes bugs as CSV with the same columns the import template uses,
so an export can be re-imported elsewhere.`,
	Run: func(cmd *cobra.Command, args []string) {
		projectName, _ := cmd.Flags().GetString("project")
		output, _ := cmd.Flags().GetString("output")

		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		filter := types.BugFilter{}
		if projectName != "" {
			project, err := resolveProject(rootCtx, store, projectName)
			if err != nil {
				fatal("%v", err)
			}
			filter.ProjectID = project.ID
		}

		w := os.Stdout
		if output != "" && output != "-" {
			f, err := os.Create(output) // #nosec G304 - user-supplied output path
			if err != nil {
				fatal("failed to create %s: %v", output, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		if err := export.WriteCSV(rootCtx, w, store, filter); err != nil {
			fatal("export failed: %v", err)
		}
		if output != "" && output != "-" {
			debug.PrintNormal("%s Exported to %s\n", ui.PassStyle.Render("✓"), output)
		}
	},
}

func init() {
	exportCmd.Flags().StringP("project", "p", "", "Export only this project's bugs")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
