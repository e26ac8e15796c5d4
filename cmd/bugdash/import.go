package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bugdash/bugdash/internal/configfile"
	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/importer"
	"github.com/bugdash/bugdash/internal/spreadsheet"
	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/storage/memory"
	"github.com/bugdash/bugdash/internal/types"
	"github.com/bugdash/bugdash/internal/ui"
)

var importCmd = &cobra.Command{
	Use:     "import <file>",
	GroupID: "data",
	Short:   "Bulk-import bugs from a CSV or XLSX sheet",
	Long: `Parses the sheet, shows a preview, and on confirmation commits the
whole batch: sequence numbers are claimed up front and every row becomes a
bug. The bug batch is all-or-nothing; if only the attachment phase fails the
bugs stay committed and the links can be re-attached with --attach-only.`,
	Example: `  bugdash import bugs.xlsx --project "Skeletal Dance Party"
  bugdash import bugs.csv -p Webgame --yes
  bugdash import bugs.csv -p Webgame --dry-run
  bugdash import bugs.xlsx -p Webgame --attach-only --base 8`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectName, _ := cmd.Flags().GetString("project")
		yes, _ := cmd.Flags().GetBool("yes")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		previewRows, _ := cmd.Flags().GetInt("preview-rows")
		attachOnly, _ := cmd.Flags().GetBool("attach-only")
		base, _ := cmd.Flags().GetInt("base")

		sheet, err := spreadsheet.ParseFile(args[0])
		if err != nil {
			fatal("failed to parse %s: %v", args[0], err)
		}

		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		project, err := resolveProject(rootCtx, store, projectName)
		if err != nil {
			fatal("%v", err)
		}

		if attachOnly {
			if base <= 0 {
				fatal("--attach-only requires --base (the first sequence number of the original batch)")
			}
			runReattach(store, project, sheet, base)
			return
		}

		if previewRows <= 0 {
			previewRows = configuredPreviewRows()
		}
		debug.PrintNormal("%s\n", ui.RenderPreview(sheet, previewRows, len(sheet.Rows)))

		if !yes && !dryRun && !confirmImport(len(sheet.Rows), project.Name) {
			fmt.Println(ui.MutedStyle.Render("Import aborted."))
			return
		}

		imp := importer.New(store, importer.Options{Reporter: resolveActor()})
		if dryRun {
			// Replay against a scratch store so nothing persists.
			scratch := memory.New()
			if err := scratch.CreateProject(rootCtx, project); err != nil {
				fatal("%v", err)
			}
			result := importer.New(scratch, importer.Options{Reporter: resolveActor()}).
				ImportSheet(rootCtx, project, sheet)
			if result.Err != nil {
				fatal("dry run failed at %s stage: %v", result.FailedStage, result.Err)
			}
			debug.PrintNormal("%s Dry run: would import %d bugs and %d attachment links into %s\n",
				ui.WarnStyle.Render("→"), result.Created, result.Attachments, project.Name)
			return
		}

		reportResult(imp.ImportSheet(rootCtx, project, sheet), project)
	},
}

func runReattach(store storage.Storage, project *types.Project, sheet *spreadsheet.Sheet, base int) {
	imp := importer.New(store, importer.Options{Reporter: resolveActor()})
	result := imp.Reattach(rootCtx, project, sheet, base)
	if result.Err != nil {
		fatal("re-attach failed: %v", result.Err)
	}
	debug.PrintNormal("%s Attached %d links starting at number %d\n",
		ui.PassStyle.Render("✓"), result.Attachments, base)
}

// confirmImport prompts on a TTY; in a pipe the batch requires --yes.
func confirmImport(rows int, projectName string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fatal("stdin is not a terminal; pass --yes to import without confirmation")
	}
	fmt.Printf("Import %d bugs into %s? [y/N] ", rows, projectName)
	reply, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	reply = strings.ToLower(strings.TrimSpace(reply))
	return reply == "y" || reply == "yes"
}

func reportResult(result *importer.Result, project *types.Project) {
	switch {
	case result.Failed():
		fatal("import failed at %s stage: %v", result.FailedStage, result.Err)
	case result.Partial():
		fmt.Printf("%s Imported %d bugs (%s..%s) but the attachment phase failed: %v\n",
			ui.WarnStyle.Render("!"),
			result.Created,
			result.DisplayIDs[0], result.DisplayIDs[len(result.DisplayIDs)-1],
			result.Err)
		fmt.Printf("  The bugs are committed. Re-run with: --attach-only --base %d\n", result.BaseNumber)
		os.Exit(1)
	default:
		rangeLabel := ""
		if len(result.DisplayIDs) > 0 {
			rangeLabel = fmt.Sprintf(" as %s..%s", result.DisplayIDs[0], result.DisplayIDs[len(result.DisplayIDs)-1])
		}
		debug.PrintNormal("%s Imported %d bugs and %d attachment links into %s%s\n",
			ui.PassStyle.Render("✓"), result.Created, result.Attachments, project.Name, rangeLabel)
	}
}

// configuredPreviewRows reads the workspace preview setting, falling back
// to the package default.
func configuredPreviewRows() int {
	cwd, err := os.Getwd()
	if err != nil {
		return spreadsheet.DefaultPreviewRows
	}
	if ws := configfile.Discover(cwd); ws != "" {
		if cfg, err := configfile.Load(ws); err == nil && cfg != nil && cfg.PreviewRows > 0 {
			return cfg.PreviewRows
		}
	}
	return spreadsheet.DefaultPreviewRows
}

func init() {
	importCmd.Flags().StringP("project", "p", "", "Target project name (default: workspace default project)")
	importCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	importCmd.Flags().Bool("dry-run", false, "Run the full pipeline against a scratch store; persist nothing")
	importCmd.Flags().Int("preview-rows", 0, "Rows to show in the preview (default from workspace config)")
	importCmd.Flags().Bool("attach-only", false, "Only re-run the attachment phase of a partially-failed import")
	importCmd.Flags().Int("base", 0, "First sequence number of the original batch (with --attach-only)")
	rootCmd.AddCommand(importCmd)
}
