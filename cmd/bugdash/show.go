package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/types"
	"github.com/bugdash/bugdash/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show <display-id>",
	GroupID: "bugs",
	Short:   "Show a bug's full details",
	Long:    `Looks up a bug by its composite display ID, e.g. "bugdash show 02-007".`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		bug, project, err := lookupByDisplayID(store, args[0])
		if err != nil {
			fatal("%v", err)
		}

		attachments, err := store.GetAttachments(rootCtx, bug.ID)
		if err != nil {
			fatal("%v", err)
		}
		comments, err := store.GetComments(rootCtx, bug.ID)
		if err != nil {
			fatal("%v", err)
		}

		fmt.Printf("%s %s\n", ui.HeaderStyle.Render(bug.DisplayID(project.Code)), bug.Title)
		fmt.Printf("  Project:  %s\n", project.Name)
		fmt.Printf("  Severity: %s\n", ui.SeverityStyle(string(bug.Severity)).Render(string(bug.Severity)))
		fmt.Printf("  Priority: %s\n", bug.Priority)
		fmt.Printf("  Status:   %s\n", bug.Status)
		fmt.Printf("  Result:   %s\n", bug.Resolution)
		if bug.Reporter != "" {
			fmt.Printf("  Reporter: %s\n", bug.Reporter)
		}
		fmt.Printf("  Created:  %s\n", bug.CreatedAt.Format("2006-01-02 15:04"))

		printSection("Description", bug.Description)
		printSection("Steps to reproduce", bug.StepsToReproduce)
		printSection("Expected result", bug.ExpectedResult)
		printSection("Actual result", bug.ActualResult)

		if len(attachments) > 0 {
			fmt.Printf("\n%s\n", ui.HeaderStyle.Render("Attachments"))
			for _, a := range attachments {
				fmt.Printf("  %s\n", a.URL)
			}
		}
		if len(comments) > 0 {
			fmt.Printf("\n%s\n", ui.HeaderStyle.Render("Comments"))
			for _, c := range comments {
				fmt.Printf("  %s %s\n    %s\n",
					ui.AccentStyle.Render(c.Author),
					ui.MutedStyle.Render(c.CreatedAt.Format("2006-01-02 15:04")),
					c.Text)
			}
		}
	},
}

// lookupByDisplayID resolves "02-007" to its bug and owning project.
func lookupByDisplayID(store storage.Storage, displayID string) (*types.Bug, *types.Project, error) {
	code, number, err := types.ParseDisplayID(displayID)
	if err != nil {
		return nil, nil, err
	}
	project, err := store.GetProjectByCode(rootCtx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("no project with code %q: %w", code, err)
	}
	bug, err := store.GetBugByNumber(rootCtx, project.ID, number)
	if err != nil {
		return nil, nil, fmt.Errorf("no bug %s: %w", displayID, err)
	}
	return bug, project, nil
}

func printSection(title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Printf("\n%s\n  %s\n", ui.HeaderStyle.Render(title),
		strings.ReplaceAll(body, "\n", "\n  "))
}

func init() {
	rootCmd.AddCommand(showCmd)
}
