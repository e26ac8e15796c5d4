package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/types"
	"github.com/bugdash/bugdash/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "bugs",
	Short:   "List bugs",
	Run: func(cmd *cobra.Command, args []string) {
		projectName, _ := cmd.Flags().GetString("project")
		statusFlag, _ := cmd.Flags().GetString("status")
		severityFlag, _ := cmd.Flags().GetString("severity")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		filter := types.BugFilter{Limit: limit}
		codeByProject := make(map[string]string)

		if projectName != "" {
			project, err := resolveProject(rootCtx, store, projectName)
			if err != nil {
				fatal("%v", err)
			}
			filter.ProjectID = project.ID
			codeByProject[project.ID] = project.Code
		} else {
			projects, err := store.ListProjects(rootCtx)
			if err != nil {
				fatal("%v", err)
			}
			for _, p := range projects {
				codeByProject[p.ID] = p.Code
			}
		}
		if statusFlag != "" {
			status := types.ParseStatus(statusFlag)
			filter.Status = &status
		}
		if severityFlag != "" {
			severity := types.ParseSeverity(severityFlag)
			filter.Severity = &severity
		}

		bugs, err := store.ListBugs(rootCtx, filter)
		if err != nil {
			fatal("%v", err)
		}
		if len(bugs) == 0 {
			fmt.Println(ui.MutedStyle.Render("No bugs match."))
			return
		}

		for _, b := range bugs {
			fmt.Printf("%s  %-13s %-11s %s\n",
				ui.AccentStyle.Render(b.DisplayID(codeByProject[b.ProjectID])),
				ui.SeverityStyle(string(b.Severity)).Render(string(b.Severity)),
				string(b.Status),
				b.Title)
		}
	},
}

func init() {
	listCmd.Flags().StringP("project", "p", "", "Filter by project name")
	listCmd.Flags().StringP("status", "s", "", "Filter by status")
	listCmd.Flags().String("severity", "", "Filter by severity")
	listCmd.Flags().IntP("limit", "n", 0, "Maximum bugs to show (0 = all)")
	rootCmd.AddCommand(listCmd)
}
