package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	GroupID: "setup",
	Short:   "Show bug statistics",
	Run: func(cmd *cobra.Command, args []string) {
		projectName, _ := cmd.Flags().GetString("project")

		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		projectID := ""
		if projectName != "" {
			project, err := resolveProject(rootCtx, store, projectName)
			if err != nil {
				fatal("%v", err)
			}
			projectID = project.ID
		}

		stats, err := store.GetStatistics(rootCtx, projectID)
		if err != nil {
			fatal("%v", err)
		}

		fmt.Println(ui.HeaderStyle.Render("Bug Statistics"))
		if projectID == "" {
			fmt.Printf("  Projects: %d\n", stats.TotalProjects)
		}
		fmt.Printf("  Total:    %d\n", stats.TotalBugs)
		fmt.Printf("  Open:     %s\n", ui.WarnStyle.Render(fmt.Sprintf("%d", stats.OpenBugs)))
		fmt.Printf("  Fixed:    %s\n", ui.PassStyle.Render(fmt.Sprintf("%d", stats.FixedBugs)))

		if len(stats.BySeverity) > 0 {
			fmt.Printf("\n%s\n", ui.HeaderStyle.Render("By Severity"))
			for severity, count := range stats.BySeverity {
				fmt.Printf("  %-12s %d\n", ui.SeverityStyle(string(severity)).Render(string(severity)), count)
			}
		}
		if len(stats.ByStatus) > 0 {
			fmt.Printf("\n%s\n", ui.HeaderStyle.Render("By Status"))
			for status, count := range stats.ByStatus {
				fmt.Printf("  %-14s %d\n", status, count)
			}
		}
	},
}

func init() {
	statsCmd.Flags().StringP("project", "p", "", "Limit to one project")
	rootCmd.AddCommand(statsCmd)
}
