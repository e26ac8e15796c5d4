package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/types"
	"github.com/bugdash/bugdash/internal/ui"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	GroupID: "setup",
	Short:   "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a project",
	Long: `Registers a project. The display code is the numeric prefix on
composite bug IDs ("02" in "02-007"); by default the next free code is
assigned automatically.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		code, _ := cmd.Flags().GetString("code")
		description, _ := cmd.Flags().GetString("description")

		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		if code == "" {
			existing, err := store.ListProjects(rootCtx)
			if err != nil {
				fatal("%v", err)
			}
			code = fmt.Sprintf("%02d", len(existing)+1)
		}

		now := time.Now()
		project := &types.Project{
			ID:          uuid.NewString(),
			Code:        code,
			Name:        args[0],
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := project.Validate(); err != nil {
			fatal("%v", err)
		}
		if err := store.CreateProject(rootCtx, project); err != nil {
			fatal("failed to create project: %v", err)
		}

		debug.PrintNormal("%s Created project %s (%s)\n",
			ui.PassStyle.Render("✓"), project.Name, ui.AccentStyle.Render(project.Code))
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		projects, err := store.ListProjects(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		if len(projects) == 0 {
			fmt.Println(ui.MutedStyle.Render("No projects. Add one with `bugdash project add <name>`."))
			return
		}
		for _, p := range projects {
			line := fmt.Sprintf("%s  %s", ui.AccentStyle.Render(p.Code), p.Name)
			if p.Description != "" {
				line += "  " + ui.MutedStyle.Render(p.Description)
			}
			fmt.Println(line)
		}
	},
}

func init() {
	projectAddCmd.Flags().String("code", "", "Display code (numeric, e.g. \"02\"); auto-assigned when omitted")
	projectAddCmd.Flags().StringP("description", "d", "", "Project description")
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	rootCmd.AddCommand(projectCmd)
}
