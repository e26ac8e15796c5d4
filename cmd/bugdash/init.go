package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/configfile"
	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/storage/sqlite"
	"github.com/bugdash/bugdash/internal/ui"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "setup",
	Short:   "Initialize a bugdash workspace in the current directory",
	Long: `Creates a .bugdash/ directory with a metadata file and an empty
database. Safe to run in a directory that already has a workspace.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("failed to get working directory: %v", err)
		}
		ws := filepath.Join(cwd, configfile.WorkspaceDirName)

		cfg, err := configfile.Load(ws)
		if err != nil {
			fatal("%v", err)
		}
		if cfg == nil {
			cfg = configfile.DefaultConfig()
			if err := cfg.Save(ws); err != nil {
				fatal("%v", err)
			}
		}

		store, err := sqlite.New(rootCtx, cfg.DatabasePath(ws))
		if err != nil {
			fatal("failed to create database: %v", err)
		}
		defer func() { _ = store.Close() }()

		debug.PrintNormal("%s Initialized workspace at %s\n", ui.PassStyle.Render("✓"), ws)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
