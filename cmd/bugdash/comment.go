package main

import (
	"github.com/spf13/cobra"

	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/ui"
)

var commentCmd = &cobra.Command{
	Use:     "comment <display-id> <text>",
	GroupID: "bugs",
	Short:   "Add a comment to a bug",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore(rootCtx)
		if err != nil {
			fatal("%v", err)
		}
		defer func() { _ = store.Close() }()

		bug, _, err := lookupByDisplayID(store, args[0])
		if err != nil {
			fatal("%v", err)
		}

		author := resolveActor()
		if author == "" {
			author = "anonymous"
		}
		if _, err := store.AddComment(rootCtx, bug.ID, author, args[1]); err != nil {
			fatal("failed to add comment: %v", err)
		}
		debug.PrintNormal("%s Commented on %s\n", ui.PassStyle.Render("✓"), args[0])
	},
}

func init() {
	rootCmd.AddCommand(commentCmd)
}
