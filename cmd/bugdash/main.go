// Command bugdash is a bug tracker with bulk spreadsheet import.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bugdash/bugdash/internal/configfile"
	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/storage/sqlite"
	"github.com/bugdash/bugdash/internal/telemetry"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	dbPath      string
	actorFlag   string
	verboseFlag bool
	quietFlag   bool

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "bugdash",
	Short: "bugdash - bug tracker with bulk spreadsheet import",
	Long: `Track projects and bugs, and bulk-import bug sheets (CSV/XLSX)
with per-project sequence numbering and attachment links.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("bugdash version %s\n", Version)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		if err := telemetry.Init(rootCtx, "bugdash", Version); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry init failed: %v\n", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := telemetry.Shutdown(rootCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry shutdown failed: %v\n", err)
		}
		rootCancel()
	},
}

func init() {
	viper.SetEnvPrefix("BUGDASH")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: auto-discover .bugdash/)")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "Actor name recorded on created bugs (default: $BUGDASH_ACTOR, $USER)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("actor", rootCmd.PersistentFlags().Lookup("actor"))

	rootCmd.AddGroup(
		&cobra.Group{ID: "bugs", Title: "Working With Bugs:"},
		&cobra.Group{ID: "data", Title: "Import & Export:"},
		&cobra.Group{ID: "setup", Title: "Setup & Reports:"},
	)
}

// resolveDBPath finds the database: --db flag, BUGDASH_DB env, then the
// discovered workspace's metadata file.
func resolveDBPath() (string, error) {
	if p := viper.GetString("db"); p != "" {
		return p, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	ws := configfile.Discover(cwd)
	if ws == "" {
		return "", fmt.Errorf("no %s workspace found (run `bugdash init` first)", configfile.WorkspaceDirName)
	}
	cfg, err := configfile.Load(ws)
	if err != nil {
		return "", err
	}
	if cfg == nil {
		cfg = configfile.DefaultConfig()
	}
	return cfg.DatabasePath(ws), nil
}

// openStore connects to the workspace database, failing with guidance when
// the workspace has not been initialized.
func openStore(ctx context.Context) (*sqlite.Store, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	debug.Logf("opening database %s\n", path)
	return sqlite.Open(ctx, path)
}

// resolveActor picks the actor name for audit fields.
func resolveActor() string {
	if a := viper.GetString("actor"); a != "" {
		return a
	}
	return os.Getenv("USER")
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
