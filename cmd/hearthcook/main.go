// hearthcook is a timed cooking-session engine for the hearth.
//
// Usage:
//
//	hearthcook recipes
//	hearthcook run [--db hearth.db] [--recipes pack.yaml]
//	hearthcook demo
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/hearthcook/internal/catalog"
	"github.com/hammamikhairi/hearthcook/internal/config"
	"github.com/hammamikhairi/hearthcook/internal/display"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "hearthcook",
		Short:         "Timed cooking sessions: reserve, cook, stir, serve",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("verbose", false, "enable verbose/debug logging")
	root.PersistentFlags().Bool("quiet", false, "disable all logging")
	root.PersistentFlags().String("log-file", ".hearthcook/hearth.log", "file to write logs to (use \"stderr\" to log to console)")

	root.AddCommand(newRecipesCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newDemoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogger builds the leveled logger, routed to a file by default so
// the REPL stays clean.
func setupLogger(cmd *cobra.Command, cfg config.Config) (*logger.Logger, func()) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	logFile, _ := cmd.Flags().GetString("log-file")

	level := cfg.LogLevel
	if verbose {
		level = logger.LevelVerbose
	}
	if quiet {
		level = logger.LevelOff
	}

	var out io.Writer = os.Stderr
	cleanup := func() {}
	if logFile != "" && logFile != "stderr" {
		if dir := filepath.Dir(logFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", logFile, err)
		} else {
			out = f
			cleanup = func() { f.Close() }
		}
	}

	// Redirect Go's default log package (sqlite and friends) to the
	// same output.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	return logger.New(level, out), cleanup
}

// buildCatalog creates the registry and folds in an optional YAML pack.
func buildCatalog(log *logger.Logger, packPath string) *catalog.Registry {
	recipes := catalog.NewRegistry(log)
	if packPath != "" {
		if _, err := recipes.LoadFile(packPath); err != nil {
			log.Error("recipe pack: %v", err)
		}
	}
	return recipes
}

func newRecipesCmd() *cobra.Command {
	var packPath string

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List the recipe catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			log, cleanup := setupLogger(cmd, cfg)
			defer cleanup()

			recipes := buildCatalog(log, packPath)
			list, err := recipes.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(display.Recipes(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&packPath, "recipes", "", "YAML recipe pack to load on top of the built-ins")
	return cmd
}
