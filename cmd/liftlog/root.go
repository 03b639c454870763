// ABOUTME: Root Cobra command for liftlog CLI.
// ABOUTME: Opens config, backend, catalog and store in PersistentPreRunE and closes them after.
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/kv"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/storage"
)

// annotationManualStartup marks commands that run the startup pass themselves.
const annotationManualStartup = "liftlog/manual-startup"

var version = "dev"

var (
	cfg       *config.Config
	logger    *log.Logger
	kvStore   kv.Store
	store     *storage.Store
	refresher *catalog.Refresher

	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:     "liftlog",
	Short:   "Workout logger with versioned local storage",
	Version: version,
	Long: `Liftlog records strength and cardio training.

TWO WAYS TO LOG:

  Sessions   live training: start, log exercises as you go, finish
  Workouts   a training day entered after the fact, set by set

QUICK START:

  $ liftlog session start
  $ liftlog session log Barbell_Deadlift --weight 140 --reps 5
  $ liftlog session finish

  $ liftlog workout add --date 2024-03-01
  $ liftlog workout set abc123 Pullups --reps 10

EXERCISES:

  $ liftlog exercise search chest       # search the catalog
  $ liftlog exercise add "Sled Push" --category strongman
  $ liftlog catalog refresh             # download the latest catalog

DATA & BACKENDS:

  Data lives in a key-value backend chosen in ~/.config/liftlog/config.json
  or with LIFTLOG_BACKEND: sqlite (default), badger, charm (synced) or memory.
  Records are upgraded to the current schema on every start.

  $ liftlog check                     # report orphaned exercise references
  $ liftlog migrate --dry-run         # show pending schema upgrades
  $ liftlog migrate --to charm        # copy everything to another backend

SERVERS:

  $ liftlog serve                     # HTTP JSON API
  $ liftlog mcp                       # Model Context Protocol over stdio`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "install-skill" {
			return nil
		}
		return openStore(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func openStore(cmd *cobra.Command) error {
	// PersistentPostRunE does not run after a failed command.
	if err := closeStore(); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = logging.New(logging.Options{
		Level:  cfg.GetLogLevel(),
		Format: cfg.GetLogFormat(),
		Prefix: "liftlog",
	})

	kvStore, err = cfg.OpenKV()
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.GetBackend(), err)
	}

	refresher = catalog.NewRefresher(kvStore, cfg.GetCatalogURL(), cfg.GetRefreshInterval(), logger)
	cat, err := refresher.Resolve()
	if err != nil {
		return fmt.Errorf("failed to load exercise catalog: %w", err)
	}

	store = storage.New(kvStore, cat, logger)

	if cmd.Annotations[annotationManualStartup] == "true" {
		return nil
	}

	report, err := store.OnAppStart()
	if err != nil {
		// Failed loads and saves are retried on the next start.
		warnf("Storage problem at startup: %v", err)
	}
	if report != nil && len(report.Orphans) > 0 && cmd.Name() != "check" {
		warnf("%d logged exercise(s) no longer in the catalog; run 'liftlog check'", len(report.Orphans))
	}
	if refresher.RefreshDue() {
		logger.Debug("exercise catalog refresh due", "url", refresher.CatalogURL())
	}
	return nil
}

func closeStore() error {
	store = nil
	if kvStore == nil {
		return nil
	}
	err := kvStore.Close()
	kvStore = nil
	return err
}

// manualStartup marks cmd so the root does not run OnAppStart for it.
func manualStartup(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationManualStartup] = "true"
	return cmd
}

// warnf prints a warning to stderr so it never mixes with MCP traffic on stdout.
func warnf(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(color.Error, "⚠ "+format+"\n", args...)
}
