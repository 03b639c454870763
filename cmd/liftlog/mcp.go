// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants read and log your training through a standardized
protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "liftlog": {
        "command": "liftlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_workouts      List recent workouts
  get_workout        Get a workout with exercises and sets
  add_workout        Create a workout for a day
  log_set            Add a set to a workout
  list_sessions      List recent sessions
  get_session        Get a session with its logs
  search_exercises   Search catalog and custom exercises
  check_references   List orphaned exercise references
  exercise_series    Progress of one exercise for a metric

AVAILABLE RESOURCES:

  liftlog://recent    Recent workouts and sessions
  liftlog://orphans   Orphaned exercise references`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
