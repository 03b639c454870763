// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, now, and reset when the charm backend is active.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/kv"
)

var syncResetConfirm bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync training data across devices",
	Long: `Sync training data across devices using Charm Cloud.

Requires the charm backend ("backend": "charm" in config, or
LIFTLOG_BACKEND=charm). Data is E2E encrypted with your SSH key before upload,
and every write syncs automatically.

COMMANDS:

  link      Link this device to your Charm account
  unlink    Disconnect this device from Charm
  status    Show sync status and account info
  now       Sync immediately
  reset     Replace local data with the cloud copy (destructive)

To move existing data into Charm, run 'liftlog migrate --to charm'.`,
}

// charmBackend returns the open backend when it is the charm one.
func charmBackend() (*kv.Charm, error) {
	c, ok := kvStore.(*kv.Charm)
	if !ok {
		return nil, fmt.Errorf("sync needs the charm backend (current: %s); set LIFTLOG_BACKEND=charm", cfg.GetBackend())
	}
	return c, nil
}

func runCharmCLI(args ...string) error {
	charmCmd := exec.Command("charm", args...)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = os.Stdout
	charmCmd.Stderr = os.Stderr
	return charmCmd.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		color.Green("\n✓ Device linked to Charm")

		if c, err := charmBackend(); err == nil {
			if err := c.Sync(); err != nil {
				warnf("Initial sync failed: %v", err)
			} else {
				color.Green("✓ Initial sync complete")
			}
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local training data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Backend:  %s\n", cfg.GetBackend())
		if cfg.GetBackend() != config.BackendCharm {
			fmt.Println("Sync:     off (local backend)")
			return nil
		}

		c, err := charmBackend()
		if err != nil {
			return err
		}
		host := cfg.CharmHost
		if host == "" {
			host = kv.DefaultCharmHost
		}
		fmt.Printf("Host:     %s\n", host)
		if id, err := c.ID(); err == nil {
			fmt.Printf("Charm ID: %s\n", id)
		} else {
			warnf("Not linked: %v", err)
		}
		if c.IsReadOnly() {
			warnf("Database is locked by another liftlog process; running read-only")
		}

		keys, err := kvStore.Keys()
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
		fmt.Printf("Keys:     %d\n", len(keys))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmBackend()
		if err != nil {
			return err
		}
		if err := c.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.Green("✓ Synced")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace local data with the cloud copy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmBackend()
		if err != nil {
			return err
		}

		if !syncResetConfirm {
			fmt.Print("Discard local changes and restore from Charm Cloud? [y/N] ")
			response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if r := strings.TrimSpace(strings.ToLower(response)); r != "y" && r != "yes" {
				fmt.Println("Reset canceled.")
				return nil
			}
		}

		if err := c.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Green("✓ Local data restored from cloud")
		return nil
	},
}

func init() {
	syncResetCmd.Flags().BoolVarP(&syncResetConfirm, "yes", "y", false, "skip confirmation prompt")

	syncCmd.AddCommand(syncLinkCmd, syncUnlinkCmd, syncStatusCmd, syncNowCmd, syncResetCmd)
	rootCmd.AddCommand(syncCmd)
}
