package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/telemetry"
)

var (
	v        *viper.Viper
	settings config.Settings

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

func init() {
	v = config.NewViper()

	rootCmd.PersistentFlags().String(config.KeyConfig, "", "Config file path (default: <user config dir>/sprint-tasks/config.json)")
	rootCmd.PersistentFlags().Duration(config.KeyTimeout, 30*time.Second, "HTTP timeout for Jira requests")
	rootCmd.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolP(config.KeyQuiet, "q", false, "Suppress non-essential output (errors only)")

	for _, key := range []string{config.KeyConfig, config.KeyTimeout, config.KeyVerbose, config.KeyQuiet} {
		_ = v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}

	// Same behavior as the version subcommand
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "sprint-tasks",
	Short: "sprint-tasks - List and create tasks in the active Jira sprint",
	Long: `List the tasks of a Jira board's active sprint together with its open backlog,
or create a new task directly in the active sprint.

On first run you are asked for your Jira domain, email, API token, board id
and project key. They are saved to the config file and reused afterwards.
When Jira rejects the saved token you are asked for a new one.

Environment variables:
  SPRINT_TASKS_CONFIG              config file path
  SPRINT_TASKS_TIMEOUT             HTTP timeout (default 30s)
  SPRINT_TASKS_SPRINT_FIELD        sprint custom field (default customfield_10020)
  SPRINT_TASKS_MAX_AUTH_ATTEMPTS   token prompts before giving up (0 = unlimited)
  SPRINT_TASKS_RATE_LIMIT_RETRIES  retries on HTTP 429 (default 3)
  SPRINT_TASKS_DEBUG               verbose output`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if ver, _ := cmd.Flags().GetBool("version"); ver {
			printVersion(cmd.OutOrStdout())
			return
		}
		runList(cmd, args)
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applySettings()
		initTelemetry()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(context.Background())

		// Cancel the signal context to clean up resources
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
