package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/debug"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the saved Jira connection",
	Long: `Inspect or edit the saved Jira connection record.

Keys for 'config set':
  domain   Jira domain, e.g. your-domain.atlassian.net
  email    account email used with the API token
  token    Jira API token
  board    board id whose active sprint is used
  project  project key new tasks are created in`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config with the API token masked",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(mustApp().showConfig(cmd.OutOrStdout()))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(mustApp().setConfig(args[0], args[1]))
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), mustApp().store.Path)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func (a *app) showConfig(w io.Writer) error {
	cfg, err := a.store.Load()
	if err != nil {
		return err
	}
	masked := cfg.Masked()
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&masked); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// setConfig updates one key. A missing file starts from an empty record
// so the connection can be configured without prompts.
func (a *app) setConfig(key, value string) error {
	cfg := &config.Config{}
	if a.store.Exists() {
		loaded, err := a.store.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := a.store.Persist(cfg); err != nil {
		return err
	}
	shown := value
	if key == "token" {
		shown = config.MaskToken(value)
	}
	debug.Noticef("Set %s = %s\n", key, shown)
	return nil
}
