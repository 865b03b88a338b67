package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active sprint tasks and open backlog items",
	Long: `List the issues of the board's active sprint, followed by backlog issues
that are not tagged [done] or [closed] in their summary.

Each line is "<parent>: KEY<TAB>summary"; the parent prefix is omitted for
top-level issues. A backlog that cannot be fetched is reported as a warning
and only sprint issues are printed.`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	a := mustApp()
	a.out = cmd.OutOrStdout()
	exitOnError(a.list(getRootContext()))
}
