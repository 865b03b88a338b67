package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/sprint-tasks/internal/tasks"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task in the active sprint",
	Long: `Create a Task issue in the configured project and add it to the board's
active sprint. Values not given as flags are asked for interactively; an
empty description is allowed.

Examples:
  sprint-tasks create -s "Fix login redirect"
  sprint-tasks create -s "Write docs" -d ""
  sprint-tasks create                          # prompt for both`,
	Args: cobra.NoArgs,
	Run:  runCreate,
}

func init() {
	createCmd.Flags().StringP("summary", "s", "", "Task summary")
	createCmd.Flags().StringP("description", "d", "", "Task description")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) {
	a := mustApp()
	a.out = cmd.OutOrStdout()
	exitOnError(a.create(getRootContext(), newTaskFromFlags(cmd)))
}

// newTaskFromFlags leaves unset flags nil so they are prompted for.
// An explicitly empty flag value is kept.
func newTaskFromFlags(cmd *cobra.Command) tasks.NewTask {
	var task tasks.NewTask
	if cmd.Flags().Changed("summary") {
		s, _ := cmd.Flags().GetString("summary")
		task.Summary = &s
	}
	if cmd.Flags().Changed("description") {
		d, _ := cmd.Flags().GetString("description")
		task.Description = &d
	}
	return task
}
