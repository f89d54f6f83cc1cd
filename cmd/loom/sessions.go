package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List loom-owned tmux sessions",
	Long: `List every tmux session under the "loom" server whose name starts
with "loom-", whether or not the daemon has a terminal registered for it.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		sessions, err := c.ListAvailableSessions()
		if err != nil {
			HandleError(err, "list available sessions")
		}

		if len(sessions) == 0 {
			fmt.Println(ui.Dim("No loom-owned tmux sessions found."))
			return
		}

		fmt.Println(ui.Title("Available tmux sessions"))
		for _, name := range sessions {
			fmt.Printf("  %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
