package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var attachCmd = &cobra.Command{
	Use:   "attach <id> <session-name>",
	Short: "Repoint a terminal at a different tmux session",
	Long: `Repoint an already-registered terminal id at a different, existing
tmux session name, verifying that session exists first. id must already be
tracked (see "loom list"); "loom sessions" lists the loom-owned tmux
session names.

Examples:
  loom attach abc123def loom-abc123def-default-1`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, sessionName := args[0], args[1]

		c := newClient()
		if err := c.AttachToSession(id, sessionName); err != nil {
			HandleError(err, "attach to session")
		}

		fmt.Println(ui.SuccessMsg(fmt.Sprintf("Terminal %s now tracks tmux session %s", id, sessionName)))
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
