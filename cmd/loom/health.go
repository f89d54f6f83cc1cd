package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:   "health <id>",
	Short: "Check whether a terminal's tmux session is still alive",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		c := newClient()
		healthy, err := c.CheckSessionHealth(id)
		if err != nil {
			HandleError(err, "check session health")
		}

		if healthy {
			fmt.Println(ui.FormatTmuxStatus("reachable"))
		} else {
			fmt.Println(ui.FormatTmuxStatus("missing"))
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
