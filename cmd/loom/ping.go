package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the daemon is reachable",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		if err := c.Ping(); err != nil {
			HandleError(err, "reach the daemon")
		}
		fmt.Println(ui.SuccessMsg("daemon is reachable"))
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
