package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Ask the daemon to exit",
	Long: `Ask the daemon to exit immediately. This is abrupt: in-flight requests
on other connections are not drained first (spec §5).`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		if !force && !ConfirmAction("Shut down the daemon? [y/N]: ") {
			fmt.Println(ui.InfoMsg("Shutdown cancelled."))
			return
		}

		c := newClient()
		if err := c.Shutdown(); err != nil {
			HandleError(err, "signal shutdown")
		}
		fmt.Println(ui.SuccessMsg("shutdown requested"))
	},
}

func init() {
	rootCmd.AddCommand(shutdownCmd)
	shutdownCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
}
