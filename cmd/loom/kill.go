package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var killCmd = &cobra.Command{
	Use:   "kill <id>",
	Short: "Destroy a terminal",
	Long: `Destroy a terminal by id: kills its tmux session and forgets it.

Examples:
  loom kill abc123def          # kill with confirmation
  loom kill --force abc123def  # skip confirmation prompt`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		force, _ := cmd.Flags().GetBool("force")

		if !force {
			fmt.Println(ui.WarningMsg(fmt.Sprintf("About to destroy terminal %s", id)))
			if !ConfirmAction("Are you sure you want to destroy this terminal? [y/N]: ") {
				fmt.Println(ui.InfoMsg("Terminal destruction cancelled."))
				return
			}
		}

		c := newClient()
		if err := c.DestroyTerminal(id); err != nil {
			HandleError(err, "destroy terminal")
		}

		fmt.Println(ui.SuccessMsg(fmt.Sprintf("Terminal %s destroyed", id)))

		remaining, err := c.ListTerminals()
		if err != nil {
			fmt.Println(ui.WarningMsg("Failed to check remaining terminals"))
			return
		}
		if len(remaining) > 0 {
			fmt.Printf("%s %d terminal(s) remaining\n", ui.InfoMsg("Status:"), len(remaining))
		} else {
			fmt.Println(ui.InfoMsg("No terminals remaining"))
		}
	},
}

var killAllCmd = &cobra.Command{
	Use:   "kill-all",
	Short: "Destroy every terminal the daemon tracks",
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		c := newClient()
		terminals, err := c.ListTerminals()
		if err != nil {
			HandleError(err, "list terminals")
		}

		if len(terminals) == 0 {
			fmt.Println(ui.InfoMsg("No terminals to destroy."))
			return
		}

		fmt.Println(ui.WarningMsg(fmt.Sprintf("About to destroy %d terminal(s):", len(terminals))))
		fmt.Println()
		fmt.Println(ui.SessionTable(terminals, nil))
		fmt.Println()

		if !force {
			if !ConfirmAction(fmt.Sprintf("Are you sure you want to destroy all %d terminal(s)? [y/N]: ", len(terminals))) {
				fmt.Println(ui.InfoMsg("Terminal destruction cancelled."))
				return
			}
		}

		failed := 0
		for _, term := range terminals {
			if err := c.DestroyTerminal(term.ID); err != nil {
				fmt.Println(ui.ErrorMsg(fmt.Sprintf("Failed to destroy %s: %v", term.ID, err)))
				failed++
			}
		}

		if failed == 0 {
			fmt.Println(ui.SuccessMsg(fmt.Sprintf("Destroyed all %d terminal(s)", len(terminals))))
		} else {
			fmt.Println(ui.WarningMsg(fmt.Sprintf("Destroyed %d of %d terminal(s)", len(terminals)-failed, len(terminals))))
		}
	},
}

func init() {
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(killAllCmd)

	killCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	killAllCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
}
