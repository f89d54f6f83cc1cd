package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var sendCmd = &cobra.Command{
	Use:   "send <id> <data>",
	Short: "Send input to a terminal",
	Long: `Send raw input to a terminal's pty. Data that is exactly a carriage
return is sent as the Enter key, data that is exactly byte 0x03 is sent as
Ctrl-C, and anything else is sent literally. The argument is not
unescaped, so control characters must be produced by the shell, for
example with $'...' quoting.

Examples:
  loom send abc123def $'ls -la\r'
  loom send abc123def $'\x03'`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, data := args[0], args[1]

		c := newClient()
		if err := c.SendInput(id, data); err != nil {
			HandleError(err, "send input")
		}

		fmt.Println(ui.SuccessMsg("input sent"))
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
