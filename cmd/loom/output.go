package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var outputCmd = &cobra.Command{
	Use:   "output <id>",
	Short: "Capture a terminal's scrollback",
	Long: `Capture a terminal's tmux pane output.

Examples:
  loom output abc123def                # full scrollback
  loom output abc123def --start-line 0 # only output from line 0 onward`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		startLine, _ := cmd.Flags().GetInt("start-line")
		if !cmd.Flags().Changed("start-line") {
			startLine = -1
		}

		c := newClient()
		output, total, err := c.GetTerminalOutput(id, startLine)
		if err != nil {
			HandleError(err, "capture terminal output")
		}

		fmt.Print(output)
		fmt.Println(ui.Dim(fmt.Sprintf("--- %d line(s) ---", total)))
	},
}

func init() {
	rootCmd.AddCommand(outputCmd)
	outputCmd.Flags().Int("start-line", 0, "Only capture output from this line onward")
}
