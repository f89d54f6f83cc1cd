package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var resizeCmd = &cobra.Command{
	Use:   "resize <id> <cols> <rows>",
	Short: "Resize a terminal",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		cols, err := strconv.Atoi(args[1])
		if err != nil {
			HandleError(err, "parse cols")
		}
		rows, err := strconv.Atoi(args[2])
		if err != nil {
			HandleError(err, "parse rows")
		}

		c := newClient()
		if err := c.ResizeTerminal(id, cols, rows); err != nil {
			HandleError(err, "resize terminal")
		}

		fmt.Println(ui.SuccessMsg(fmt.Sprintf("Resized to %dx%d", cols, rows)))
	},
}

func init() {
	rootCmd.AddCommand(resizeCmd)
}
