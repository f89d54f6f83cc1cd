package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all terminals the daemon tracks",
	Aliases: []string{"ls"},
	Long: `List every terminal loomd currently tracks.

Examples:
  loom list               # list terminals, most recently created first
  loom list --sort=name   # sort by name instead of creation time`,
	Run: func(cmd *cobra.Command, args []string) {
		sortBy, _ := cmd.Flags().GetString("sort")

		c := newClient()
		terminals, err := c.ListTerminals()
		if err != nil {
			HandleError(err, "list terminals")
		}

		fmt.Println(ui.Title("loom terminals"))
		fmt.Println()

		if len(terminals) == 0 {
			fmt.Println(ui.Dim("No terminals found."))
			fmt.Println()
			fmt.Println(ui.InfoMsg("Create one:"))
			fmt.Println("  loom create [name]")
			return
		}

		switch sortBy {
		case "name":
			sort.Slice(terminals, func(i, j int) bool { return terminals[i].Name < terminals[j].Name })
		case "id":
			sort.Slice(terminals, func(i, j int) bool { return terminals[i].ID < terminals[j].ID })
		default: // "created"
			sort.Slice(terminals, func(i, j int) bool { return terminals[i].CreatedAt > terminals[j].CreatedAt })
		}

		fmt.Println(ui.SessionTable(terminals, nil))
		fmt.Println()
		fmt.Printf("%s Total: %d terminal(s)\n", ui.InfoMsg("Summary:"), len(terminals))

		fmt.Println()
		fmt.Println(ui.InfoMsg("Available commands:"))
		fmt.Println("  loom health <id>")
		fmt.Println("  loom kill <id>")
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("sort", "s", "created", "Sort by: name, id, created")
}
