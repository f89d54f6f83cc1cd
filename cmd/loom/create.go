package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loomd/internal/ui"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new terminal",
	Long: `Create a new tmux-backed terminal with an optional name.

Examples:
  loom create                  # create a terminal with an auto-generated tmux name
  loom create build            # create a terminal named "build"
  loom create --dir ./service  # create a terminal with an explicit working directory`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var name string
		if len(args) > 0 {
			name = args[0]
		}

		workingDir, _ := cmd.Flags().GetString("dir")
		workingDir = resolveWorkingDir(workingDir)

		c := newClient()
		id, err := c.CreateTerminal(name, workingDir)
		if err != nil {
			HandleError(err, "create terminal")
		}

		fmt.Println(ui.SuccessMsg(fmt.Sprintf("Created terminal %s", id)))
		fmt.Println()
		fmt.Printf("  %s %s\n", ui.Bold("ID:"), id)
		if name != "" {
			fmt.Printf("  %s %s\n", ui.Bold("Name:"), ui.Title(name))
		}
		if workingDir != "" {
			fmt.Printf("  %s %s\n", ui.Bold("Working Dir:"), workingDir)
		}

		fmt.Println()
		fmt.Println(ui.InfoMsg("Next steps:"))
		fmt.Printf("  loom send %s '<input>'\n", id)
		fmt.Println("  loom list")
	},
}

// resolveWorkingDir falls back to the current directory when dir is
// empty, and otherwise makes dir absolute.
func resolveWorkingDir(dir string) string {
	if dir == "" {
		cwd, err := os.Getwd()
		if err == nil {
			return cwd
		}
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err == nil {
		return abs
	}
	return dir
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringP("dir", "d", "", "Working directory for the terminal (defaults to the current directory)")
}
