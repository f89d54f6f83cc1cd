package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"loomd/internal/daemon"
)

var (
	cfgFile    string
	socketFlag string
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "A CLI client for the loom terminal daemon",
	Long: color.New(color.FgHiWhite).Sprint(`
╔═══════════════════════════════════════════════════════════════╗
║                            loom                                ║
║                                                               ║
║    A CLI client for loomd, the tmux-backed terminal daemon.   ║
╚═══════════════════════════════════════════════════════════════╝

`) + color.New(color.FgCyan).Sprint("Available Commands:") + `
  ping      Check that the daemon is reachable
  create    Create a new terminal
  list      List all terminals the daemon tracks
  kill      Destroy a terminal
  send      Send input to a terminal
  output    Capture a terminal's scrollback
  resize    Resize a terminal
  health    Check whether a terminal's tmux session is still alive
  sessions  List loom-owned tmux sessions
  attach    Repoint a terminal at a different tmux session
  shutdown  Ask the daemon to exit

Use "loom [command] --help" for more information about a command.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/loom/loom.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "daemon socket path (default is $HOME/.loom/daemon.sock, overridable by LOOM_SOCKET_PATH)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := os.UserConfigDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(configDir + "/loom")
		viper.SetConfigType("yaml")
		viper.SetConfigName("loom")
	}

	viper.SetEnvPrefix("LOOM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// resolveSocketPath honors --socket, then LOOM_SOCKET_PATH, then the
// daemon's own default — the same precedence the daemon itself applies
// when binding (spec §6).
func resolveSocketPath() (string, error) {
	if socketFlag != "" {
		return socketFlag, nil
	}
	if env := os.Getenv("LOOM_SOCKET_PATH"); env != "" {
		return env, nil
	}
	return daemon.DefaultSocketPath()
}
