package main

import (
	"fmt"
	"os"
	"strings"

	"loomd/internal/ipcclient"
	"loomd/internal/ui"
)

// newClient resolves the daemon socket path and builds a Client against
// it. It eliminates the duplicated socket-resolution call that would
// otherwise appear at the top of every subcommand's Run.
func newClient() *ipcclient.Client {
	socketPath, err := resolveSocketPath()
	if err != nil {
		HandleError(err, "resolve daemon socket path")
	}
	return ipcclient.New(socketPath)
}

// HandleError provides consistent error handling and exit across all
// commands.
func HandleError(err error, action string) {
	fmt.Println(ui.ErrorMsg(fmt.Sprintf("Failed to %s: %v", action, err)))
	os.Exit(1)
}

// ConfirmAction handles user confirmation prompts consistently.
func ConfirmAction(message string) bool {
	fmt.Print(ui.Prompt(message))
	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
