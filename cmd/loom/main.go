// Command loom is the CLI client: it owns no terminal state of its own,
// translating one subcommand per wire request variant into a round trip
// against loomd over the daemon's Unix socket.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
