// Package main is the entry point for the kiromidi CLI.
//
// Usage:
//
//	kiromidi [flags] <command> [args]
//
// Commands:
//
//	monitor    - Run the UMP hub and print decoded traffic
//	send       - Send messages to a running hub
//	record     - Capture an input's traffic into the session store
//	replay     - Replay a captured session
//	sessions   - List or delete captured sessions
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/kiro-audio/midi/cmd/kiromidi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
