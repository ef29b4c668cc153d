// Package main is the entry point for the habits application.
// It loads configuration, opens the habit file and starts the TUI or runs
// one of the subcommands.
package main

import (
	"fmt"
	"os"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	c := newCLI()
	defer c.close()

	return newRootCmd(c).Execute()
}
