// Package main is the entry point for the relocation-cost CLI.
package main

import (
	"os"

	"relocation-cost/cmd/cli/cmd"
	"relocation-cost/internal/logging"
)

func main() {
	defer logging.Sync()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
