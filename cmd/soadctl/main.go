package main

import (
	"os"

	"github.com/soad-platform/soad-deploy/internal/cli"
	"github.com/soad-platform/soad-deploy/internal/logging"
)

// main is the entry point for the soadctl CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
