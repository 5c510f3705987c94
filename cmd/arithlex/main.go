// Package main is the entry point for the arithlex command.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errFailed is returned when a command has already reported its failures
// and only the exit status remains to be set.
var errFailed = errors.New("one or more inputs failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "arithlex",
		Short:         "Lexical analyser for simple arithmetic expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version + " (commit=" + commit + ", built=" + date + ")"
	root.SetVersionTemplate("arithlex version {{.Version}}\n")

	root.AddCommand(newScanCmd(), newCheckCmd(), newServeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
