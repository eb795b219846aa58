// Package main is the entry point for the eurobase CLI.
package main

import (
	"os"

	"eurobase/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
