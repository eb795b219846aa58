// Package cmd - CLI command: eurobase datasets
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"eurobase/internal/config"
)

var datasetsFilter string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets from the bulk table of contents",
	RunE:  runDatasets,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)

	datasetsCmd.Flags().StringVar(&datasetsFilter, "filter", "", "only list entries whose code or title contains this text")
}

func runDatasets(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	provider, closer, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	entries, err := provider.Datasets(context.Background())
	if err != nil {
		return err
	}

	filter := strings.ToLower(datasetsFilter)
	for _, entry := range entries {
		if entry.Type != "" && entry.Type != "dataset" {
			continue
		}
		if filter != "" &&
			!strings.Contains(strings.ToLower(entry.Code), filter) &&
			!strings.Contains(strings.ToLower(entry.Title), filter) {
			continue
		}
		fmt.Printf("%-20s %s\n", entry.Code, entry.Title)
	}
	return nil
}
