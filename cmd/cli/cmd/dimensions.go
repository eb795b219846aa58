// Package cmd - CLI command: eurobase dimensions
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"eurobase/internal/config"
)

var dimensionsLabels bool

var dimensionsCmd = &cobra.Command{
	Use:   "dimensions <dataset>",
	Short: "Show a dataset's dimensions and their code lists",
	Args:  cobra.ExactArgs(1),
	RunE:  runDimensions,
}

func init() {
	rootCmd.AddCommand(dimensionsCmd)

	dimensionsCmd.Flags().BoolVar(&dimensionsLabels, "labels", false, "resolve code labels from the dimension dictionaries")
}

func runDimensions(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	provider, closer, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	ctx := context.Background()
	ds, err := provider.Dataset(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("dataset: %s\n\n", ds.Code)
	for _, dim := range ds.Dimensions {
		fmt.Printf("%s (%d codes)\n", dim.Name, len(dim.Codes))

		var labels map[string]string
		if dimensionsLabels {
			labels, err = provider.Dictionary(ctx, dim.Name)
			if err != nil {
				fmt.Printf("  (no dictionary: %v)\n", err)
			}
		}
		for _, code := range dim.Codes {
			if label, ok := labels[code]; ok {
				fmt.Printf("  %-12s %s\n", code, label)
			} else {
				fmt.Printf("  %s\n", code)
			}
		}
		fmt.Println()
	}
	return nil
}
