// Package cmd - CLI command: eurobase plan
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"eurobase/core/partition"
	"eurobase/internal/config"
)

var planCmd = &cobra.Command{
	Use:   "plan <dataset> [dimension=code1,code2 ...]",
	Short: "Show the sub-requests a fetch would issue, without fetching",
	Long: `Plan resolves the dataset metadata, computes the category count of the
selection and prints the quota-compliant sub-selections the partitioner
would issue. No data request is sent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	sel, err := parseSelection(args[1:])
	if err != nil {
		return err
	}

	cfg := config.Get()
	eng, closer, err := buildEngine(cfg, false)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	ds, subs, err := eng.Plan(context.Background(), args[0], sel)
	if err != nil {
		return err
	}

	fmt.Printf("dataset:     %s\n", ds.Code)
	fmt.Printf("categories:  %d (quota %d)\n", partition.CategoryCount(ds, sel), cfg.Service.Quota)
	fmt.Printf("sub-requests: %d\n\n", len(subs))
	for i, sub := range subs {
		fmt.Printf("%3d. [%2d categories] %s\n", i+1, partition.CategoryCount(ds, sub), sub)
	}
	return nil
}
