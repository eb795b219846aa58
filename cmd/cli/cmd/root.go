// Package cmd provides the CLI commands for eurobase.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eurobase/internal/config"
	"eurobase/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "eurobase",
	Short: "Fetch multi-dimensional datasets from the statistical open-data service",
	Long: `eurobase is a client for a statistical agency's open-data REST API
and bulk-download facility.

Large queries are transparently split into quota-compliant sub-requests,
fetched concurrently and merged back into one dataset.

Examples:
  eurobase datasets --filter gdp
  eurobase dimensions nama_10_gdp
  eurobase plan demo_r_d2jan geo=AT,BE,DE
  eurobase fetch nama_10_gdp geo=AT,BE unit=CP_MEUR --format json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.eurobase.json, .hcl supported)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("eurobase version 0.1.0")
	},
}
