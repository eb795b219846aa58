// Package cmd - CLI command: eurobase fetch
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"eurobase/core/engine"
	"eurobase/core/types"
	"eurobase/internal/config"
)

var (
	fetchFormat  string
	fetchPartial bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <dataset> [dimension=code1,code2 ...]",
	Short: "Fetch dataset cells for a selection",
	Long: `Fetch retrieves the cells a selection asks for. Selections larger than
the service's category quota are split into multiple sub-requests and the
payloads merged back into one table.

Unfiltered dimensions mean "all codes". With --partial, transport
failures of individual sub-requests degrade the result instead of
failing the fetch; the missing sub-selections are reported on stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", "tsv", "output format (tsv, json)")
	fetchCmd.Flags().BoolVar(&fetchPartial, "partial", false, "accept partial results when sub-requests fail")
}

func runFetch(cmd *cobra.Command, args []string) error {
	sel, err := parseSelection(args[1:])
	if err != nil {
		return err
	}

	cfg := config.Get()
	eng, closer, err := buildEngine(cfg, fetchPartial)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	result, err := eng.Fetch(context.Background(), args[0], sel)
	var partial *engine.PartialError
	if errors.As(err, &partial) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", partial)
		for _, f := range partial.Failures {
			fmt.Fprintf(os.Stderr, "  missing %s: %v\n", f.Selection, f.Err)
		}
	} else if err != nil {
		return err
	}

	return printResult(result)
}

func printResult(result *types.Result) error {
	switch fetchFormat {
	case "json":
		out := struct {
			Dataset   string            `json:"dataset"`
			Cells     []types.Cell      `json:"cells"`
			Unfetched []types.Selection `json:"unfetched,omitempty"`
		}{
			Dataset:   result.Dataset.Code,
			Cells:     result.Sorted(),
			Unfetched: result.Unfetched,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "tsv":
		fmt.Printf("%s\tvalue\tstatus\n", strings.Join(result.Dataset.DimensionNames(), "\t"))
		for _, cell := range result.Sorted() {
			value := ":"
			if !cell.Missing {
				value = cell.Value.String()
			}
			fmt.Printf("%s\t%s\t%s\n", strings.Join(cell.Coordinates, "\t"), value, cell.Status)
		}
	default:
		return fmt.Errorf("unsupported format: %s (use tsv or json)", fetchFormat)
	}
	return nil
}
