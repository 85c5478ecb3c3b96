// File path: cmd/hipcore/stats.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/houdini-kb/hipcore/internal/extract"
)

var flagStatsParam string

var statsCmd = &cobra.Command{
	Use:   "stats <node_type>",
	Short: "Print numeric parameter statistics for a node type",
	Long: `stats aggregates every numeric parameter snapshot recorded for a node
type (optionally narrowed to a single parameter with --param), reporting
sample count, min/max/mean, how many samples were non-default, and the
derived usage range.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagStatsParam, "param", "", "restrict the report to a single parameter name")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	nodeType := args[0]
	results, err := extract.Aggregate(context.Background(), st, nodeType, flagStatsParam)
	if err != nil {
		return err
	}

	uiHeader(fmt.Sprintf("Parameter statistics: %s", nodeType))
	shown := 0
	for _, r := range results {
		if r.SampleCount < 2 {
			continue
		}
		low, high := extract.UsageRange(r)
		fmt.Printf("  %-24s n=%-5d min=%-10.4g max=%-10.4g mean=%-10.4g modified=%-5d usage=[%.4g, %.4g]\n",
			r.ParamName, r.SampleCount, r.Min, r.Max, r.Mean, r.ModifiedCount, low, high)
		shown++
	}
	if shown == 0 {
		uiWarn("no parameter has two or more numeric samples for %s", nodeType)
	}
	return nil
}
