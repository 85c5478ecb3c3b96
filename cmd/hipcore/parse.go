// File path: cmd/hipcore/parse.go
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/houdini-kb/hipcore/internal/hip"
)

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Parse a local HIP archive and print a summary without cataloging it",
	Long: `parse reads a local .hip/.hipnc file, decodes its CPIO archive, and
prints the resulting node and parameter counts. Nothing is written to the
cache or the catalog; this is a debugging aid for archives that fail to
extract cleanly.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	scene, err := hip.Parse(raw)
	if err != nil {
		uiError("parse failed: %v", err)
		return err
	}

	uiHeader("Scene summary")
	uiInfo("houdini version: %s", orUnknown(scene.HoudiniVersion))
	uiInfo("nodes: %d", len(scene.Nodes))
	uiInfo("connections: %d", len(scene.Connections))

	params := 0
	nonDefault := 0
	expressions := 0
	for _, node := range scene.Nodes {
		params += len(node.Parameters)
		for _, p := range node.Parameters {
			if !p.IsDefault {
				nonDefault++
			}
			if p.Expression != "" {
				expressions++
			}
		}
	}
	uiInfo("parameters: %d (%d non-default, %d expressions)", params, nonDefault, expressions)
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
