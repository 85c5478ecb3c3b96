// File path: cmd/hipcore/scan.go
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/houdini-kb/hipcore/internal/ingest"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover and catalog HIP files under a local Houdini installation",
	Long: `scan walks the configured Houdini installation path (--install-path, or
HOUDINI_INSTALL_PATH/HOUDINI_VERSION_DIRS) for .hip/.hipnc files, parses
each, and persists the result to the catalog, bypassing HTTP acquisition
entirely since the bytes already live on disk.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	mgr, err := openCacheManager()
	if err != nil {
		return err
	}

	uiHeader("Scanning local Houdini installation")
	summary, err := ingest.RunLocalScan(context.Background(), st, mgr, progressReporter)
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}
