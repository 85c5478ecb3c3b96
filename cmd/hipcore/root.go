// File path: cmd/hipcore/root.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/houdini-kb/hipcore/internal/common"
)

var (
	flagDBPath      string
	flagCacheDir    string
	flagInstallPath string
	flagMaxCacheMB  int64
	flagNoColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "hipcore",
	Short: "Acquire, cache, parse, and catalog Houdini HIP scene files",
	Long: `hipcore acquires Houdini HIP scene archives from HTTP sources or a local
Houdini installation, parses their embedded node and parameter data, and
persists a queryable catalog of parameter usage for downstream analysis.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initColors(flagNoColor)
	},
}

// Execute is the CLI entry point invoked from main.
func Execute() {
	logger := common.Logger()
	if err := godotenv.Load(); err != nil {
		logger.Debug("hipcore: no .env file loaded", "error", err)
	} else {
		logger.Info("hipcore: environment loaded from .env")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "path to the catalog SQLite database (default hipcore.db)")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "path to the archive cache directory (default $HOME/.hipcore/cache)")
	rootCmd.PersistentFlags().StringVar(&flagInstallPath, "install-path", "", "Houdini installation root for local scans")
	rootCmd.PersistentFlags().Int64Var(&flagMaxCacheMB, "cache-max-mb", 0, "cache byte budget in megabytes (default 2048)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
}
