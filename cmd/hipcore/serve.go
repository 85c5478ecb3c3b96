// File path: cmd/hipcore/serve.go
package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/houdini-kb/hipcore/internal/api"
	"github.com/houdini-kb/hipcore/internal/common"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only stats/health HTTP surface over the catalog",
	Long: `serve starts a minimal HTTP server exposing GET /healthz and
GET /stats/{nodeType} over the catalog database. It never writes to the
catalog or cache; ingestion stays a CLI-driven operation.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", ":8088", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := common.Logger()
	server := api.NewServer(st)

	reachable := flagServeAddr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	uiHeader("Serving catalog stats")
	uiInfo("listening on %s", flagServeAddr)
	uiInfo("try: curl http://%s/healthz", reachable)
	logger.Info("hipcore: server listening", "addr", flagServeAddr)

	if err := http.ListenAndServe(flagServeAddr, server); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
