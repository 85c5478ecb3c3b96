// File path: cmd/hipcore/ingest.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/houdini-kb/hipcore/internal/cache"
	"github.com/houdini-kb/hipcore/internal/ingest"
)

var (
	flagSourcesFile string
	flagLocalScan   bool
	flagIngestClass string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run a full batch ingest from a sources file and/or a local install scan",
	Long: `ingest drives the complete acquire-parse-extract pipeline over a batch of
sources read from --sources, a local install scan when --local is set, or
both. This is the batch-runner entry point; acquire and scan are its
single-mode building blocks.

Each line in the sources file is either a bare URL (tagged with --class,
default content_library) or "<class> <url>" to set the class per line,
e.g. "examples https://example.org/tutorial.hip". Blank lines and lines
starting with # are ignored.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&flagSourcesFile, "sources", "", "path to a file listing source URLs, one per line")
	ingestCmd.Flags().BoolVar(&flagLocalScan, "local", false, "also run a local Houdini installation scan")
	ingestCmd.Flags().StringVar(&flagIngestClass, "class", string(cache.SourceContentLibrary),
		"default source class for sources-file lines with no explicit class: content_library, examples, or community")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if flagSourcesFile == "" && !flagLocalScan {
		return fmt.Errorf("nothing to do: pass --sources, --local, or both")
	}

	defaultClass := cache.SourceClass(flagIngestClass)
	if !validNetworkSourceClass(defaultClass) {
		return fmt.Errorf("unknown --class %q: want content_library, examples, or community", flagIngestClass)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	mgr, err := openCacheManager()
	if err != nil {
		return err
	}

	ctx := context.Background()
	var total ingest.Summary

	if flagSourcesFile != "" {
		sources, err := readSourcesFile(flagSourcesFile, defaultClass)
		if err != nil {
			return err
		}
		uiHeader(fmt.Sprintf("Ingesting %d sources from %s", len(sources), flagSourcesFile))
		summary, err := ingest.RunBatch(ctx, st, mgr, sources, progressReporter)
		if err != nil {
			return err
		}
		mergeSummary(&total, summary)
	}

	if flagLocalScan {
		uiHeader("Scanning local Houdini installation")
		summary, err := ingest.RunLocalScan(ctx, st, mgr, progressReporter)
		if err != nil {
			return err
		}
		mergeSummary(&total, summary)
	}

	printSummary(total)
	return nil
}

// readSourcesFile parses one source per non-blank, non-comment line: either
// a bare URL (tagged with defaultClass) or "<class> <url>".
func readSourcesFile(path string, defaultClass cache.SourceClass) ([]cache.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer f.Close()

	var sources []cache.Source
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		src, err := parseSourceLine(line, defaultClass)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	return sources, nil
}

func parseSourceLine(line string, defaultClass cache.SourceClass) (cache.Source, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		return cache.Source{ID: fields[0], Class: defaultClass}, nil
	case 2:
		class := cache.SourceClass(fields[0])
		if !validNetworkSourceClass(class) {
			return cache.Source{}, fmt.Errorf("sources file: unknown class %q", fields[0])
		}
		return cache.Source{ID: fields[1], Class: class}, nil
	default:
		return cache.Source{}, fmt.Errorf("sources file: invalid line %q", line)
	}
}

func mergeSummary(dst *ingest.Summary, src ingest.Summary) {
	dst.Extracted += src.Extracted
	dst.Skipped += src.Skipped
	dst.Misses += src.Misses
	dst.Failed += src.Failed
	dst.Results = append(dst.Results, src.Results...)
}
