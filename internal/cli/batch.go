package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verinews/verinews/internal/pipeline"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple text segments from a file in parallel",
	Long: `Batch reads text segments from a file (one per line; blank lines and lines
starting with # are skipped) and analyzes them concurrently. Each successful
analysis is recorded to the session history and written as a JSON report.

Example:
  verinews batch segments.txt
  verinews batch segments.txt --concurrency 8 --output-dir ./reports
  verinews batch segments.txt --provider heuristic`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./verinews-reports", "output directory for JSON reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch run")

	batchCmd.Flags().StringVar(&providerName, "provider", "", "provider variant (gemini, heuristic, passthrough)")
	batchCmd.Flags().StringVar(&modelName, "model", "", "provider-specific model name")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	texts, err := readSegments(args[0])
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no text segments found in %s", args[0])
	}

	cfg := buildConfig()
	applyProviderFlags(cfg)
	if noCache {
		cfg.Cache.Enabled = false
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	resolveAPIKey(cfg)

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Analyzing %d segments with %d workers (%s)\n", len(texts), cfg.Concurrency.Workers, p.Provider().Name())

	results := p.AnalyzeBatch(ctx, texts)

	renderer := pipeline.NewRenderer(false)
	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ segment %d: %v\n", r.Index+1, r.Err)
			continue
		}
		succeeded++

		path := filepath.Join(outputDir, fmt.Sprintf("segment-%03d.json", r.Index+1))
		if err := renderer.RenderJSON(r.Result, path); err != nil {
			fmt.Fprintf(os.Stderr, "✗ segment %d: %v\n", r.Index+1, err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ segment %d: %s (%d) -> %s\n", r.Index+1, r.Result.Verdict, r.Result.Confidence, path)
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d/%d succeeded, reports in %s\n", succeeded, len(texts), outputDir)
	if succeeded < len(texts) {
		return fmt.Errorf("%d of %d segments failed", len(texts)-succeeded, len(texts))
	}
	return nil
}

// readSegments reads one text segment per line, skipping blanks and comments.
func readSegments(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var texts []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return texts, nil
}
