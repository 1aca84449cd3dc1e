package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verinews/verinews/internal/model"
	"github.com/verinews/verinews/internal/pipeline"
	"github.com/verinews/verinews/internal/provider"
)

var (
	providerName string
	modelName    string
	timeout      time.Duration
	outJSON      string
	inFile       string
	noCache      bool
	noFooter     bool
	heurDelay    time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze one text segment and render a credibility assessment",
	Long: `Analyze submits a text segment to the configured provider and renders the
structured assessment. The text comes from the argument, --file, or stdin
("-"). Segments shorter than 20 characters are rejected before any provider
call. Pasted HTML is reduced to its visible text first.

Example:
  verinews analyze "According to official reports, the measure passed 62-38."
  verinews analyze --file article.txt --json result.json
  verinews analyze --provider heuristic "Miracle cure guarantees 100% results!"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&providerName, "provider", "", "provider variant (gemini, heuristic, passthrough)")
	analyzeCmd.Flags().StringVar(&modelName, "model", "", "provider-specific model name")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 0, "provider call timeout (default from config)")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "also write the result as JSON to this path")
	analyzeCmd.Flags().StringVar(&inFile, "file", "", "read the text from a file instead of the argument")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force a fresh provider call)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable the report footer")
	analyzeCmd.Flags().DurationVar(&heurDelay, "delay", 0, "artificial latency for the heuristic provider")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	cfg := buildConfig()
	applyProviderFlags(cfg)
	if noCache {
		cfg.Cache.Enabled = false
	}
	resolveAPIKey(cfg)

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := submissionContext(cfg.Provider.Timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s\n", p.Provider().Name())
		fmt.Fprintf(os.Stderr, "Timeout:  %v\n", cfg.Provider.Timeout)
		fmt.Fprintln(os.Stderr)
	}

	result, err := p.Submit(ctx, text)
	if err != nil {
		return surfaceError(err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter && !noFooter)
	renderer.RenderSummary(os.Stdout, result)

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}

	return nil
}

func applyProviderFlags(cfg *model.Config) {
	if providerName != "" {
		cfg.Provider.Name = providerName
	}
	if modelName != "" {
		cfg.Provider.Model = modelName
	}
	if timeout > 0 {
		cfg.Provider.Timeout = timeout
	}
	if heurDelay > 0 {
		cfg.Provider.Delay = heurDelay
	}
}

// readInput resolves the text to analyze: argument, --file, or stdin.
func readInput(args []string) (string, error) {
	if inFile != "" {
		data, err := os.ReadFile(inFile)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func submissionContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// surfaceError maps classified failures to user-facing messages. Transient
// faults get a generic retry suggestion; configuration problems are blocking.
func surfaceError(err error) error {
	var inputErr *pipeline.InputError
	if errors.As(err, &inputErr) {
		return fmt.Errorf("input insufficient: %s", inputErr.Reason)
	}
	if errors.Is(err, pipeline.ErrBusy) {
		return err
	}

	switch provider.KindOf(err) {
	case provider.KindConfigMissing:
		return fmt.Errorf("provider not configured: %w", err)
	case provider.KindRequestFailed, provider.KindTimeout:
		if verbose {
			fmt.Fprintf(os.Stderr, "Provider error: %v\n", err)
		}
		return errors.New("failed to analyze the text; please try again later")
	case provider.KindMalformedResponse:
		if verbose {
			fmt.Fprintf(os.Stderr, "Provider error: %v\n", err)
		}
		return errors.New("the provider returned an unusable response; please try again later")
	}
	return err
}
