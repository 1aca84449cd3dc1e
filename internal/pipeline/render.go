package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verinews/verinews/internal/model"
)

// Renderer writes analysis results and history for the terminal surface.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderSummary writes a human-readable report for one result.
func (r *Renderer) RenderSummary(w io.Writer, result *model.AnalysisResult) {
	bar := strings.Repeat("═", 59)

	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "  Verdict: %s (confidence %d/100)\n", result.Verdict, result.Confidence)
	fmt.Fprintln(w, bar)
	fmt.Fprintln(w)

	if result.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", result.Summary)
	}

	if len(result.Metrics) > 0 {
		fmt.Fprintln(w, "Metrics:")
		for _, m := range result.Metrics {
			fmt.Fprintf(w, "  %-22s %3d/100  %s\n", m.Name, m.Score, m.Description)
		}
		fmt.Fprintln(w)
	}

	if len(result.LogicalFallacies) > 0 {
		fmt.Fprintln(w, "Logical fallacies:")
		for _, f := range result.LogicalFallacies {
			fmt.Fprintf(w, "  - %s\n", f)
		}
		fmt.Fprintln(w)
	}

	if len(result.LinguisticPatterns) > 0 {
		fmt.Fprintln(w, "Linguistic patterns:")
		for _, p := range result.LinguisticPatterns {
			fmt.Fprintf(w, "  - %s\n", p)
		}
		fmt.Fprintln(w)
	}

	if len(result.Sources) > 0 {
		fmt.Fprintln(w, "Grounding sources:")
		for _, s := range result.Sources {
			fmt.Fprintf(w, "  - %s\n    %s\n", s.Title, s.URI)
		}
		fmt.Fprintln(w)
	}

	if r.includeFooter {
		fmt.Fprintln(w, "Verdicts describe how the text reads, not established truth.")
	}
}

// RenderJSON writes the result as JSON to the given path.
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// RenderHistory writes the session history, most recent first.
func (r *Renderer) RenderHistory(w io.Writer, items []model.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No history recorded.")
		return
	}

	for _, item := range items {
		fmt.Fprintf(w, "%s  %-11s  %s\n", item.Timestamp.Local().Format("2006-01-02 15:04"), item.Verdict, item.Title)
	}
}
