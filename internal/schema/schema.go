// Package schema defines what counts as a well-formed AnalysisResult and
// repairs or rejects malformed provider output before it reaches callers.
package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/verinews/verinews/internal/model"
)

// rawResult mirrors the provider response payload before validation.
// Field absence and field garbage are both expected; providers are not trusted.
type rawResult struct {
	Verdict            *string     `json:"verdict"`
	Confidence         *float64    `json:"confidence"`
	Summary            *string     `json:"summary"`
	Metrics            []rawMetric `json:"metrics"`
	LogicalFallacies   []string    `json:"logicalFallacies"`
	LinguisticPatterns []string    `json:"linguisticPatterns"`
}

type rawMetric struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// Validate decodes and validates a provider response payload.
//
// Hard failures (error != nil): payload is not JSON, verdict missing or not in
// the closed enumeration, confidence missing or non-numeric. Everything else is
// repaired: confidence and metric scores are clamped to [0,100], absent
// sequences default to empty, metrics without a name are dropped. Repairs and
// suspicious-but-legal states (empty summary) are reported as warnings.
//
// Sources are never populated here; grounding citations are assembled by the
// provider from call metadata, not from the response body.
func Validate(raw []byte) (*model.AnalysisResult, []string, error) {
	var decoded rawResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, nil, fmt.Errorf("decode payload: %w", err)
	}

	var warnings []string

	if decoded.Verdict == nil {
		return nil, nil, fmt.Errorf("missing verdict")
	}
	verdict, err := model.ParseVerdict(*decoded.Verdict)
	if err != nil {
		return nil, nil, err
	}

	if decoded.Confidence == nil {
		return nil, nil, fmt.Errorf("missing confidence")
	}
	if math.IsNaN(*decoded.Confidence) || math.IsInf(*decoded.Confidence, 0) {
		return nil, nil, fmt.Errorf("confidence is not a finite number")
	}
	confidence, clamped := clampScore(*decoded.Confidence)
	if clamped {
		warnings = append(warnings, fmt.Sprintf("confidence %v clamped to %d", *decoded.Confidence, confidence))
	}

	summary := ""
	if decoded.Summary != nil {
		summary = *decoded.Summary
	}
	if summary == "" {
		warnings = append(warnings, "empty summary")
	}

	metrics := make([]model.Metric, 0, len(decoded.Metrics))
	for i, m := range decoded.Metrics {
		if m.Name == "" {
			warnings = append(warnings, fmt.Sprintf("metric %d dropped: empty name", i))
			continue
		}
		score, clamped := clampScore(m.Score)
		if clamped {
			warnings = append(warnings, fmt.Sprintf("metric %q score clamped to %d", m.Name, score))
		}
		metrics = append(metrics, model.Metric{
			Name:        m.Name,
			Score:       score,
			Description: m.Description,
		})
	}

	return &model.AnalysisResult{
		Verdict:            verdict,
		Confidence:         confidence,
		Summary:            summary,
		Metrics:            metrics,
		LogicalFallacies:   emptyIfNil(decoded.LogicalFallacies),
		LinguisticPatterns: emptyIfNil(decoded.LinguisticPatterns),
		Sources:            []model.GroundingSource{},
	}, warnings, nil
}

// Normalize re-checks a provider-built result in place so the pipeline
// invariants hold regardless of which variant produced it: verdict must be a
// member of the enumeration, scores are clamped, nil sequences become empty.
func Normalize(result *model.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("nil result")
	}
	if !result.Verdict.Valid() {
		return fmt.Errorf("unrecognized verdict %q", string(result.Verdict))
	}

	result.Confidence, _ = clampScore(float64(result.Confidence))
	for i := range result.Metrics {
		result.Metrics[i].Score, _ = clampScore(float64(result.Metrics[i].Score))
	}

	if result.Metrics == nil {
		result.Metrics = []model.Metric{}
	}
	if result.LogicalFallacies == nil {
		result.LogicalFallacies = []string{}
	}
	if result.LinguisticPatterns == nil {
		result.LinguisticPatterns = []string{}
	}
	if result.Sources == nil {
		result.Sources = []model.GroundingSource{}
	}
	return nil
}

// clampScore coerces a provider score into an integer in [0,100].
// Out-of-range values are clamped rather than rejected. The comparison stays
// in float space: converting first would make values beyond the int range
// land on the wrong end.
func clampScore(v float64) (int, bool) {
	if v > 100 {
		return 100, true
	}
	if v < 0 {
		return 0, true
	}
	return int(math.Round(v)), false
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
