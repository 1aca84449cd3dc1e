package provider

import (
	"context"
	"strings"
	"time"

	"github.com/verinews/verinews/internal/model"
)

// HeuristicProvider is the degraded, fully local variant: deterministic
// keyword classification with no external dependency. It exists so the
// pipeline keeps working when no remote credential is available.
type HeuristicProvider struct {
	delay time.Duration
}

// sensationalPhrases trigger FAKE at confidence 85. Checked before the
// institutional set; a text matching both sets is classified FAKE.
var sensationalPhrases = []string{
	"miracle",
	"guaranteed",
	"100% results",
	"shocking truth",
	"secret cure",
	"absolutely proven",
	"they don't want you to know",
	"doctors hate",
}

// institutionalPhrases trigger LIKELY_REAL at confidence 75.
var institutionalPhrases = []string{
	"according to",
	"official",
	"government",
	"reported by",
	"study published",
	"press release",
	"spokesperson",
}

// Fixed derived tables, keyed by whether the verdict is FAKE.

var fakeMetrics = []model.Metric{
	{Name: "Linguistic Bias", Score: 80, Description: "High density of loaded and absolute language."},
	{Name: "Factual Consistency", Score: 25, Description: "Claims are unsupported by attributable sources."},
	{Name: "Source Reliability", Score: 30, Description: "No institutional attribution detected."},
}

var credibleMetrics = []model.Metric{
	{Name: "Linguistic Bias", Score: 35, Description: "Largely neutral register with few loaded terms."},
	{Name: "Factual Consistency", Score: 70, Description: "Claims are framed as attributable statements."},
	{Name: "Source Reliability", Score: 65, Description: "Institutional attribution present in the text."},
}

var fakeFallacies = []string{"Appeal to Fear", "Hasty Generalization"}

var credibleFallacies = []string{"None detected"}

var fakePatterns = []string{"sensationalist vocabulary", "absolute claims", "urgency framing"}

var crediblePatterns = []string{"neutral tone", "attributed sourcing"}

// NewHeuristicProvider creates the degraded local provider.
// delay adds artificial latency before each result; zero disables it.
func NewHeuristicProvider(config Config) *HeuristicProvider {
	return &HeuristicProvider{delay: config.Delay}
}

// Name returns the provider name.
func (p *HeuristicProvider) Name() string {
	return "heuristic"
}

// Grounded reports that this variant has no grounding capability.
func (p *HeuristicProvider) Grounded() bool {
	return false
}

// Analyze classifies text by case-insensitive substring match against the two
// fixed keyword sets. The sensational set is checked first and wins ties.
func (p *HeuristicProvider) Analyze(ctx context.Context, text string) (*model.AnalysisResult, error) {
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, newError(KindTimeout, p.Name(), ctx.Err())
		case <-time.After(p.delay):
		}
	}

	lower := strings.ToLower(text)

	verdict := model.VerdictMixed
	confidence := 60
	switch {
	case matchesAny(lower, sensationalPhrases):
		verdict = model.VerdictFake
		confidence = 85
	case matchesAny(lower, institutionalPhrases):
		verdict = model.VerdictLikelyReal
		confidence = 75
	}

	metrics := credibleMetrics
	fallacies := credibleFallacies
	patterns := crediblePatterns
	if verdict == model.VerdictFake {
		metrics = fakeMetrics
		fallacies = fakeFallacies
		patterns = fakePatterns
	}

	return &model.AnalysisResult{
		Verdict:            verdict,
		Confidence:         confidence,
		Summary:            heuristicSummary(verdict),
		Metrics:            append([]model.Metric(nil), metrics...),
		LogicalFallacies:   append([]string(nil), fallacies...),
		LinguisticPatterns: append([]string(nil), patterns...),
		Sources:            []model.GroundingSource{},
	}, nil
}

func matchesAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func heuristicSummary(verdict model.Verdict) string {
	switch verdict {
	case model.VerdictFake:
		return "The text relies on sensational, absolute phrasing typical of fabricated stories. Offline keyword analysis; no external verification was performed."
	case model.VerdictLikelyReal:
		return "The text uses institutional attribution consistent with conventional reporting. Offline keyword analysis; no external verification was performed."
	default:
		return "The text carries no strong markers in either direction. Offline keyword analysis; no external verification was performed."
	}
}
