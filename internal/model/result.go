package model

import (
	"fmt"
	"strings"
	"time"
)

// Verdict is the closed credibility classification for analyzed text.
// Wire strings match the upstream generation service.
type Verdict string

const (
	VerdictFake       Verdict = "FAKE"
	VerdictLikelyFake Verdict = "LIKELY FAKE"
	VerdictMixed      Verdict = "MIXED"
	VerdictLikelyReal Verdict = "LIKELY REAL"
	VerdictReal       Verdict = "REAL"
)

// verdictRanks orders verdicts by credibility, least credible first.
var verdictRanks = map[Verdict]int{
	VerdictFake:       0,
	VerdictLikelyFake: 1,
	VerdictMixed:      2,
	VerdictLikelyReal: 3,
	VerdictReal:       4,
}

// ParseVerdict maps a provider-reported verdict string to a Verdict.
// Case and underscore/space variations are tolerated; anything else is an error,
// never a silent default.
func ParseVerdict(s string) (Verdict, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.Join(strings.Fields(normalized), " ")

	v := Verdict(normalized)
	if !v.Valid() {
		return "", fmt.Errorf("unrecognized verdict %q", s)
	}
	return v, nil
}

// Valid reports whether v is one of the five enumerated verdicts.
func (v Verdict) Valid() bool {
	_, ok := verdictRanks[v]
	return ok
}

// Rank returns the credibility ordering of the verdict (FAKE=0 .. REAL=4).
// Unknown verdicts rank below FAKE.
func (v Verdict) Rank() int {
	if rank, ok := verdictRanks[v]; ok {
		return rank
	}
	return -1
}

// Verdicts returns the closed enumeration in credibility order.
func Verdicts() []Verdict {
	return []Verdict{VerdictFake, VerdictLikelyFake, VerdictMixed, VerdictLikelyReal, VerdictReal}
}

// Metric is a single named analysis dimension with a 0-100 score.
// Order is provider-reported order; duplicate names are permitted.
type Metric struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// GroundingSource is an external citation supporting the model's claims.
// Only providers with grounding capability ever produce these.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AnalysisResult is the validated outcome of one analysis.
// Confidence calibrates the provider's certainty in the verdict; it is not
// cross-checked against the metrics. Treat a constructed result as immutable.
type AnalysisResult struct {
	Verdict            Verdict           `json:"verdict"`
	Confidence         int               `json:"confidence"`
	Summary            string            `json:"summary"`
	Metrics            []Metric          `json:"metrics"`
	LogicalFallacies   []string          `json:"logicalFallacies"`
	LinguisticPatterns []string          `json:"linguisticPatterns"`
	Sources            []GroundingSource `json:"sources"`
}

// HistoryItem is one ledger entry derived from a successful analysis.
type HistoryItem struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Verdict   Verdict   `json:"verdict"`
}
