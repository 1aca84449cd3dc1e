package schema

import (
	"strings"
	"testing"

	"github.com/verinews/verinews/internal/model"
)

func TestValidate_Success(t *testing.T) {
	payload := `{
		"verdict": "LIKELY FAKE",
		"confidence": 72,
		"summary": "The text leans on emotional framing.",
		"metrics": [
			{"name": "Linguistic Bias", "score": 80, "description": "Loaded language"}
		],
		"logicalFallacies": ["Appeal to Fear"],
		"linguisticPatterns": ["urgency framing"]
	}`

	result, warnings, err := Validate([]byte(payload))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", warnings)
	}
	if result.Verdict != model.VerdictLikelyFake {
		t.Errorf("Verdict = %q, want LIKELY FAKE", result.Verdict)
	}
	if result.Confidence != 72 {
		t.Errorf("Confidence = %d, want 72", result.Confidence)
	}
	if len(result.Metrics) != 1 || result.Metrics[0].Score != 80 {
		t.Errorf("Unexpected metrics: %v", result.Metrics)
	}
	if result.Sources == nil || len(result.Sources) != 0 {
		t.Errorf("Sources should be empty, got %v", result.Sources)
	}
}

func TestValidate_UnknownVerdict(t *testing.T) {
	payload := `{"verdict": "PROBABLY TRUE", "confidence": 50, "summary": "x"}`

	_, _, err := Validate([]byte(payload))
	if err == nil {
		t.Fatal("Expected error for unknown verdict")
	}
	if !strings.Contains(err.Error(), "unrecognized verdict") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidate_MissingVerdict(t *testing.T) {
	payload := `{"confidence": 50, "summary": "x"}`

	if _, _, err := Validate([]byte(payload)); err == nil {
		t.Fatal("Expected error for missing verdict")
	}
}

func TestValidate_MissingConfidence(t *testing.T) {
	payload := `{"verdict": "MIXED", "summary": "x"}`

	if _, _, err := Validate([]byte(payload)); err == nil {
		t.Fatal("Expected error for missing confidence")
	}
}

func TestValidate_NotJSON(t *testing.T) {
	if _, _, err := Validate([]byte("I think this is probably fake news.")); err == nil {
		t.Fatal("Raw prose must not be accepted as a result")
	}
}

func TestValidate_ClampsConfidence(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{`{"verdict": "MIXED", "confidence": 150, "summary": "x"}`, 100},
		{`{"verdict": "MIXED", "confidence": -3, "summary": "x"}`, 0},
		{`{"verdict": "MIXED", "confidence": 59.6, "summary": "x"}`, 60},
		// Values far beyond the int range must still clamp to the right end.
		{`{"verdict": "MIXED", "confidence": 1e30, "summary": "x"}`, 100},
		{`{"verdict": "MIXED", "confidence": -1e30, "summary": "x"}`, 0},
	}

	for _, tt := range tests {
		result, warnings, err := Validate([]byte(tt.payload))
		if err != nil {
			t.Fatalf("Validate failed for %s: %v", tt.payload, err)
		}
		if result.Confidence != tt.want {
			t.Errorf("Confidence = %d, want %d (payload %s)", result.Confidence, tt.want, tt.payload)
		}
		if tt.want == 100 || tt.want == 0 {
			if len(warnings) == 0 {
				t.Errorf("Clamping should produce a warning (payload %s)", tt.payload)
			}
		}
	}
}

func TestValidate_AbsentSequencesDefaultEmpty(t *testing.T) {
	payload := `{"verdict": "REAL", "confidence": 90, "summary": "Looks fine."}`

	result, _, err := Validate([]byte(payload))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if result.Metrics == nil || len(result.Metrics) != 0 {
		t.Errorf("Metrics should default to empty, got %v", result.Metrics)
	}
	if result.LogicalFallacies == nil || len(result.LogicalFallacies) != 0 {
		t.Errorf("LogicalFallacies should default to empty, got %v", result.LogicalFallacies)
	}
	if result.LinguisticPatterns == nil || len(result.LinguisticPatterns) != 0 {
		t.Errorf("LinguisticPatterns should default to empty, got %v", result.LinguisticPatterns)
	}
}

func TestValidate_DropsNamelessMetrics(t *testing.T) {
	payload := `{
		"verdict": "MIXED",
		"confidence": 60,
		"summary": "x",
		"metrics": [
			{"name": "", "score": 50},
			{"name": "Source Reliability", "score": 130}
		]
	}`

	result, warnings, err := Validate([]byte(payload))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(result.Metrics) != 1 {
		t.Fatalf("Expected 1 metric after drop, got %d", len(result.Metrics))
	}
	if result.Metrics[0].Score != 100 {
		t.Errorf("Metric score should clamp to 100, got %d", result.Metrics[0].Score)
	}
	if len(warnings) < 2 {
		t.Errorf("Expected drop and clamp warnings, got %v", warnings)
	}
}

func TestValidate_ClampsHugeMetricScore(t *testing.T) {
	payload := `{
		"verdict": "MIXED",
		"confidence": 60,
		"summary": "x",
		"metrics": [
			{"name": "Linguistic Bias", "score": 1e30},
			{"name": "Source Reliability", "score": -1e30}
		]
	}`

	result, _, err := Validate([]byte(payload))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if result.Metrics[0].Score != 100 {
		t.Errorf("Huge positive score should clamp to 100, got %d", result.Metrics[0].Score)
	}
	if result.Metrics[1].Score != 0 {
		t.Errorf("Huge negative score should clamp to 0, got %d", result.Metrics[1].Score)
	}
}

func TestValidate_EmptySummaryWarns(t *testing.T) {
	payload := `{"verdict": "MIXED", "confidence": 60}`

	result, warnings, err := Validate([]byte(payload))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if result.Summary != "" {
		t.Errorf("Summary should be empty, got %q", result.Summary)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "empty summary") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected empty-summary warning, got %v", warnings)
	}
}

func TestNormalize(t *testing.T) {
	result := &model.AnalysisResult{
		Verdict:    model.VerdictReal,
		Confidence: 140,
		Metrics:    []model.Metric{{Name: "Bias", Score: -5}},
	}

	if err := Normalize(result); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if result.Confidence != 100 {
		t.Errorf("Confidence should clamp to 100, got %d", result.Confidence)
	}
	if result.Metrics[0].Score != 0 {
		t.Errorf("Metric score should clamp to 0, got %d", result.Metrics[0].Score)
	}
	if result.LogicalFallacies == nil || result.LinguisticPatterns == nil || result.Sources == nil {
		t.Error("Nil sequences should become empty")
	}
}

func TestNormalize_RejectsUnknownVerdict(t *testing.T) {
	result := &model.AnalysisResult{Verdict: "SORT OF REAL", Confidence: 50}
	if err := Normalize(result); err == nil {
		t.Fatal("Expected error for unknown verdict")
	}
}
