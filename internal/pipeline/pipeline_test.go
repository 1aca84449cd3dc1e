package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/verinews/verinews/internal/history"
	"github.com/verinews/verinews/internal/model"
	"github.com/verinews/verinews/internal/provider"
)

// fakeProvider is a scriptable provider for orchestration tests.
type fakeProvider struct {
	name     string
	grounded bool
	result   *model.AnalysisResult
	err      error
	delay    time.Duration

	mu    sync.Mutex
	calls int
}

func (p *fakeProvider) Name() string   { return p.name }
func (p *fakeProvider) Grounded() bool { return p.grounded }

func (p *fakeProvider) Analyze(ctx context.Context, text string) (*model.AnalysisResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	// Copy so callers mutating the result don't leak between calls.
	r := *p.result
	return &r, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000
	return cfg
}

func validResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Verdict:            model.VerdictLikelyReal,
		Confidence:         75,
		Summary:            "Reads like conventional reporting.",
		Metrics:            []model.Metric{{Name: "Source Reliability", Score: 65}},
		LogicalFallacies:   []string{"None detected"},
		LinguisticPatterns: []string{"neutral tone"},
		Sources:            []model.GroundingSource{},
	}
}

const validInput = "According to official reports, the measure passed on Tuesday evening."

func TestSubmit_Success_RecordsHistory(t *testing.T) {
	fp := &fakeProvider{name: "fake", result: validResult()}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	result, err := p.Submit(context.Background(), validInput)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Verdict != model.VerdictLikelyReal {
		t.Errorf("Verdict = %q", result.Verdict)
	}

	items := p.History().Items()
	if len(items) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(items))
	}
	if items[0].Verdict != model.VerdictLikelyReal {
		t.Errorf("History verdict = %q", items[0].Verdict)
	}
	if items[0].Title != validInput[:50]+"..." {
		t.Errorf("History title = %q", items[0].Title)
	}
}

func TestSubmit_ShortInput_NoProviderCall(t *testing.T) {
	fp := &fakeProvider{name: "fake", result: validResult()}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	_, err := p.Submit(context.Background(), "too short")
	if err == nil {
		t.Fatal("Expected input error")
	}

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Expected InputError, got %T: %v", err, err)
	}
	if fp.callCount() != 0 {
		t.Error("Provider must not be called for short input")
	}
	if p.History().Len() != 0 {
		t.Error("Ledger must stay unchanged for short input")
	}
}

func TestSubmit_WhitespaceOnlyInput(t *testing.T) {
	fp := &fakeProvider{name: "fake", result: validResult()}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	// Plenty of characters, none of them meaningful after trimming.
	_, err := p.Submit(context.Background(), strings.Repeat(" \t\n", 30))
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Expected InputError, got %v", err)
	}
}

func TestSubmit_ProviderError_LedgerUntouched(t *testing.T) {
	provErr := &provider.Error{Kind: provider.KindRequestFailed, Provider: "fake", Err: errors.New("boom")}
	fp := &fakeProvider{name: "fake", err: provErr}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	_, err := p.Submit(context.Background(), validInput)
	if err == nil {
		t.Fatal("Expected provider error")
	}
	if provider.KindOf(err) != provider.KindRequestFailed {
		t.Errorf("Kind = %q", provider.KindOf(err))
	}
	if p.History().Len() != 0 {
		t.Error("Ledger must stay unchanged when the provider fails")
	}
}

func TestSubmit_InvalidResult_LedgerUntouched(t *testing.T) {
	bad := validResult()
	bad.Verdict = "SORT OF REAL"
	fp := &fakeProvider{name: "fake", result: bad}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	_, err := p.Submit(context.Background(), validInput)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if provider.KindOf(err) != provider.KindMalformedResponse {
		t.Errorf("Kind = %q", provider.KindOf(err))
	}
	if p.History().Len() != 0 {
		t.Error("Ledger must stay unchanged for an invalid result")
	}
}

func TestSubmit_ClampsConfidence(t *testing.T) {
	over := validResult()
	over.Confidence = 130
	fp := &fakeProvider{name: "fake", result: over}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	result, err := p.Submit(context.Background(), validInput)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Confidence != 100 {
		t.Errorf("Confidence should clamp to 100, got %d", result.Confidence)
	}
}

func TestSubmit_UngroundedProviderSourcesEmptied(t *testing.T) {
	withSources := validResult()
	withSources.Sources = []model.GroundingSource{{Title: "Claimed", URI: "https://example.com"}}
	fp := &fakeProvider{name: "fake", grounded: false, result: withSources}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	result, err := p.Submit(context.Background(), validInput)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Ungrounded provider sources must be discarded, got %v", result.Sources)
	}
}

func TestSubmit_GroundedProviderKeepsSources(t *testing.T) {
	withSources := validResult()
	withSources.Sources = []model.GroundingSource{{Title: "Cite", URI: "https://example.com"}}
	fp := &fakeProvider{name: "fake", grounded: true, result: withSources}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	result, err := p.Submit(context.Background(), validInput)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(result.Sources) != 1 {
		t.Errorf("Grounded provider sources must survive, got %v", result.Sources)
	}
}

func TestSubmit_Busy(t *testing.T) {
	fp := &fakeProvider{name: "fake", result: validResult(), delay: 200 * time.Millisecond}
	p := NewWith(testConfig(), fp, history.NewMemStore())

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := p.Submit(context.Background(), validInput)
		done <- err
	}()

	<-started
	time.Sleep(50 * time.Millisecond) // let the first submission reach the provider

	_, err := p.Submit(context.Background(), validInput)
	if !errors.Is(err, ErrBusy) {
		t.Errorf("Concurrent Submit should fail with ErrBusy, got %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("First Submit failed: %v", err)
	}

	// The slot frees up afterwards.
	if _, err := p.Submit(context.Background(), validInput); err != nil {
		t.Errorf("Submit after release failed: %v", err)
	}
}

func TestSubmit_CacheHitSkipsProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()

	fp := &fakeProvider{name: "fake", result: validResult()}
	p := NewWith(cfg, fp, history.NewMemStore())

	if _, err := p.Submit(context.Background(), validInput); err != nil {
		t.Fatalf("First Submit failed: %v", err)
	}
	if _, err := p.Submit(context.Background(), validInput); err != nil {
		t.Fatalf("Second Submit failed: %v", err)
	}

	if fp.callCount() != 1 {
		t.Errorf("Second identical submission should hit the cache, calls = %d", fp.callCount())
	}
	// Cached submissions still show up in history.
	if p.History().Len() != 2 {
		t.Errorf("Both submissions should be recorded, got %d", p.History().Len())
	}
}

func TestAnalyzeBatch_ResultsInInputOrder(t *testing.T) {
	fp := &fakeProvider{name: "fake", result: validResult()}
	cfg := testConfig()
	cfg.Concurrency.Workers = 4
	p := NewWith(cfg, fp, history.NewMemStore())

	texts := []string{
		"According to official reports, measure one passed on Tuesday.",
		"short",
		"According to official reports, measure three passed on Thursday.",
	}

	results := p.AnalyzeBatch(context.Background(), texts)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	for i, r := range results {
		if r.Index != i {
			t.Errorf("Result %d has index %d", i, r.Index)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("Valid inputs failed: %v / %v", results[0].Err, results[2].Err)
	}
	var inputErr *InputError
	if !errors.As(results[1].Err, &inputErr) {
		t.Errorf("Short input should fail with InputError, got %v", results[1].Err)
	}
}
