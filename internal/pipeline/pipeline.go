// Package pipeline orchestrates a submission: input validation, provider
// invocation, result normalization and the history ledger update. It is the
// only package the presentation surface calls directly.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/verinews/verinews/internal/cache"
	"github.com/verinews/verinews/internal/extract"
	"github.com/verinews/verinews/internal/history"
	"github.com/verinews/verinews/internal/model"
	"github.com/verinews/verinews/internal/provider"
	"github.com/verinews/verinews/internal/schema"
	"github.com/verinews/verinews/internal/worker"
)

// minInputRunes is the minimum trimmed input length accepted for analysis.
const minInputRunes = 20

// InputError is a user-correctable input problem, surfaced inline and never
// logged as a system fault.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// ErrBusy is returned when a submission arrives while another analysis is in
// flight; the active-request slot is a single-writer resource.
var ErrBusy = errors.New("an analysis is already in progress")

// Pipeline sequences one analysis at a time and owns the history ledger.
type Pipeline struct {
	provider provider.Provider
	ledger   *history.Ledger
	cache    cache.Cache // nil when caching is disabled
	limiter  *worker.Limiter
	config   *model.Config

	mu   sync.Mutex
	busy bool
}

// New assembles a pipeline from configuration: provider variant via the
// factory, file-backed ledger, layered result cache and provider rate limiter.
// The persisted ledger is loaded once, here.
func New(cfg *model.Config) (*Pipeline, error) {
	p, err := provider.New(provider.FromModel(cfg.Provider))
	if err != nil {
		return nil, fmt.Errorf("configure provider: %w", err)
	}

	store := history.NewFileStore(cfg.History.Path)
	return NewWith(cfg, p, store), nil
}

// NewWith assembles a pipeline around an explicit provider and history store.
// Used by tests and by embedders that supply their own persistence port.
func NewWith(cfg *model.Config, p provider.Provider, store history.Store) *Pipeline {
	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	ledger := history.NewLedger(store, cfg.History.Capacity)
	ledger.Load()

	return &Pipeline{
		provider: p,
		ledger:   ledger,
		cache:    resultCache,
		limiter:  worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		config:   cfg,
	}
}

// Provider exposes the active provider variant.
func (p *Pipeline) Provider() provider.Provider {
	return p.provider
}

// History exposes the ledger for the presentation surface.
func (p *Pipeline) History() *history.Ledger {
	return p.ledger
}

// Submit runs one analysis to exactly one terminal outcome: an InputError
// before any provider call, a classified provider/validation error with the
// ledger untouched, or a normalized result recorded to history.
//
// A second Submit while one is pending fails with ErrBusy.
func (p *Pipeline) Submit(ctx context.Context, text string) (*model.AnalysisResult, error) {
	if !p.acquire() {
		return nil, ErrBusy
	}
	defer p.release()

	return p.analyze(ctx, text)
}

// analyze is the unguarded submission path shared by Submit and batch workers.
// The ledger serializes its own writes.
func (p *Pipeline) analyze(ctx context.Context, text string) (*model.AnalysisResult, error) {
	normalized := extract.Normalize(text)
	if len([]rune(normalized)) < minInputRunes {
		return nil, &InputError{
			Reason: fmt.Sprintf("input too short: a detailed text segment of at least %d characters is required", minInputRunes),
		}
	}

	result, fromCache := p.cachedResult(normalized)
	if !fromCache {
		if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
			return nil, &provider.Error{Kind: provider.KindTimeout, Provider: p.provider.Name(), Err: err}
		}

		fresh, err := p.provider.Analyze(ctx, normalized)
		if err != nil {
			return nil, err
		}

		if err := schema.Normalize(fresh); err != nil {
			return nil, &provider.Error{Kind: provider.KindMalformedResponse, Provider: p.provider.Name(), Err: err}
		}

		// Citations only ever come from grounding-capable variants.
		if !p.provider.Grounded() {
			fresh.Sources = []model.GroundingSource{}
		}

		p.storeResult(normalized, fresh)
		result = fresh
	}

	if _, err := p.ledger.Record(result, normalized); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return false
	}
	p.busy = true
	return true
}

func (p *Pipeline) release() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()
}

// cachedResult returns a previously cached result for the normalized text.
// A corrupt cache entry is treated as a miss.
func (p *Pipeline) cachedResult(normalized string) (*model.AnalysisResult, bool) {
	if p.cache == nil {
		return nil, false
	}

	data, found := p.cache.Get(cache.Key(p.provider.Name(), normalized))
	if !found {
		return nil, false
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	if err := schema.Normalize(&result); err != nil {
		return nil, false
	}

	if p.config.Output.Verbose {
		fmt.Fprintln(os.Stderr, "Using cached analysis")
	}
	return &result, true
}

func (p *Pipeline) storeResult(normalized string, result *model.AnalysisResult) {
	if p.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := p.cache.Set(cache.Key(p.provider.Name(), normalized), data, 0); err != nil && p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Warning: cache write failed: %v\n", err)
	}
}
