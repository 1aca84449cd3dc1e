package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verinews/verinews/internal/model"
)

// titleLimit is the maximum number of visible characters kept from the source
// text when deriving an entry title; longer texts get an ellipsis marker.
const titleLimit = 50

// Ledger is the append-only, capacity-bounded record of past analyses,
// most-recent-first. Every mutation is immediately re-persisted in full; after
// any successful operation the persisted slot equals the in-memory sequence.
type Ledger struct {
	mu       sync.Mutex
	store    Store
	items    []model.HistoryItem
	capacity int

	now func() time.Time
}

// NewLedger creates a ledger over the given store. A capacity <= 0 falls back
// to the default bound of 10.
func NewLedger(store Store, capacity int) *Ledger {
	if capacity <= 0 {
		capacity = model.DefaultHistoryCapacity
	}
	return &Ledger{
		store:    store,
		capacity: capacity,
		now:      time.Now,
	}
}

// Load reads the persisted ledger into memory. Absent or malformed storage
// yields an empty ledger, never an error: stale history is not worth a crash.
func (l *Ledger) Load() []model.HistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil

	data, err := l.store.Load()
	if err != nil || len(data) == 0 {
		return l.snapshotLocked()
	}

	var items []model.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return l.snapshotLocked()
	}

	if len(items) > l.capacity {
		items = items[:l.capacity]
	}
	l.items = items
	return l.snapshotLocked()
}

// Record derives a HistoryItem from a successful analysis, prepends it,
// enforces the capacity bound and persists the full sequence. On a persist
// failure the in-memory state is rolled back so memory and storage never
// disagree.
func (l *Ledger) Record(result *model.AnalysisResult, sourceText string) (model.HistoryItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := model.HistoryItem{
		ID:        uuid.NewString(),
		Timestamp: l.nextTimestampLocked(),
		Title:     truncateTitle(sourceText),
		Verdict:   result.Verdict,
	}

	previous := l.items
	updated := make([]model.HistoryItem, 0, len(previous)+1)
	updated = append(updated, item)
	updated = append(updated, previous...)
	if len(updated) > l.capacity {
		updated = updated[:l.capacity]
	}
	l.items = updated

	if err := l.persistLocked(); err != nil {
		l.items = previous
		return model.HistoryItem{}, fmt.Errorf("persist history: %w", err)
	}
	return item, nil
}

// Clear empties the ledger and persists the empty state.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	previous := l.items
	l.items = nil
	if err := l.store.Clear(); err != nil {
		l.items = previous
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Items returns a snapshot of the ledger, most-recent-first.
func (l *Ledger) Items() []model.HistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Len returns the number of recorded items.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *Ledger) persistLocked() error {
	items := l.items
	if items == nil {
		items = []model.HistoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return l.store.Save(data)
}

func (l *Ledger) snapshotLocked() []model.HistoryItem {
	return append([]model.HistoryItem(nil), l.items...)
}

// nextTimestampLocked returns the current time, clamped so creation times
// never decrease even if the wall clock steps backwards.
func (l *Ledger) nextTimestampLocked() time.Time {
	ts := l.now().UTC()
	if len(l.items) > 0 && ts.Before(l.items[0].Timestamp) {
		ts = l.items[0].Timestamp
	}
	return ts
}

// truncateTitle derives an entry title: at most titleLimit visible characters
// of the source text, with a trailing marker when truncated.
func truncateTitle(sourceText string) string {
	runes := []rune(sourceText)
	if len(runes) <= titleLimit {
		return sourceText
	}
	return string(runes[:titleLimit]) + "..."
}
