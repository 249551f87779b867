package storage

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// DefaultDebounce is how long after the last mutation the durable
// write lands.
const DefaultDebounce = 300 * time.Millisecond

// SnapshotFunc builds the settings to persist at write time. Reading
// state lazily means a burst of mutations costs one read and one
// write, not N.
type SnapshotFunc func() domain.Settings

// Debouncer coalesces bursts of rapid mutations into a single durable
// write shortly after the last change. The in-memory transition is
// never delayed, only the write is. Store failures are logged and
// dropped; durability degrades, session state does not.
type Debouncer struct {
	store    domain.SettingsStore
	snapshot SnapshotFunc
	wait     time.Duration
	log      *logger.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debounced writer over the given store.
func NewDebouncer(store domain.SettingsStore, snapshot SnapshotFunc, wait time.Duration, log *logger.Logger) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{
		store:    store,
		snapshot: snapshot,
		wait:     wait,
		log:      log,
	}
}

// Mark records that state changed. The durable write fires wait after
// the most recent Mark.
func (d *Debouncer) Mark() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.flush)
}

// Flush forces any pending write to land now. Call on shutdown.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.flush()
}

func (d *Debouncer) flush() {
	settings := d.snapshot()
	if err := d.store.Save(context.Background(), settings); err != nil {
		d.log.Error("debounced save failed: %v", err)
	}
}
