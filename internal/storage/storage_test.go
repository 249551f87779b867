package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

func testLog() *logger.Logger {
	return logger.New(logger.LevelOff, nil)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(testLog())
	ctx := context.Background()

	in := domain.Settings{
		Session: &domain.Session{ID: "s1", State: domain.StatePrepping},
		Inventory: []domain.Item{
			{ID: "carrot", Name: "Wild Carrot", Category: "vegetable", Qty: 3},
		},
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Session == nil || out.Session.ID != "s1" {
		t.Fatalf("session not round-tripped: %+v", out.Session)
	}
	if len(out.Inventory) != 1 || out.Inventory[0].Qty != 3 {
		t.Fatalf("inventory not round-tripped: %+v", out.Inventory)
	}

	// Mutating the loaded copy must not leak into the store.
	out.Session.State = domain.StateCooking
	out.Inventory[0].Qty = 99
	again, _ := store.Load(ctx)
	if again.Session.State != domain.StatePrepping || again.Inventory[0].Qty != 3 {
		t.Error("store handed out shared state")
	}
}

func TestMemoryStoreEmptyLoad(t *testing.T) {
	store := NewMemoryStore(testLog())

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Session != nil {
		t.Errorf("expected nil session, got %+v", got.Session)
	}
	if len(got.Inventory) != 0 {
		t.Errorf("expected empty inventory, got %d items", len(got.Inventory))
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	store := NewMemoryStore(testLog())
	snapshots := 0
	snap := func() domain.Settings {
		snapshots++
		return domain.Settings{}
	}

	deb := NewDebouncer(store, snap, 30*time.Millisecond, testLog())

	for i := 0; i < 10; i++ {
		deb.Mark()
		time.Sleep(2 * time.Millisecond)
	}
	if store.SaveCount() != 0 {
		t.Fatalf("save landed mid-burst, count=%d", store.SaveCount())
	}

	time.Sleep(80 * time.Millisecond)
	if got := store.SaveCount(); got != 1 {
		t.Fatalf("expected 1 coalesced save, got %d", got)
	}
	if snapshots != 1 {
		t.Fatalf("expected 1 snapshot read, got %d", snapshots)
	}
}

func TestDebouncerFlushLandsImmediately(t *testing.T) {
	store := NewMemoryStore(testLog())
	deb := NewDebouncer(store, func() domain.Settings { return domain.Settings{} }, time.Minute, testLog())

	deb.Mark()
	deb.Flush()

	if got := store.SaveCount(); got != 1 {
		t.Fatalf("expected flush to save once, got %d", got)
	}

	// The canceled timer must not fire a second save later.
	time.Sleep(50 * time.Millisecond)
	if got := store.SaveCount(); got != 1 {
		t.Fatalf("stale timer fired, count=%d", got)
	}
}

func TestDebouncerSeparateBurstsSaveSeparately(t *testing.T) {
	store := NewMemoryStore(testLog())
	deb := NewDebouncer(store, func() domain.Settings { return domain.Settings{} }, 20*time.Millisecond, testLog())

	deb.Mark()
	time.Sleep(60 * time.Millisecond)
	deb.Mark()
	time.Sleep(60 * time.Millisecond)

	if got := store.SaveCount(); got != 2 {
		t.Fatalf("expected 2 saves for 2 bursts, got %d", got)
	}
}
