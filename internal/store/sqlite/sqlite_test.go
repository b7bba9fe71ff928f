package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/podium-live/podium-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRecordAndListEvents(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []store.Event{
		{Nick: "Ann", Kind: store.EventJoined, Detail: "instructor", CreatedAt: base},
		{Nick: "Bob", Kind: store.EventJoined, Detail: "participant", CreatedAt: base.Add(time.Second)},
		{Nick: "Ann", Kind: store.EventSlide, Detail: "3", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, ev := range entries {
		if err := st.RecordEvent(ctx, ev); err != nil {
			t.Fatalf("record %v: %v", ev.Kind, err)
		}
	}

	events, err := st.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	// Most recent first.
	if events[0].Kind != store.EventSlide || events[0].Detail != "3" {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[2].Nick != "Ann" || events[2].Kind != store.EventJoined {
		t.Fatalf("last event = %+v", events[2])
	}
	for _, ev := range events {
		if ev.ID == "" {
			t.Fatalf("event without generated id: %+v", ev)
		}
	}
}

func TestListEventsLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := st.RecordEvent(ctx, store.Event{Nick: "Ann", Kind: store.EventSlide}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	events, err := st.ListEvents(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestListEventsEmpty(t *testing.T) {
	st := newTestStore(t)

	events, err := st.ListEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
}
