package store

import (
	"context"
	"time"
)

// EventKind classifies a journal entry.
type EventKind string

const (
	EventJoined   EventKind = "joined"
	EventLeft     EventKind = "left"
	EventSlide    EventKind = "slide"
	EventStarted  EventKind = "started"
	EventFinished EventKind = "finished"
)

// Event is one room activity record.
type Event struct {
	ID        string
	Nick      string
	Kind      EventKind
	Detail    string
	CreatedAt time.Time
}

// Store persists the room activity journal. Writes are best effort:
// the room never blocks or fails because of the journal.
type Store interface {
	// RecordEvent appends one entry. A zero ID or CreatedAt is filled
	// in by the implementation.
	RecordEvent(ctx context.Context, ev Event) error

	// ListEvents returns up to limit entries, most recent first.
	ListEvents(ctx context.Context, limit int) ([]Event, error)

	// Close closes the underlying database connection.
	Close() error
}
