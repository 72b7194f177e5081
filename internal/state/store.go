// Package state persists what garden learns across builds: when each note
// was first seen, when its content last changed, and a history of builds.
package state

import (
	"context"
	"time"
)

// Document is the tracked state of one note.
type Document struct {
	Slug        string
	Fingerprint string
	FirstSeen   time.Time
	LastChanged time.Time
}

// Build is one recorded build.
type Build struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Pages     int
	Changed   int
	Status    string
}

// Store is the persistence interface used by the site builder.
type Store interface {
	// Observe records the current fingerprint of a note. LastChanged moves
	// to now only when the fingerprint differs from the stored one.
	Observe(ctx context.Context, slug, fingerprint string, now time.Time) (doc Document, changed bool, err error)
	Get(ctx context.Context, slug string) (Document, bool, error)
	RecordBuild(ctx context.Context, b Build) error
	RecentBuilds(ctx context.Context, limit int) ([]Build, error)
	Close() error
}
