package repository

import (
	"context"
	"errors"
)

var ErrDocumentNotFound = errors.New("document not found")

// Document is a schemaless record. Values are JSON-compatible.
type Document = map[string]any

// Filter matches documents whose top-level Field equals Value.
type Filter struct {
	Field string
	Value any
}

type Record struct {
	ID   string
	Data Document
}

// Snapshot is one observed state of a watched record. Err is set when the
// backend failed to read or stream it.
type Snapshot struct {
	ID     string
	Data   Document
	Exists bool
	Err    error
}

// Subscription streams snapshots of a single record. After Close returns no
// further snapshot is delivered and Updates is closed.
type Subscription interface {
	Updates() <-chan Snapshot
	Close() error
}

type DocumentStore interface {
	// Get returns ErrDocumentNotFound when the record does not exist.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set overwrites the record.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Update replaces the given top-level keys. It fails with
	// ErrDocumentNotFound when the record does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Merge upserts the record, merging nested maps key by key.
	Merge(ctx context.Context, collection, id string, fields Document) error
	Query(ctx context.Context, collection string, filters ...Filter) ([]Record, error)
	Watch(ctx context.Context, collection, id string) (Subscription, error)
	Close() error
}
