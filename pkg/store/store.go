// Package store persists canvas documents.
//
// A [Store] holds opaque [Record]s keyed by document ID. Five backends
// implement it:
//   - memory: in-process map for tests and the server's scratch mode
//   - file: one JSON file per document for the CLI
//   - redis: shared storage for multi-instance servers
//   - mongo: document database storage
//   - badger: embedded key-value storage without a server
//
// [Open] builds the backend named in a [Config] and wraps it so that every
// call is reported to the observability store hooks. [SaveDocument] and
// [LoadDocument] convert between records and io documents.
//
//	s, err := store.Open(ctx, store.Config{Backend: "file", Path: dir})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	err = store.SaveDocument(ctx, s, doc)
package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned by calls on a closed store.
	ErrClosed = errors.New("store closed")
)

// Record is one stored document.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Data      []byte    `json:"data" bson:"data"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Info describes a record without its data.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Size      int       `json:"size" bson:"size"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (r *Record) info() Info {
	return Info{ID: r.ID, Name: r.Name, Size: len(r.Data), UpdatedAt: r.UpdatedAt}
}

// Store is the interface for document storage backends.
type Store interface {
	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Put creates or replaces a record. Backends stamp UpdatedAt.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record, returning ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// List describes every record, most recently updated first.
	List(ctx context.Context) ([]Info, error)

	// Close releases the backend.
	Close() error
}

// sortInfos orders by UpdatedAt descending, then by ID.
func sortInfos(infos []Info) {
	slices.SortFunc(infos, func(a, b Info) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// now is the clock used to stamp records, truncated so that every backend
// round-trips it exactly.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func stamp(rec *Record) *Record {
	cp := *rec
	cp.Data = slices.Clone(rec.Data)
	cp.UpdatedAt = now()
	return &cp
}
