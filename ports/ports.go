// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/tanzim/portfolio-api/domain/document"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates document identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// InsertResult acknowledges an insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges an update.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
	UpsertedCount int64   `json:"upsertedCount"`
}

// DeleteResult acknowledges a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// DocumentStore persists documents in named collections.
// Identifiers passed in are already validated with document.IsValidID.
type DocumentStore interface {
	// Insert stores doc and returns the assigned identifier.
	Insert(ctx context.Context, collection string, doc document.Document) (InsertResult, error)

	// List returns every document in the collection, newest first.
	List(ctx context.Context, collection string) ([]document.Document, error)

	// Update shallow-merges set into the document with the given id.
	// An empty set matches without modifying.
	Update(ctx context.Context, collection, id string, set document.Document) (UpdateResult, error)

	// Delete removes the document with the given id.
	Delete(ctx context.Context, collection, id string) (DeleteResult, error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store session.
	Close(ctx context.Context) error
}
