// Package memory provides in-memory implementations of storage ports.
package memory

import (
	"context"
	"sync"

	"github.com/tanzim/portfolio-api/adapters/idgen"
	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/ports"
)

type collection struct {
	order []string // insertion order, oldest first
	docs  map[string]document.Document
}

// DocumentStore is an in-memory implementation of ports.DocumentStore.
type DocumentStore struct {
	mu          sync.RWMutex
	ids         ports.IDGenerator
	collections map[string]*collection
}

// NewDocumentStore creates a new in-memory document store.
// A nil generator defaults to ObjectIDs.
func NewDocumentStore(ids ports.IDGenerator) *DocumentStore {
	if ids == nil {
		ids = idgen.ObjectID{}
	}
	return &DocumentStore{
		ids:         ids,
		collections: make(map[string]*collection),
	}
}

func (s *DocumentStore) collection(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]document.Document)}
		s.collections[name] = c
	}
	return c
}

// Insert stores a deep copy of doc under a new identifier.
func (s *DocumentStore) Insert(ctx context.Context, coll string, doc document.Document) (ports.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.InsertResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.New()
	stored := doc.WithoutID()
	stored[document.FieldID] = id

	c := s.collection(coll)
	c.docs[id] = stored
	c.order = append(c.order, id)

	return ports.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// List returns deep copies of all documents, newest first. Callers may
// mutate the results freely.
func (s *DocumentStore) List(ctx context.Context, coll string) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[coll]
	if !ok {
		return []document.Document{}, nil
	}

	out := make([]document.Document, 0, len(c.order))
	for i := len(c.order) - 1; i >= 0; i-- {
		out = append(out, c.docs[c.order[i]].Clone())
	}
	return out, nil
}

// Update shallow-merges set into the stored document.
func (s *DocumentStore) Update(ctx context.Context, coll, id string, set document.Document) (ports.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.UpdateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := ports.UpdateResult{Acknowledged: true}

	c, ok := s.collections[coll]
	if !ok {
		return res, nil
	}
	existing, ok := c.docs[id]
	if !ok {
		return res, nil
	}

	res.MatchedCount = 1
	merged, changed := document.Merge(existing, set)
	if changed {
		c.docs[id] = merged
		res.ModifiedCount = 1
	}
	return res, nil
}

// Delete removes the document with the given id.
func (s *DocumentStore) Delete(ctx context.Context, coll, id string) (ports.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DeleteResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := ports.DeleteResult{Acknowledged: true}

	c, ok := s.collections[coll]
	if !ok {
		return res, nil
	}
	if _, ok := c.docs[id]; !ok {
		return res, nil
	}

	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	res.DeletedCount = 1
	return res, nil
}

// Ping always succeeds.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *DocumentStore) Close(ctx context.Context) error {
	return nil
}

// Count returns the number of documents in a collection (for testing).
func (s *DocumentStore) Count(coll string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[coll]; ok {
		return len(c.docs)
	}
	return 0
}

// Clear removes all collections (for testing).
func (s *DocumentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string]*collection)
}

// Ensure interface compliance.
var _ ports.DocumentStore = (*DocumentStore)(nil)
