package metrics

import (
	"context"
	"time"

	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/ports"
)

// InstrumentedStore records timing and failures for every store call.
type InstrumentedStore struct {
	next ports.DocumentStore
	m    *Collector
}

// WrapStore instruments a document store.
func WrapStore(next ports.DocumentStore, m *Collector) *InstrumentedStore {
	return &InstrumentedStore{next: next, m: m}
}

func (s *InstrumentedStore) observe(collection, op string, start time.Time, err error) {
	s.m.StoreDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.m.StoreErrors.WithLabelValues(collection, op).Inc()
	}
}

func (s *InstrumentedStore) Insert(ctx context.Context, collection string, doc document.Document) (ports.InsertResult, error) {
	start := time.Now()
	res, err := s.next.Insert(ctx, collection, doc)
	s.observe(collection, "insert", start, err)
	return res, err
}

func (s *InstrumentedStore) List(ctx context.Context, collection string) ([]document.Document, error) {
	start := time.Now()
	docs, err := s.next.List(ctx, collection)
	s.observe(collection, "list", start, err)
	return docs, err
}

func (s *InstrumentedStore) Update(ctx context.Context, collection, id string, set document.Document) (ports.UpdateResult, error) {
	start := time.Now()
	res, err := s.next.Update(ctx, collection, id, set)
	s.observe(collection, "update", start, err)
	return res, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, collection, id string) (ports.DeleteResult, error) {
	start := time.Now()
	res, err := s.next.Delete(ctx, collection, id)
	s.observe(collection, "delete", start, err)
	return res, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedStore) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

var _ ports.DocumentStore = (*InstrumentedStore)(nil)
