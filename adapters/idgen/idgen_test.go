package idgen_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/tanzim/portfolio-api/adapters/idgen"
	"github.com/tanzim/portfolio-api/domain/document"
)

func TestObjectID_New(t *testing.T) {
	gen := idgen.ObjectID{}
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id := gen.New()
		if !document.IsValidID(id) {
			t.Fatalf("New() = %q, not a valid document id", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestUUID_New(t *testing.T) {
	id := idgen.UUID{}.New()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("New() = %q, not a UUID: %v", id, err)
	}
}

func TestSequential(t *testing.T) {
	gen := idgen.NewSequential()

	if got := gen.New(); got != "000000000000000000000001" {
		t.Errorf("first = %s, want 000000000000000000000001", got)
	}
	if got := gen.New(); got != "000000000000000000000002" {
		t.Errorf("second = %s, want 000000000000000000000002", got)
	}
	if !document.IsValidID(gen.New()) {
		t.Error("sequential id should be a valid document id")
	}

	gen.Reset()
	if got := gen.New(); got != "000000000000000000000001" {
		t.Errorf("after reset = %s, want 000000000000000000000001", got)
	}
}

func TestSequential_Concurrent(t *testing.T) {
	gen := idgen.NewSequential()

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.New()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != 50 {
		t.Errorf("unique ids = %d, want 50", len(seen))
	}
}
