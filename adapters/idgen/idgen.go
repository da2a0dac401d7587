// Package idgen provides ID generation implementations.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/ports"
)

// ObjectID generates document identifiers in ObjectID hex form.
type ObjectID struct{}

// New generates a new ObjectID.
func (ObjectID) New() string {
	return document.NewID()
}

// UUID generates UUIDs, used for error correlation ids.
type UUID struct{}

// New generates a new UUID v4.
func (UUID) New() string {
	return uuid.New().String()
}

// Sequential generates sequential identifiers (for testing).
// Output is zero-padded hex so it still passes document.IsValidID.
type Sequential struct {
	counter uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential() *Sequential {
	return &Sequential{}
}

// New generates the next sequential ID.
func (s *Sequential) New() string {
	n := atomic.AddUint64(&s.counter, 1)
	return fmt.Sprintf("%024x", n)
}

// Reset resets the counter (for testing).
func (s *Sequential) Reset() {
	atomic.StoreUint64(&s.counter, 0)
}

// Ensure interface compliance.
var (
	_ ports.IDGenerator = ObjectID{}
	_ ports.IDGenerator = UUID{}
	_ ports.IDGenerator = (*Sequential)(nil)
)
