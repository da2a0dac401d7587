// Package app contains the services that implement the API's operations.
package app

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/domain/resource"
	"github.com/tanzim/portfolio-api/ports"
)

// ResourceService implements create, list, update and delete once for every
// resource definition. It holds no mutable state; the store is the only
// shared dependency.
type ResourceService struct {
	store  ports.DocumentStore
	clock  ports.Clock
	logger zerolog.Logger
}

// NewResourceService creates a resource service.
func NewResourceService(store ports.DocumentStore, clock ports.Clock, logger zerolog.Logger) *ResourceService {
	return &ResourceService{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Create inserts body into the resource's collection after stamping the
// server-set fields the resource declares.
func (s *ResourceService) Create(ctx context.Context, def resource.Definition, body document.Document) (ports.InsertResult, error) {
	if !def.Allows(resource.OpCreate) {
		return ports.InsertResult{}, notAllowed(def, resource.OpCreate)
	}
	if body == nil {
		body = document.Document{}
	}

	doc := document.Stamp(body.WithoutID(), s.clock.Now(), def.StampCreatedAt, def.SoftDelete)

	res, err := s.store.Insert(ctx, def.Collection, doc)
	if err != nil {
		return ports.InsertResult{}, internal(def, err)
	}

	s.logger.Debug().
		Str("resource", def.Name).
		Str("id", res.InsertedID).
		Msg("document created")
	return res, nil
}

// List returns the full collection, newest first.
func (s *ResourceService) List(ctx context.Context, def resource.Definition) ([]document.Document, error) {
	if !def.Allows(resource.OpList) {
		return nil, notAllowed(def, resource.OpList)
	}

	docs, err := s.store.List(ctx, def.Collection)
	if err != nil {
		return nil, internal(def, err)
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return docs, nil
}

// Update merges body into the document with the given id. Soft-delete
// resources ignore body and mark the document disabled instead.
func (s *ResourceService) Update(ctx context.Context, def resource.Definition, id string, body document.Document) (ports.UpdateResult, error) {
	if !def.Allows(resource.OpUpdate) {
		return ports.UpdateResult{}, notAllowed(def, resource.OpUpdate)
	}
	id, err := s.ParseID(def, id)
	if err != nil {
		return ports.UpdateResult{}, err
	}

	set := document.DisableSet()
	if !def.SoftDelete {
		set = body.WithoutID()
	}

	res, err := s.store.Update(ctx, def.Collection, id, set)
	if err != nil {
		return ports.UpdateResult{}, internal(def, err)
	}
	if def.ReportMissing && res.MatchedCount == 0 {
		return ports.UpdateResult{}, newError(ErrNotFound, def.Name, def.NotFoundMessage(), nil)
	}

	s.logger.Debug().
		Str("resource", def.Name).
		Str("id", id).
		Int64("matched", res.MatchedCount).
		Int64("modified", res.ModifiedCount).
		Msg("document updated")
	return res, nil
}

// Delete removes the document with the given id.
func (s *ResourceService) Delete(ctx context.Context, def resource.Definition, id string) (ports.DeleteResult, error) {
	if !def.Allows(resource.OpDelete) {
		return ports.DeleteResult{}, notAllowed(def, resource.OpDelete)
	}
	id, err := s.ParseID(def, id)
	if err != nil {
		return ports.DeleteResult{}, err
	}

	res, err := s.store.Delete(ctx, def.Collection, id)
	if err != nil {
		return ports.DeleteResult{}, internal(def, err)
	}
	if def.ReportMissing && res.DeletedCount == 0 {
		return ports.DeleteResult{}, newError(ErrNotFound, def.Name, def.NotFoundMessage(), nil)
	}

	s.logger.Debug().
		Str("resource", def.Name).
		Str("id", id).
		Int64("deleted", res.DeletedCount).
		Msg("document deleted")
	return res, nil
}

// ParseID validates an identifier taken from a request and returns the
// canonical form stores match on.
func (s *ResourceService) ParseID(def resource.Definition, id string) (string, error) {
	canonical, ok := document.ParseID(id)
	if !ok {
		return "", newError(ErrInvalidID, def.Name, def.InvalidIDMessage(), nil)
	}
	return canonical, nil
}

// Ping checks the store is reachable.
func (s *ResourceService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func notAllowed(def resource.Definition, op resource.Operation) *Error {
	return newError(ErrOperationNotAllowed, def.Name, "The "+op.String()+" operation is not available for "+def.Name, nil)
}

func internal(def resource.Definition, cause error) *Error {
	return newError(ErrInternal, def.Name, "Internal server error", cause)
}
