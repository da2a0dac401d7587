package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tanzim/portfolio-api/adapters/idgen"
	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/ports"
)

// DocumentStore implements ports.DocumentStore using SQLite.
type DocumentStore struct {
	db  *DB
	ids ports.IDGenerator
}

// NewDocumentStore creates a new document store. A nil generator defaults
// to ObjectIDs.
func NewDocumentStore(db *DB, ids ports.IDGenerator) *DocumentStore {
	if ids == nil {
		ids = idgen.ObjectID{}
	}
	return &DocumentStore{db: db, ids: ids}
}

// Insert stores doc under a new identifier.
func (s *DocumentStore) Insert(ctx context.Context, collection string, doc document.Document) (ports.InsertResult, error) {
	id := s.ids.New()

	data, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return ports.InsertResult{}, fmt.Errorf("encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(data),
	)
	if err != nil {
		return ports.InsertResult{}, fmt.Errorf("insert document: %w", err)
	}

	return ports.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// List returns every document in the collection, newest first.
func (s *DocumentStore) List(ctx context.Context, collection string) ([]document.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY seq DESC`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []document.Document{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decode(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Update shallow-merges set into the stored document.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, set document.Document) (ports.UpdateResult, error) {
	res := ports.UpdateResult{Acknowledged: true}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("load document: %w", err)
	}
	res.MatchedCount = 1

	existing, err := decode(id, raw)
	if err != nil {
		return ports.UpdateResult{}, err
	}

	// Compare in the stored representation so that, for example, a time
	// value and its JSON string are not reported as a change.
	normalized, err := roundTrip(set)
	if err != nil {
		return ports.UpdateResult{}, err
	}
	merged, changed := document.Merge(existing, normalized)
	if !changed {
		return res, nil
	}

	data, err := json.Marshal(merged.WithoutID())
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("encode document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND id = ?`,
		string(data), collection, id,
	); err != nil {
		return ports.UpdateResult{}, fmt.Errorf("update document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ports.UpdateResult{}, fmt.Errorf("commit: %w", err)
	}

	res.ModifiedCount = 1
	return res, nil
}

// Delete removes the document with the given id.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) (ports.DeleteResult, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return ports.DeleteResult{}, fmt.Errorf("delete document: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return ports.DeleteResult{}, fmt.Errorf("rows affected: %w", err)
	}

	return ports.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

// Ping checks the database connection.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func decode(id, raw string) (document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	if doc == nil {
		doc = document.Document{}
	}
	doc[document.FieldID] = id
	return doc, nil
}

func roundTrip(d document.Document) (document.Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	var out document.Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	return out, nil
}

// Ensure interface compliance.
var _ ports.DocumentStore = (*DocumentStore)(nil)
