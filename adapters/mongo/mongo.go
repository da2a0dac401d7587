// Package mongo provides the MongoDB implementation of the document store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options configures the MongoDB connection.
type Options struct {
	URI            string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
}

// Store implements ports.DocumentStore on one long-lived client session.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

// Connect opens a client and verifies the deployment is reachable.
// The caller must not serve requests if this fails.
func Connect(ctx context.Context, opts Options, logger zerolog.Logger) (*Store, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if opts.Database == "" {
		return nil, errors.New("mongo database is required")
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerAPIOptions(
			options.ServerAPI(options.ServerAPIVersion1).
				SetStrict(true).
				SetDeprecationErrors(true),
		)
	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info().Str("database", opts.Database).Msg("connected to mongodb")

	return &Store{
		client: client,
		db:     client.Database(opts.Database),
		logger: logger,
	}, nil
}

// Insert stores doc; the server assigns the ObjectID.
func (s *Store) Insert(ctx context.Context, collection string, doc document.Document) (ports.InsertResult, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc.WithoutID()))
	if err != nil {
		return ports.InsertResult{}, fmt.Errorf("insert into %s: %w", collection, err)
	}

	return ports.InsertResult{
		Acknowledged: true,
		InsertedID:   idString(res.InsertedID),
	}, nil
}

// List returns every document sorted by _id descending. ObjectIDs start
// with their creation time, so this is newest first.
func (s *Store) List(ctx context.Context, collection string) ([]document.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})

	cur, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	docs := make([]document.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

// Update applies a $set with the given fields.
func (s *Store) Update(ctx context.Context, collection, id string, set document.Document) (ports.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("parse id: %w", err)
	}
	filter := bson.M{"_id": oid}
	coll := s.db.Collection(collection)

	set = set.WithoutID()
	if len(set) == 0 {
		// The server rejects an empty $set; report the match without writing.
		n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return ports.UpdateResult{}, fmt.Errorf("count in %s: %w", collection, err)
		}
		return ports.UpdateResult{Acknowledged: true, MatchedCount: n}, nil
	}

	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M(set)})
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("update in %s: %w", collection, err)
	}

	out := ports.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		upserted := idString(res.UpsertedID)
		out.UpsertedID = &upserted
	}
	return out, nil
}

// Delete removes one document by _id.
func (s *Store) Delete(ctx context.Context, collection, id string) (ports.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ports.DeleteResult{}, fmt.Errorf("parse id: %w", err)
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return ports.DeleteResult{}, fmt.Errorf("delete in %s: %w", collection, err)
	}

	return ports.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.logger.Info().Msg("mongodb connection closed")
	return nil
}

// Ensure interface compliance.
var _ ports.DocumentStore = (*Store)(nil)
