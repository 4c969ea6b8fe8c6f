package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds the connection settings of a MongoStore.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// MongoStore keeps records in one collection keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and checks the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "graphcanvas"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	stamped := stamp(rec)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, stamped, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo put: %w", err)
	}
	rec.UpdatedAt = stamped.UpdatedAt
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List projects the data away and sizes it on the server.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"name":       1,
			"updated_at": 1,
			"size":       bson.M{"$binarySize": bson.M{"$ifNull": bson.A{"$data", ""}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	var infos []Info
	if err := cur.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	sortInfos(infos)
	return infos, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
