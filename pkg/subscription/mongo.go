package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "depwatch"
	DefaultMongoCollection = "subscriptions"
)

// MongoStore stores one document per subscription, keyed by ID.
type MongoStore struct {
	coll   *mongo.Collection
	client *mongo.Client // set when the store owns the connection
}

// NewMongoStore wraps an existing collection. Close does not disconnect.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// DialMongoStore connects to uri and uses the subscriptions collection of
// database. An empty database selects [DefaultMongoDatabase].
func DialMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		coll:   client.Database(database).Collection(DefaultMongoCollection),
		client: client,
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &sub, nil
}

func (s *MongoStore) Put(ctx context.Context, sub *Subscription) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sub.ID}, sub, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store subscription: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
