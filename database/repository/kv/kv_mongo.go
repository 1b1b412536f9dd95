package kvRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
	ExpiresAt time.Time `bson:"expiresAt,omitempty"`
}

// MongoStore keeps envelopes in a collection keyed by _id. Expiry is enforced
// by a TTL index and re-checked on read since the TTL monitor runs lazily.
type MongoStore struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

// NewMongoStore creates a Store on coll and ensures its indexes.
func NewMongoStore(ctx context.Context, coll *mongo.Collection, ttl time.Duration) (*MongoStore, error) {
	s := &MongoStore{coll: coll, ttl: ttl, now: time.Now}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the expiry index.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	expiryIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := s.coll.Indexes().CreateOne(ctx, expiryIdx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, key string, dst interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var entry mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	if !entry.ExpiresAt.IsZero() && !entry.ExpiresAt.After(s.now()) {
		return ErrNotFound
	}
	return decode(entry.Value, dst)
}

func (s *MongoStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := s.now()
	set := bson.M{"value": data, "updatedAt": now}
	update := bson.M{"$set": set}
	if s.ttl > 0 {
		set["expiresAt"] = now.Add(s.ttl)
	} else {
		update["$unset"] = bson.M{"expiresAt": ""}
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}}); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}
