package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one collection per kind. The record is stored as its JSON
// text so the on-disk shape matches the other backends field for field.
type MongoStore[T any] struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

type mongoRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Body      string             `bson:"body"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func NewMongoStore[T any](coll *mongo.Collection, log zerolog.Logger) *MongoStore[T] {
	return &MongoStore[T]{
		coll: coll,
		log:  log.With().Str("collection", coll.Name()).Logger(),
	}
}

// ConnectMongo dials uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (s *MongoStore[T]) ReadAll(ctx context.Context) ([]T, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	defer cur.Close(ctx)

	records := make([]T, 0)
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
		}
		var rec T
		if err := json.Unmarshal([]byte(doc.Body), &rec); err != nil {
			s.log.Warn().Err(err).Str("id", doc.ID.Hex()).Msg("skipping undecodable record")
			continue
		}
		records = append(records, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.coll.Name(), err)
	}
	return records, nil
}

func (s *MongoStore[T]) Append(ctx context.Context, record T) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	doc := mongoRecord{Body: string(body), CreatedAt: time.Now().UTC()}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", s.coll.Name(), err)
	}
	return nil
}
