package publish

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig configures the document sink.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// MongoSink stores each data file as one document keyed by its path. JSON
// payloads are stored parsed so the records stay queryable.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSink connects to cfg.URI and verifies the server is reachable.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri required")
	}
	dbName := cfg.Database
	if dbName == "" {
		dbName = "openstudio_standards"
	}
	collName := cfg.Collection
	if collName == "" {
		collName = "data_files"
	}
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoSink{
		client:     client,
		collection: client.Database(dbName).Collection(collName),
	}, nil
}

func (s *MongoSink) Driver() Driver { return DriverMongo }

func (s *MongoSink) Put(ctx context.Context, key string, payload []byte, contentType string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	doc, err := MongoDocument(clean, payload, contentType, time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = s.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: clean}}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", clean, err)
	}
	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// MongoDocument wraps a payload in the stored document shape. JSON payloads
// are decoded with Extended JSON rules into "content"; anything else is kept
// as raw bytes under "raw".
func MongoDocument(key string, payload []byte, contentType string, at time.Time) (bson.D, error) {
	doc := bson.D{
		{Key: "_id", Value: key},
		{Key: "content_type", Value: contentType},
		{Key: "updated_at", Value: at},
	}
	if contentType != ContentTypeJSON {
		return append(doc, bson.E{Key: "raw", Value: payload}), nil
	}
	var content bson.D
	if err := bson.UnmarshalExtJSON(payload, false, &content); err != nil {
		return nil, fmt.Errorf("decode %s as json: %w", key, err)
	}
	return append(doc, bson.E{Key: "content", Value: content}), nil
}
