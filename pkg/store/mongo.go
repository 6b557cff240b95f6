package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

const (
	// DefaultDatabase is used when the connection URI names no database.
	DefaultDatabase = "boxflow"
	collectionName  = "baselines"
)

// MongoStore keeps baselines in a MongoDB collection, one document per
// fixture with the fixture name as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type baselineDoc struct {
	Name      string             `bson:"_id"`
	Snapshot  *snapshot.Snapshot `bson:"snapshot"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// NewMongoStore connects to uri and pings the server. An empty database
// means DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	if err := errors.ValidateFixtureName(name); err != nil {
		return nil, err
	}
	var doc baselineDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find baseline %s: %w", name, err)
	}
	return doc.Snapshot, nil
}

func (s *MongoStore) Put(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := errors.ValidateFixtureName(snap.Fixture); err != nil {
		return err
	}
	doc := baselineDoc{Name: snap.Fixture, Snapshot: snap, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": snap.Fixture}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store baseline %s: %w", snap.Fixture, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateFixtureName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("delete baseline %s: %w", name, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}
	var docs []struct {
		Name string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
