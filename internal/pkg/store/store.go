package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	settingsCollection = "settings"
	settingsID         = "watch"
)

// Settings are the user-editable parts of the watch. Seat counts are never stored.
type Settings struct {
	Id        string `bson:"_id"`
	CourseURL string `bson:"courseUrl"`
	Label     string `bson:"label"`
	Threshold *int   `bson:"threshold"`
}

// Apply overlays the stored settings on the configured ones.
func (s Settings) Apply(courseURL string, label string, threshold int) (string, string, int) {
	if s.CourseURL != "" {
		courseURL = s.CourseURL
	}
	if s.Label != "" {
		label = s.Label
	}
	if s.Threshold != nil && *s.Threshold >= 0 {
		threshold = *s.Threshold
	}
	return courseURL, label, threshold
}

type SettingsStore interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func Connect(ctx context.Context, uri string, database string) (*Mongo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(settingsCollection),
	}, nil
}

func (m *Mongo) Load(ctx context.Context) (Settings, error) {
	var s Settings
	err := m.coll.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s, ErrSettingsNotFound
	}
	if err != nil {
		return s, fmt.Errorf("load watch settings: %w", err)
	}
	return s, nil
}

func (m *Mongo) Save(ctx context.Context, s Settings) error {
	s.Id = settingsID
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": settingsID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save watch settings: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
