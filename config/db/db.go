package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"tweeteroo/config"
)

const (
	UsersCollection  = "users"
	TweetsCollection = "tweets"

	defaultDatabase = "tweeteroo"
)

var clientInstance *mongo.Client
var clientInstanceError error
var mongoOnce sync.Once

// GetMongoClient connects and pings once per process. Later calls return the
// same client, or the same error.
func GetMongoClient(cfg config.MongoConfig) (*mongo.Client, error) {
	mongoOnce.Do(func() {
		clientInstance, clientInstanceError = connect(cfg)
	})
	return clientInstance, clientInstanceError
}

func connect(cfg config.MongoConfig) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout.Duration()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	// Check the connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.WithField("database", DatabaseName(cfg)).Info("connected to MongoDB")
	return client, nil
}

// DatabaseName picks MONGO_DATABASE, then the database in the connection
// string path, then the default.
func DatabaseName(cfg config.MongoConfig) string {
	if cfg.Database != "" {
		return cfg.Database
	}
	if cs, err := connstring.Parse(cfg.URL); err == nil && cs.Database != "" {
		return cs.Database
	}
	return defaultDatabase
}

// EnsureIndexes creates the lookup index on users.username. It is not unique:
// duplicate usernames are accepted.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("username_1"),
	})
	if err != nil {
		return fmt.Errorf("create users.username index: %w", err)
	}
	return nil
}
