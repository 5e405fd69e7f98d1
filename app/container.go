package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/dig"

	"tweeteroo/config"
	"tweeteroo/config/db"
	"tweeteroo/controller"
	"tweeteroo/repository"
	"tweeteroo/service"
)

func ProvideMongoClient(cfg config.Config) (*mongo.Client, error) {
	return db.GetMongoClient(cfg.Mongo)
}

func ProvideDatabase(cfg config.Config, client *mongo.Client) (*mongo.Database, error) {
	database := client.Database(db.DatabaseName(cfg.Mongo))
	timeout := cfg.Mongo.ConnectTimeout.Duration()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return nil, err
	}
	return database, nil
}

func ProvideUserRepository(database *mongo.Database) repository.UserRepository {
	return repository.NewMongoUserRepo(database)
}

func ProvideTweetRepository(database *mongo.Database) repository.TweetRepository {
	return repository.NewMongoTweetRepo(database)
}

func ProvidePinger(client *mongo.Client) controller.Pinger {
	return controller.PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
}

func ProvideHealthController(p controller.Pinger, cfg config.Config) *controller.HealthController {
	return controller.NewHealthController(p, cfg.App.Env)
}

func ProvideServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}
}

// StorageProviders supply the repositories and the health pinger from MongoDB.
func StorageProviders() []any {
	return []any{
		ProvideMongoClient,
		ProvideDatabase,
		ProvideUserRepository,
		ProvideTweetRepository,
		ProvidePinger,
	}
}

// BuildContainer wires the service against MongoDB.
func BuildContainer(cfg config.Config) (*dig.Container, error) {
	return buildContainer(cfg, StorageProviders())
}

func buildContainer(cfg config.Config, storage []any) (*dig.Container, error) {
	container := dig.New()

	providers := append([]any{func() config.Config { return cfg }}, storage...)
	providers = append(providers,
		service.NewUserService,
		service.NewTweetService,
		controller.NewUserController,
		controller.NewTweetController,
		ProvideHealthController,
		NewRouter,
		ProvideServer,
	)
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return nil, fmt.Errorf("provide %T: %w", p, err)
		}
	}
	return container, nil
}
