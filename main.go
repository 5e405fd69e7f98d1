package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"tweeteroo/app"
	"tweeteroo/config"
)

func main() {
	configFile := flag.String("config", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	config.LoadDotenv(*configFile)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		log.Fatalf("config: %v", err)
	}

	container, err := app.BuildContainer(cfg)
	if err != nil {
		log.Fatalf("container: %v", err)
	}

	// The Mongo client is connected and pinged while resolving the server,
	// so no request is accepted before storage is ready.
	err = container.Invoke(func(server *http.Server, client *mongo.Client) {
		run(server, client)
	})
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
}

func run(server *http.Server, client *mongo.Client) {
	go func() {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown")
	}
	if err := client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("mongo disconnect")
	}
}
