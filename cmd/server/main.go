package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"route-pipeline-adapter/internal/adapters/stages"
	"route-pipeline-adapter/internal/api"
	"route-pipeline-adapter/internal/bootstrap"
	"route-pipeline-adapter/internal/config"
	"route-pipeline-adapter/internal/services"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the optional Postgres and Redis adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger := env.NewLogger()
	slog.SetDefault(logger)

	deps, closeDeps, err := bootstrap.StageDeps(context.Background(), env, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeDeps()

	reg := services.NewRegistry()
	stages.RegisterBuiltins(reg, deps)

	resolver := &services.Resolver{Registry: reg, Logger: logger}
	router := api.NewRouter(resolver)

	// Pipelines run inside the request, so the write timeout covers a full run.
	log.Printf("Server listening addr=:%s", env.Port)
	srv := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
