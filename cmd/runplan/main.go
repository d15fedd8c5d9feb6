// Command runplan builds the pipeline described by a YAML file, runs it once
// and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"route-pipeline-adapter/internal/adapters/stages"
	"route-pipeline-adapter/internal/bootstrap"
	"route-pipeline-adapter/internal/config"
	"route-pipeline-adapter/internal/services"
	"syscall"

	"github.com/joho/godotenv"
)

type output struct {
	Pipeline string         `json:"pipeline"`
	OK       bool           `json:"ok"`
	Msg      string         `json:"msg"`
	Meta     map[string]any `json:"meta"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: runplan <config.yml>")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, path string, w io.Writer) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	logger := env.NewLogger()

	cfg, err := config.LoadRunConfig(path)
	if err != nil {
		return err
	}

	deps, closeDeps, err := bootstrap.StageDeps(ctx, env, logger)
	if err != nil {
		return err
	}
	defer closeDeps()

	reg := services.NewRegistry()
	stages.RegisterBuiltins(reg, deps)

	resolver := &services.Resolver{Registry: reg, Logger: logger}
	pipeline, rc, err := resolver.BuildPipelineAndContext(cfg, path)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, rc)
	if err != nil {
		return fmt.Errorf("run %s: %w", pipeline.Name(), err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output{Pipeline: pipeline.Name(), OK: res.OK, Msg: res.Msg, Meta: rc.Meta()})
}
