package api

import (
	"net/http"
	"route-pipeline-adapter/internal/api/handlers"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete engines and adapters.
func NewRouter(resolver handlers.PipelineResolver) http.Handler {
	mux := http.NewServeMux()

	runHandler := &handlers.RunHandler{Resolver: resolver}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stops/normalize", handlers.NormalizeStops)
	mux.HandleFunc("/runs", runHandler.Run)

	return loggingMiddleware(mux)
}
