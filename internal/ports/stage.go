package ports

import (
	"context"
	"route-pipeline-adapter/internal/domain"
)

// Stage is one unit of pipeline work. A stage may mutate the run context but
// must not keep a reference to it after Run returns.
type Stage interface {
	Name() string
	// Run executes the stage. A returned error aborts the pipeline run.
	Run(ctx context.Context, rc RunContext) (domain.Result, error)
}

// RunContext holds the enriched configuration and the metadata shared by all
// stages of a single run. It is not safe for concurrent mutation.
type RunContext interface {
	Cfg() map[string]any
	Meta() map[string]any
	SetMeta(key string, value any)
}

// Pipeline is an ordered list of stages run sequentially against one RunContext.
type Pipeline interface {
	Name() string
	Stages() []Stage
	Run(ctx context.Context, rc RunContext) (domain.Result, error)
}
