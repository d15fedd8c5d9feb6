package services

import (
	"errors"
	"fmt"
	"log/slog"
	"route-pipeline-adapter/internal/adapters/fallback"
	"route-pipeline-adapter/internal/ports"
	"time"
)

// DefaultPipelineName names pipelines whose configuration has no "name".
const DefaultPipelineName = "rs3-pipeline"

const (
	KeyName   = "name"
	KeyStages = "stages"
)

// Resolver builds pipelines and run contexts from configuration.
//
// Construction goes through a fallback chain: the engine's pipeline builder,
// then the engine's pipeline factory fed with registry-built stages, then the
// built-in sequential pipeline. Contexts follow the same pattern. A nil Engine
// means no external engine is available.
type Resolver struct {
	Engine   ports.Engine
	Registry *Registry
	Logger   *slog.Logger
	// Now stamps start_time_utc; defaults to time.Now.
	Now func() time.Time
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Resolver) engineName() string {
	if r.Engine == nil {
		return ""
	}
	return r.Engine.EngineName()
}

var errNoPipeline = errors.New("engine returned no pipeline")

// BuildPipeline constructs the pipeline described by cfg.
func (r *Resolver) BuildPipeline(cfg map[string]any) (ports.Pipeline, error) {
	if b, ok := r.Engine.(ports.PipelineBuilder); ok {
		p, err := b.BuildPipeline(cfg)
		if err == nil && p == nil {
			err = errNoPipeline
		}
		if err != nil {
			return nil, fmt.Errorf("build pipeline: engine %s: %w", b.EngineName(), err)
		}
		return p, nil
	}

	name := DefaultPipelineName
	if v, ok := cfg[KeyName].(string); ok && v != "" {
		name = v
	}

	stages, err := r.Registry.InstantiateAll(cfg[KeyStages])
	if err != nil {
		return nil, fmt.Errorf("build pipeline %s: %w", name, err)
	}

	if f, ok := r.Engine.(ports.PipelineFactory); ok {
		p, err := f.NewPipeline(name, stages)
		if err == nil && p == nil {
			err = errNoPipeline
		}
		if err != nil {
			return nil, fmt.Errorf("build pipeline %s: engine %s: %w", name, f.EngineName(), err)
		}
		return p, nil
	}

	r.logger().Warn("no engine pipeline available, using built-in pipeline",
		slog.String("engine", r.engineName()),
		slog.String("pipeline", name))

	return fallback.NewPipeline(name, stages, r.logger()), nil
}

// BuildContext constructs the run context holding cfg.
//
// An engine context factory that rejects cfg as a constructor argument is
// retried as a bare context with cfg attached afterwards. A context that
// cannot take cfg either way is not used: the built-in context is returned
// instead, so the result always exposes cfg.
func (r *Resolver) BuildContext(cfg map[string]any) (ports.RunContext, error) {
	if f, ok := r.Engine.(ports.ContextFactory); ok {
		rc, err := f.NewContext(cfg)
		if err == nil {
			if rc == nil {
				return r.noEngineContext(f.EngineName(), cfg), nil
			}
			return rc, nil
		}
		if !errors.Is(err, ports.ErrUnsupportedArgs) {
			return nil, fmt.Errorf("build context: engine %s: %w", f.EngineName(), err)
		}
	}

	if f, ok := r.Engine.(ports.BareContextFactory); ok {
		rc, err := f.NewBareContext()
		if err != nil {
			return nil, fmt.Errorf("build context: engine %s: %w", f.EngineName(), err)
		}
		if rc == nil {
			return r.noEngineContext(f.EngineName(), cfg), nil
		}

		if err := attachConfig(rc, cfg); err != nil {
			r.logger().Warn("engine context cannot hold configuration, using built-in context",
				slog.String("engine", f.EngineName()),
				slog.String("error", err.Error()))
			return fallback.NewContext(cfg), nil
		}
		return rc, nil
	}

	r.logger().Warn("no engine context available, using built-in context",
		slog.String("engine", r.engineName()))

	return fallback.NewContext(cfg), nil
}

func (r *Resolver) noEngineContext(engine string, cfg map[string]any) ports.RunContext {
	r.logger().Warn("engine returned no context, using built-in context",
		slog.String("engine", engine))
	return fallback.NewContext(cfg)
}

var errNoAttacher = errors.New("context does not accept configuration")

func attachConfig(rc ports.RunContext, cfg map[string]any) error {
	a, ok := rc.(ports.ConfigAttacher)
	if !ok {
		return fmt.Errorf("%w (%T)", errNoAttacher, rc)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return a.AttachConfig(cfg)
}

// BuildPipelineAndContext normalizes the stops of the first vehicle into a
// private copy of cfg, then builds the pipeline and context from that copy.
// cfg itself is never modified. configPath is only reported in logs.
func (r *Resolver) BuildPipelineAndContext(cfg map[string]any, configPath string) (ports.Pipeline, ports.RunContext, error) {
	local := DeepCopyConfig(cfg)
	if local == nil {
		local = map[string]any{}
	}

	if vehicles, ok := asList(local[KeyVehicles]); ok && len(vehicles) > 0 {
		raw := ExtractVehicleStops(vehicles[0])
		if len(raw) > 0 {
			stops := Canonicalize(raw)
			InjectIntoConfig(local, ToRoutePlanStops(stops), r.now())
		} else {
			r.logger().Warn("no stops found for the current vehicle",
				slog.String("config_path", configPath))
		}
	}

	pipeline, err := r.BuildPipeline(local)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline and context: %w", err)
	}

	rc, err := r.BuildContext(local)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline and context: %w", err)
	}

	r.logger().Debug("pipeline built",
		slog.String("pipeline", pipeline.Name()),
		slog.Int("stages", len(pipeline.Stages())),
		slog.String("config_path", configPath))

	return pipeline, rc, nil
}
