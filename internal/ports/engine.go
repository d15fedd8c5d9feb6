package ports

// Engine is the slot for an external pipeline engine. An engine advertises what
// it can construct by implementing any subset of the optional extensions below;
// the resolver checks them in priority order and falls back to built-in
// implementations for whatever is missing.
type Engine interface {
	EngineName() string
}

// Optional extension: builds the whole pipeline from configuration.
// Takes precedence over PipelineFactory.
type PipelineBuilder interface {
	Engine
	BuildPipeline(cfg map[string]any) (Pipeline, error)
}

// Optional extension: constructs a pipeline from already-instantiated stages.
type PipelineFactory interface {
	Engine
	NewPipeline(name string, stages []Stage) (Pipeline, error)
}

// Optional extension: constructs a run context holding cfg.
// Returning an error wrapping ErrUnsupportedArgs asks the resolver to
// try BareContextFactory instead.
type ContextFactory interface {
	Engine
	NewContext(cfg map[string]any) (RunContext, error)
}

// Optional extension: constructs a run context without configuration.
// The returned context must implement ConfigAttacher to be usable.
type BareContextFactory interface {
	Engine
	NewBareContext() (RunContext, error)
}

// ConfigAttacher is implemented by contexts that accept configuration after
// construction.
type ConfigAttacher interface {
	AttachConfig(cfg map[string]any) error
}
