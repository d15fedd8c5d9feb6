package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"route-pipeline-adapter/internal/domain"
	"route-pipeline-adapter/internal/platform/obs"
	"route-pipeline-adapter/internal/ports"
	"slices"

	"github.com/google/uuid"
)

// MetaRunID is the meta key holding the run id.
const MetaRunID = "run_id"

// Pipeline is the built-in sequential pipeline used when no engine provides one.
//
// Stages run strictly in order against the same run context. The first stage
// error stops the run and is returned; there is no retry and no continuation.
type Pipeline struct {
	name   string
	stages []ports.Stage
	logger *slog.Logger
}

func NewPipeline(name string, stages []ports.Stage, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{name: name, stages: slices.Clone(stages), logger: logger}
}

func (p *Pipeline) Name() string { return p.name }

func (p *Pipeline) Stages() []ports.Stage { return slices.Clone(p.stages) }

// Run executes every stage in order.
//
// The result is OK when every stage reported OK. Its message is the first
// non-OK stage message, or a completion summary.
func (p *Pipeline) Run(ctx context.Context, rc ports.RunContext) (domain.Result, error) {
	runID := ensureRunID(rc)
	ctx = obs.WithRunID(ctx, runID)

	logger := p.logger.With(
		slog.String("pipeline", p.name),
		slog.String("run_id", runID))

	total := len(p.stages)
	logger.Info("pipeline started", slog.Int("stages", total))

	ok := true
	var msg string

	for i, stage := range p.stages {
		res, err := p.runStage(ctx, logger, i+1, total, stage, rc)
		if err != nil {
			return domain.Result{OK: false, Msg: err.Error()},
				fmt.Errorf("pipeline %s: stage %d/%d %s failed: %w", p.name, i+1, total, stage.Name(), err)
		}

		if !res.OK && ok {
			ok = false
			msg = res.Msg
		}
	}

	if ok {
		msg = fmt.Sprintf("%d stage(s) completed", total)
	}

	logger.Info("pipeline completed", slog.Bool("ok", ok))
	return domain.Result{OK: ok, Msg: msg}, nil
}

func (p *Pipeline) runStage(
	ctx context.Context,
	logger *slog.Logger,
	index int,
	total int,
	stage ports.Stage,
	rc ports.RunContext,
) (res domain.Result, err error) {
	attrs := []any{
		slog.Int("index", index),
		slog.Int("total", total),
		slog.String("stage", stage.Name()),
	}

	// A panicking stage is logged like a failing one, then the panic continues.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("stage failed",
				append(attrs,
					slog.String("stage_type", fmt.Sprintf("%T", stage)),
					slog.Any("panic", r))...)
			panic(r)
		}
	}()

	logger.Info("stage started", attrs...)

	res, err = stage.Run(ctx, rc)
	if err != nil {
		logger.Error("stage failed",
			append(attrs,
				slog.String("stage_type", fmt.Sprintf("%T", stage)),
				slog.String("error", err.Error()))...)
		return res, err
	}

	logger.Info("stage completed", append(attrs, slog.Bool("ok", res.OK))...)
	return res, nil
}

func ensureRunID(rc ports.RunContext) string {
	if id, ok := rc.Meta()[MetaRunID].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	rc.SetMeta(MetaRunID, id)
	return id
}
