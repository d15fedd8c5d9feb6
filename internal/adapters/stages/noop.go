package stages

import (
	"context"
	"route-pipeline-adapter/internal/domain"
	"route-pipeline-adapter/internal/ports"
	"route-pipeline-adapter/internal/services"
)

// NoOp does nothing and always succeeds.
type NoOp struct {
	name string
}

type noOpArgs struct {
	Name string `yaml:"name"`
}

func newNoOp(args map[string]any) (ports.Stage, error) {
	a := noOpArgs{Name: "noop"}
	if err := services.DecodeStageArgs(args, &a); err != nil {
		return nil, err
	}
	return &NoOp{name: a.Name}, nil
}

func (s *NoOp) Name() string { return s.name }

func (s *NoOp) Run(context.Context, ports.RunContext) (domain.Result, error) {
	return domain.NewResult(true, "noop"), nil
}
