package stages

import (
	"context"
	"route-pipeline-adapter/internal/domain"
	"route-pipeline-adapter/internal/ports"
	"route-pipeline-adapter/internal/services"
)

// SetMeta writes a fixed value into the run metadata.
type SetMeta struct {
	key   string
	value any
}

type setMetaArgs struct {
	Key   string `yaml:"key" validate:"required"`
	Value any    `yaml:"value"`
}

func newSetMeta(args map[string]any) (ports.Stage, error) {
	var a setMetaArgs
	if err := services.DecodeStageArgs(args, &a); err != nil {
		return nil, err
	}
	return &SetMeta{key: a.Key, value: a.Value}, nil
}

func (s *SetMeta) Name() string { return "set_meta" }

func (s *SetMeta) Run(_ context.Context, rc ports.RunContext) (domain.Result, error) {
	rc.SetMeta(s.key, s.value)
	return domain.NewResult(true, "set "+s.key), nil
}
