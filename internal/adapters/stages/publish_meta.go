package stages

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"route-pipeline-adapter/internal/domain"
	"route-pipeline-adapter/internal/ports"
	"route-pipeline-adapter/internal/services"
)

// PublishMeta saves a snapshot of the run metadata so other processes can
// follow the run.
type PublishMeta struct {
	store   ports.RunMetaStore
	exclude []string
}

type publishMetaArgs struct {
	Exclude []string `yaml:"exclude" validate:"dive,required"`
}

func newPublishMeta(args map[string]any, store ports.RunMetaStore) (ports.Stage, error) {
	if store == nil {
		return nil, errors.New("publish meta: no run meta store configured")
	}
	var a publishMetaArgs
	if err := services.DecodeStageArgs(args, &a); err != nil {
		return nil, err
	}
	return &PublishMeta{store: store, exclude: a.Exclude}, nil
}

func (s *PublishMeta) Name() string { return "publish_meta" }

func (s *PublishMeta) Run(ctx context.Context, rc ports.RunContext) (domain.Result, error) {
	id := runID(rc)
	if id == "" {
		return domain.Result{}, errors.New("publish meta: run has no id")
	}

	snapshot := maps.Clone(rc.Meta())
	for _, k := range s.exclude {
		delete(snapshot, k)
	}

	if err := s.store.SaveMeta(ctx, id, snapshot); err != nil {
		return domain.Result{}, fmt.Errorf("publish meta: %w", err)
	}
	return domain.NewResult(true, fmt.Sprintf("published %d key(s)", len(snapshot))), nil
}
