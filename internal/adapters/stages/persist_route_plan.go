package stages

import (
	"context"
	"errors"
	"fmt"
	"route-pipeline-adapter/internal/domain"
	"route-pipeline-adapter/internal/ports"
	"route-pipeline-adapter/internal/services"
)

// MetaRoutePlanPersisted is set once the route plan is stored.
const MetaRoutePlanPersisted = "route_plan_persisted"

// PersistRoutePlan stores the injected route plan under the run id.
type PersistRoutePlan struct {
	repo ports.RoutePlanRepository
}

func newPersistRoutePlan(args map[string]any, repo ports.RoutePlanRepository) (ports.Stage, error) {
	if repo == nil {
		return nil, errors.New("persist route plan: no route plan repository configured")
	}
	var a struct{}
	if err := services.DecodeStageArgs(args, &a); err != nil {
		return nil, err
	}
	return &PersistRoutePlan{repo: repo}, nil
}

func (s *PersistRoutePlan) Name() string { return "persist_route_plan" }

func (s *PersistRoutePlan) Run(ctx context.Context, rc ports.RunContext) (domain.Result, error) {
	id := runID(rc)
	if id == "" {
		return domain.Result{}, errors.New("persist route plan: run has no id")
	}

	stops, err := services.RoutePlanStopsFromConfig(rc.Cfg())
	if err != nil {
		return domain.Result{}, fmt.Errorf("persist route plan: %w", err)
	}
	if len(stops) == 0 {
		return domain.NewResult(false, "no route plan to persist"), nil
	}

	pipeline, _ := rc.Cfg()[services.KeyName].(string)
	if pipeline == "" {
		pipeline = services.DefaultPipelineName
	}

	if err := s.repo.SaveRoutePlan(ctx, id, pipeline, stops); err != nil {
		return domain.Result{}, fmt.Errorf("persist route plan: %w", err)
	}

	rc.SetMeta(MetaRoutePlanPersisted, true)
	return domain.NewResult(true, fmt.Sprintf("persisted %d stop(s)", len(stops))), nil
}
