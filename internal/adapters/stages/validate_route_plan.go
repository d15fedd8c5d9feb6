package stages

import (
	"context"
	"fmt"
	"log/slog"
	"route-pipeline-adapter/internal/domain"
	"route-pipeline-adapter/internal/ports"
	"route-pipeline-adapter/internal/services"
)

// Meta keys written by ValidateRoutePlan.
const (
	MetaRoutePlanStops = "route_plan_stops"
	MetaRoutePlanValid = "route_plan_valid"
)

// ValidateRoutePlan checks the injected route plan before it goes to the leg
// planner. An unreadable plan is an error; a plan that is too short is
// reported as a failed result so later stages still run.
type ValidateRoutePlan struct {
	minStops int
	logger   *slog.Logger
}

type validateRoutePlanArgs struct {
	MinStops int `yaml:"min_stops" validate:"gte=2"`
}

func newValidateRoutePlan(args map[string]any, logger *slog.Logger) (ports.Stage, error) {
	a := validateRoutePlanArgs{MinStops: 2}
	if err := services.DecodeStageArgs(args, &a); err != nil {
		return nil, err
	}
	return &ValidateRoutePlan{minStops: a.MinStops, logger: logger}, nil
}

func (s *ValidateRoutePlan) Name() string { return "validate_route_plan" }

func (s *ValidateRoutePlan) Run(_ context.Context, rc ports.RunContext) (domain.Result, error) {
	stops, err := services.RoutePlanStopsFromConfig(rc.Cfg())
	if err != nil {
		return domain.Result{}, fmt.Errorf("validate route plan: %w", err)
	}

	rc.SetMeta(MetaRoutePlanStops, len(stops))

	if len(stops) < s.minStops {
		rc.SetMeta(MetaRoutePlanValid, false)
		s.logger.Warn("route plan too short",
			slog.Int("stops", len(stops)),
			slog.Int("min_stops", s.minStops))
		return domain.NewResult(false, fmt.Sprintf("route plan has %d stop(s), need at least %d", len(stops), s.minStops)), nil
	}

	rc.SetMeta(MetaRoutePlanValid, true)
	return domain.NewResult(true, fmt.Sprintf("route plan has %d stop(s)", len(stops))), nil
}
