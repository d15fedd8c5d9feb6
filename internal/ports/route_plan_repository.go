package ports

import (
	"context"
	"route-pipeline-adapter/internal/domain"
)

// Port: a boundary for persisting normalized route plans.
type RoutePlanRepository interface {
	// Store the route plan stops produced for a run, replacing any previous plan
	// stored under the same run id.
	SaveRoutePlan(ctx context.Context, runID string, pipeline string, stops []domain.RoutePlanStop) error
	// Retrieve the stops stored for a run in route order.
	ListRoutePlanStops(ctx context.Context, runID string) ([]domain.RoutePlanStop, error)
}
