package stages

import (
	"log/slog"
	"route-pipeline-adapter/internal/ports"
	"route-pipeline-adapter/internal/services"
)

// Symbols of the built-in stages.
const (
	SymbolNoOp              = "rs3.stages:NoOp"
	SymbolSetMeta           = "rs3.stages:SetMeta"
	SymbolValidateRoutePlan = "rs3.stages:ValidateRoutePlan"
	SymbolPersistRoutePlan  = "rs3.stages:PersistRoutePlan"
	SymbolPublishMeta       = "rs3.stages:PublishMeta"
)

// Deps are the collaborators built-in stages are constructed with.
// Stages whose dependency is nil fail at construction time.
type Deps struct {
	Logger    *slog.Logger
	Plans     ports.RoutePlanRepository
	MetaStore ports.RunMetaStore
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// RegisterBuiltins adds the built-in stages to reg.
func RegisterBuiltins(reg *services.Registry, deps Deps) {
	reg.Register(SymbolNoOp, newNoOp)
	reg.Register(SymbolSetMeta, newSetMeta)
	reg.Register(SymbolValidateRoutePlan, func(args map[string]any) (ports.Stage, error) {
		return newValidateRoutePlan(args, deps.logger())
	})
	reg.Register(SymbolPersistRoutePlan, func(args map[string]any) (ports.Stage, error) {
		return newPersistRoutePlan(args, deps.Plans)
	})
	reg.Register(SymbolPublishMeta, func(args map[string]any) (ports.Stage, error) {
		return newPublishMeta(args, deps.MetaStore)
	})
}

// runID returns the id the pipeline recorded for this run.
func runID(rc ports.RunContext) string {
	id, _ := rc.Meta()["run_id"].(string)
	return id
}
