package handlers

import (
	"errors"
	"log"
	"net/http"
	"route-pipeline-adapter/internal/api/dto"
	"route-pipeline-adapter/internal/ports"
	"route-pipeline-adapter/internal/services"
)

// PipelineResolver builds a runnable pipeline from a configuration mapping.
type PipelineResolver interface {
	BuildPipelineAndContext(cfg map[string]any, configPath string) (ports.Pipeline, ports.RunContext, error)
}

type RunHandler struct {
	Resolver PipelineResolver
}

// Run builds the pipeline described by the request body and runs it to
// completion.
func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var cfg map[string]any
	if !decodeBody(w, r, &cfg, false) {
		return
	}
	if cfg == nil {
		writeError(w, r, http.StatusBadRequest, "body must be a JSON object")
		return
	}

	pipeline, rc, err := h.Resolver.BuildPipelineAndContext(cfg, "request")
	if err != nil {
		if errors.Is(err, services.ErrUnresolvableSymbol) || errors.Is(err, services.ErrInvalidStageSpec) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("build pipeline failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := pipeline.Run(r.Context(), rc)
	out := dto.RunResponse{
		Pipeline: pipeline.Name(),
		OK:       res.OK,
		Msg:      res.Msg,
		Meta:     rc.Meta(),
	}
	out.RunID, _ = rc.Meta()["run_id"].(string)

	if err != nil {
		log.Printf("pipeline run failed: pipeline=%s run_id=%s err=%v", out.Pipeline, out.RunID, err)
		out.OK = false
		out.Error = err.Error()
		writeJSON(w, r, http.StatusInternalServerError, out)
		return
	}

	writeJSON(w, r, http.StatusOK, out)
}
