package handlers

import (
	"net/http"
	"route-pipeline-adapter/internal/api/dto"
	"route-pipeline-adapter/internal/services"
)

// NormalizeStops canonicalizes a raw stop list and reports how each record
// was read.
func NormalizeStops(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.NormalizeStopsRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	stops, parsed := services.CanonicalizeParsed(req.Stops)
	plan := services.ToRoutePlanStops(stops)

	res := dto.NormalizeStopsResponse{
		Stops:     make([]dto.StopResponse, 0, len(stops)),
		RoutePlan: make([]dto.RoutePlanStopResponse, 0, len(plan)),
		Records:   make([]dto.RecordReport, 0, len(parsed)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			Type:     s.Type,
			Lat:      s.Lat,
			Lon:      s.Lon,
			IsDepot:  s.IsDepot,
			IsStart:  s.IsStart,
			IsEnd:    s.IsEnd,
			ServiceS: s.ServiceS,
			Name:     s.Name,
			ID:       s.ID,
			TWStart:  s.TWStart,
			TWEnd:    s.TWEnd,
		})
	}
	for _, s := range plan {
		res.RoutePlan = append(res.RoutePlan, dto.RoutePlanStopResponse(s))
	}
	for i, p := range parsed {
		defaulted := p.Defaulted
		if defaulted == nil {
			defaulted = []string{}
		}
		res.Records = append(res.Records, dto.RecordReport{Index: i, Fallback: p.Fallback, Defaulted: defaulted})
	}

	writeJSON(w, r, http.StatusOK, res)
}
