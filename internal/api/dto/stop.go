package dto

type NormalizeStopsRequest struct {
	Stops []any `json:"stops"`
}

type StopResponse struct {
	Type     string  `json:"type"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	IsDepot  bool    `json:"is_depot"`
	IsStart  bool    `json:"is_start"`
	IsEnd    bool    `json:"is_end"`
	ServiceS int     `json:"service_s"`
	Name     string  `json:"name,omitempty"`
	ID       string  `json:"id,omitempty"`
	TWStart  any     `json:"tw_start,omitempty"`
	TWEnd    any     `json:"tw_end,omitempty"`
}

type RoutePlanStopResponse struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	ServiceS int     `json:"service_s"`
	TWStart  any     `json:"tw_start,omitempty"`
	TWEnd    any     `json:"tw_end,omitempty"`
}

// RecordReport describes how one input record was read.
type RecordReport struct {
	Index     int      `json:"index"`
	Fallback  bool     `json:"fallback"`
	Defaulted []string `json:"defaulted"`
}

type NormalizeStopsResponse struct {
	Stops     []StopResponse          `json:"stops"`
	RoutePlan []RoutePlanStopResponse `json:"route_plan"`
	Records   []RecordReport          `json:"records"`
}
