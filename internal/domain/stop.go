package domain

// Represents a raw waypoint record as supplied by callers that build stops in code.
// Every field is optional; nil means "not provided" and is defaulted during
// canonicalization. Loosely-typed map records are accepted alongside this type.
type RawStop struct {
	Type     *string
	Lat      *float64
	Lon      *float64
	Location *Coordinates
	IsDepot  *bool
	IsStart  *bool
	IsEnd    *bool
	ServiceS *int
	Name     *string
	ID       *string
	TWStart  any
	TWEnd    any
}

// Represents a normalized stop.
//
// Within a canonical sequence the first stop is the start depot and the last
// stop is the end depot with no service time. TWStart/TWEnd are carried verbatim;
// nil means the raw record had no time window bound.
type Stop struct {
	Type     string
	Lat      float64
	Lon      float64
	IsDepot  bool
	IsStart  bool
	IsEnd    bool
	ServiceS int
	Name     string
	ID       string
	TWStart  any
	TWEnd    any
}

// Represents the minimal stop shape handed to the downstream leg planner.
type RoutePlanStop struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	ServiceS int     `json:"service_s"`
	TWStart  any     `json:"tw_start,omitempty"`
	TWEnd    any     `json:"tw_end,omitempty"`
}

// AsMap renders the stop in the loosely-typed configuration shape.
func (s RoutePlanStop) AsMap() map[string]any {
	m := map[string]any{
		"id":        s.ID,
		"lat":       s.Lat,
		"lon":       s.Lon,
		"service_s": s.ServiceS,
	}
	if s.TWStart != nil {
		m["tw_start"] = s.TWStart
	}
	if s.TWEnd != nil {
		m["tw_end"] = s.TWEnd
	}
	return m
}
