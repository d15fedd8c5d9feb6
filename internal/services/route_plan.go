package services

import (
	"fmt"
	"route-pipeline-adapter/internal/domain"
	"time"
)

// Configuration keys read and written by the stop normalization flow.
const (
	KeyStops        = "stops"
	KeyStartTimeUTC = "start_time_utc"
	KeyVehicles     = "vehicles"
	KeyRoute        = "route"
)

// StartTimeLayout formats start_time_utc: ISO-8601 in UTC with a literal Z.
const StartTimeLayout = "2006-01-02T15:04:05Z"

// ToRoutePlanStops projects canonical stops onto the leg planner's stop shape.
// The stop id falls back to the stop name.
func ToRoutePlanStops(stops []domain.Stop) []domain.RoutePlanStop {
	out := make([]domain.RoutePlanStop, 0, len(stops))
	for _, s := range stops {
		id := s.ID
		if id == "" {
			id = s.Name
		}

		out = append(out, domain.RoutePlanStop{
			ID:       id,
			Lat:      s.Lat,
			Lon:      s.Lon,
			ServiceS: s.ServiceS,
			TWStart:  s.TWStart,
			TWEnd:    s.TWEnd,
		})
	}
	return out
}

// InjectIntoConfig replaces cfg["stops"] with the route plan stops and, when
// start_time_utc is missing or empty, sets it from now.
func InjectIntoConfig(cfg map[string]any, stops []domain.RoutePlanStop, now time.Time) {
	list := make([]any, 0, len(stops))
	for _, s := range stops {
		list = append(list, s.AsMap())
	}
	cfg[KeyStops] = list

	if v, ok := cfg[KeyStartTimeUTC]; !ok || v == nil || v == "" {
		cfg[KeyStartTimeUTC] = now.UTC().Format(StartTimeLayout)
	}
}

// ExtractVehicleStops returns the raw stops of a vehicle configuration:
// vehicle.stops when it is a list, else vehicle.route.stops, else nil.
func ExtractVehicleStops(vehicle any) []any {
	v, ok := asMap(vehicle)
	if !ok {
		return nil
	}

	if stops, ok := asList(v[KeyStops]); ok {
		return stops
	}

	route, ok := asMap(v[KeyRoute])
	if !ok {
		return nil
	}
	if stops, ok := asList(route[KeyStops]); ok {
		return stops
	}
	return nil
}

// RoutePlanStopsFromConfig reads back the stops written by InjectIntoConfig,
// including configs that went through a JSON or YAML round trip.
func RoutePlanStopsFromConfig(cfg map[string]any) ([]domain.RoutePlanStop, error) {
	raw, ok := cfg[KeyStops]
	if !ok || raw == nil {
		return nil, nil
	}

	if typed, ok := raw.([]domain.RoutePlanStop); ok {
		return typed, nil
	}

	list, ok := asList(raw)
	if !ok {
		return nil, fmt.Errorf("route plan stops: %q is %T, want a list", KeyStops, raw)
	}

	out := make([]domain.RoutePlanStop, 0, len(list))
	for i, item := range list {
		m, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("route plan stops: stop #%d is %T, want a mapping", i+1, item)
		}

		s, err := routePlanStopFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("route plan stops: stop #%d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func routePlanStopFromMap(m map[string]any) (domain.RoutePlanStop, error) {
	var (
		s   domain.RoutePlanStop
		err error
	)

	if v, ok := present(m, "id"); ok {
		s.ID = toString(v)
	}
	if v, ok := present(m, FieldLat); ok {
		if s.Lat, err = toFloat(v); err != nil {
			return s, fmt.Errorf("read %s: %w", FieldLat, err)
		}
	}
	if v, ok := present(m, FieldLon); ok {
		if s.Lon, err = toFloat(v); err != nil {
			return s, fmt.Errorf("read %s: %w", FieldLon, err)
		}
	}
	if v, ok := present(m, FieldServiceS); ok {
		if s.ServiceS, err = toInt(v); err != nil {
			return s, fmt.Errorf("read %s: %w", FieldServiceS, err)
		}
	}
	s.TWStart = m["tw_start"]
	s.TWEnd = m["tw_end"]

	return s, nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, 0, len(l))
		for _, m := range l {
			out = append(out, m)
		}
		return out, true
	case []domain.RawStop:
		out := make([]any, 0, len(l))
		for _, s := range l {
			out = append(out, s)
		}
		return out, true
	case []*domain.RawStop:
		out := make([]any, 0, len(l))
		for _, s := range l {
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
