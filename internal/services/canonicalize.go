package services

import (
	"errors"
	"fmt"
	"route-pipeline-adapter/internal/domain"
	"slices"
)

// Field names reported in ParsedStop.Defaulted.
const (
	FieldType     = "type"
	FieldLat      = "lat"
	FieldLon      = "lon"
	FieldIsDepot  = "is_depot"
	FieldIsStart  = "is_start"
	FieldIsEnd    = "is_end"
	FieldServiceS = "service_s"
	FieldName     = "name"
)

const (
	defaultStopType = "delivery"
	depotStopType   = "depot"
	defaultEndName  = "DEPOT"
	endNameSuffix   = "-END"
)

// ParsedStop is the best-effort reading of one raw stop record.
//
// Defaulted lists, in field order, every canonical field that was missing from
// the record (or unusable, like a negative service time) and received its
// default. Fallback is set when the record could not be read at all; Stop is
// then the fully-default delivery stop.
type ParsedStop struct {
	Stop      domain.Stop
	Defaulted []string
	Fallback  bool
}

func (p ParsedStop) WasDefaulted(field string) bool {
	return slices.Contains(p.Defaulted, field)
}

var errNilStop = errors.New("stop record is nil")

// ParseStop converts a raw stop record into a canonical stop.
//
// Supported records are map[string]any (as decoded from YAML or JSON),
// domain.RawStop and *domain.RawStop; a domain.Stop is taken as is. Fields are
// read from the record directly first and from a nested "location" second.
// ParseStop never fails: anything it cannot read yields the default stop with
// Fallback set.
func ParseStop(raw any) ParsedStop {
	var (
		p   ParsedStop
		err error
	)

	switch r := raw.(type) {
	case map[string]any:
		p, err = parseMapStop(r)
	case domain.RawStop:
		p = parseRawStop(&r)
	case *domain.RawStop:
		if r == nil {
			err = errNilStop
			break
		}
		p = parseRawStop(r)
	case domain.Stop:
		p = ParsedStop{Stop: r}
	case nil:
		err = errNilStop
	default:
		err = fmt.Errorf("unsupported stop record of type %T", raw)
	}

	if err != nil {
		return fallbackStop()
	}
	return p
}

func fallbackStop() ParsedStop {
	return ParsedStop{
		Stop: domain.Stop{Type: defaultStopType},
		Defaulted: []string{
			FieldType, FieldLat, FieldLon, FieldIsDepot,
			FieldIsStart, FieldIsEnd, FieldServiceS, FieldName,
		},
		Fallback: true,
	}
}

// stopReader accumulates the defaulted field list while reading a record.
type stopReader struct {
	defaulted []string
}

func (r *stopReader) markDefault(field string) {
	r.defaulted = append(r.defaulted, field)
}

func parseMapStop(m map[string]any) (ParsedStop, error) {
	var (
		r   stopReader
		s   domain.Stop
		err error
	)

	s.Type = defaultStopType
	if v, ok := present(m, FieldType); ok {
		s.Type = toString(v)
	} else {
		r.markDefault(FieldType)
	}

	loc, err := locationOf(m)
	if err != nil {
		return ParsedStop{}, fmt.Errorf("read location: %w", err)
	}

	if s.Lat, err = r.coordinate(m, loc, FieldLat); err != nil {
		return ParsedStop{}, err
	}
	if s.Lon, err = r.coordinate(m, loc, FieldLon); err != nil {
		return ParsedStop{}, err
	}

	s.IsDepot = r.flag(m, FieldIsDepot, s.Type == depotStopType)
	s.IsStart = r.flag(m, FieldIsStart, false)
	s.IsEnd = r.flag(m, FieldIsEnd, false)

	if v, ok := present(m, FieldServiceS); ok {
		n, err := toInt(v)
		if err != nil {
			return ParsedStop{}, fmt.Errorf("read %s: %w", FieldServiceS, err)
		}
		s.ServiceS = r.serviceTime(n)
	} else {
		r.markDefault(FieldServiceS)
	}

	if v, ok := present(m, FieldName); ok {
		s.Name = toString(v)
	} else {
		r.markDefault(FieldName)
	}

	if v, ok := present(m, "id"); ok {
		s.ID = toString(v)
	}
	s.TWStart = m["tw_start"]
	s.TWEnd = m["tw_end"]

	return ParsedStop{Stop: s, Defaulted: r.defaulted}, nil
}

func parseRawStop(raw *domain.RawStop) ParsedStop {
	var (
		r stopReader
		s domain.Stop
	)

	s.Type = defaultStopType
	if raw.Type != nil {
		s.Type = *raw.Type
	} else {
		r.markDefault(FieldType)
	}

	switch {
	case raw.Lat != nil:
		s.Lat = *raw.Lat
	case raw.Location != nil:
		s.Lat = raw.Location.Lat
	default:
		r.markDefault(FieldLat)
	}

	switch {
	case raw.Lon != nil:
		s.Lon = *raw.Lon
	case raw.Location != nil:
		s.Lon = raw.Location.Lon
	default:
		r.markDefault(FieldLon)
	}

	s.IsDepot = r.boolPtr(raw.IsDepot, FieldIsDepot, s.Type == depotStopType)
	s.IsStart = r.boolPtr(raw.IsStart, FieldIsStart, false)
	s.IsEnd = r.boolPtr(raw.IsEnd, FieldIsEnd, false)

	if raw.ServiceS != nil {
		s.ServiceS = r.serviceTime(*raw.ServiceS)
	} else {
		r.markDefault(FieldServiceS)
	}

	if raw.Name != nil {
		s.Name = *raw.Name
	} else {
		r.markDefault(FieldName)
	}

	if raw.ID != nil {
		s.ID = *raw.ID
	}
	s.TWStart = raw.TWStart
	s.TWEnd = raw.TWEnd

	return ParsedStop{Stop: s, Defaulted: r.defaulted}
}

// coordinate reads lat or lon, preferring the flat field over the nested location.
func (r *stopReader) coordinate(m map[string]any, loc map[string]any, field string) (float64, error) {
	v, ok := present(m, field)
	if !ok {
		v, ok = present(loc, field)
	}
	if !ok {
		r.markDefault(field)
		return 0, nil
	}

	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", field, err)
	}
	return f, nil
}

// flag reads a boolean field by truthiness, so any present value is readable.
func (r *stopReader) flag(m map[string]any, field string, fallback bool) bool {
	v, ok := present(m, field)
	if !ok {
		r.markDefault(field)
		return fallback
	}
	return domain.Truthy(v)
}

func (r *stopReader) boolPtr(v *bool, field string, fallback bool) bool {
	if v == nil {
		r.markDefault(field)
		return fallback
	}
	return *v
}

// serviceTime clamps negative dwell times to zero.
func (r *stopReader) serviceTime(n int) int {
	if n < 0 {
		r.markDefault(FieldServiceS)
		return 0
	}
	return n
}

// present reports a key as present only when it holds a non-nil value.
func present(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func locationOf(m map[string]any) (map[string]any, error) {
	v, ok := present(m, "location")
	if !ok {
		return nil, nil
	}

	switch loc := v.(type) {
	case map[string]any:
		return loc, nil
	case domain.Coordinates:
		return map[string]any{FieldLat: loc.Lat, FieldLon: loc.Lon}, nil
	case *domain.Coordinates:
		if loc == nil {
			return nil, nil
		}
		return map[string]any{FieldLat: loc.Lat, FieldLon: loc.Lon}, nil
	default:
		return nil, fmt.Errorf("location of type %T is not a mapping", v)
	}
}

// Canonicalize normalizes raw stops into a route-plan sequence.
//
// An empty input stays empty. A single stop gets a synthetic return-to-depot
// stop at the same location. The first stop is always forced to the start
// depot and the last to the end depot with no service time, whatever the raw
// records claimed; stops in between are left as parsed.
func Canonicalize(raw []any) []domain.Stop {
	stops, _ := CanonicalizeParsed(raw)
	return stops
}

// CanonicalizeParsed is Canonicalize that also returns the per-record parse
// report, one entry per raw stop (the synthetic end stop has none).
func CanonicalizeParsed(raw []any) ([]domain.Stop, []ParsedStop) {
	if len(raw) == 0 {
		return []domain.Stop{}, []ParsedStop{}
	}

	parsed := make([]ParsedStop, 0, len(raw))
	stops := make([]domain.Stop, 0, max(len(raw), 2))
	for _, r := range raw {
		p := ParseStop(r)
		parsed = append(parsed, p)
		stops = append(stops, p.Stop)
	}

	if len(stops) == 1 {
		end := stops[0]
		end.IsEnd = true
		end.IsDepot = true
		end.ServiceS = 0
		end.ID = ""

		name := stops[0].Name
		if name == "" {
			name = defaultEndName
		}
		end.Name = name + endNameSuffix

		stops = append(stops, end)
	}

	first := &stops[0]
	first.IsDepot = true
	first.IsStart = true

	last := &stops[len(stops)-1]
	last.IsDepot = true
	last.IsEnd = true
	last.ServiceS = 0

	return stops, parsed
}
