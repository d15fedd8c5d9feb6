package services

import (
	"route-pipeline-adapter/internal/domain"
	"slices"
	"strings"
	"testing"
)

func TestCanonicalizeEmpty(t *testing.T) {
	got := Canonicalize(nil)
	if len(got) != 0 {
		t.Fatalf("expected no stops, got %d", len(got))
	}

	got = Canonicalize([]any{})
	if len(got) != 0 {
		t.Fatalf("expected no stops, got %d", len(got))
	}
}

func TestCanonicalizeSingleStop(t *testing.T) {
	raw := []any{
		map[string]any{"type": "delivery", "lat": 1, "lon": 1, "service_s": 120},
	}

	got := Canonicalize(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(got))
	}

	first, end := got[0], got[1]
	if !first.IsDepot || !first.IsStart {
		t.Errorf("first stop must be start depot, got %+v", first)
	}
	if !strings.HasSuffix(end.Name, "-END") {
		t.Errorf("end name = %q, want suffix -END", end.Name)
	}
	if end.Name != "DEPOT-END" {
		t.Errorf("end name = %q, want DEPOT-END", end.Name)
	}
	if end.ServiceS != 0 {
		t.Errorf("end service_s = %d, want 0", end.ServiceS)
	}
	if !end.IsDepot || !end.IsEnd {
		t.Errorf("end stop must be end depot, got %+v", end)
	}
	if end.Lat != 1 || end.Lon != 1 {
		t.Errorf("end location = (%v, %v), want (1, 1)", end.Lat, end.Lon)
	}
	if first.ServiceS != 120 {
		t.Errorf("first service_s = %d, want 120", first.ServiceS)
	}
}

func TestCanonicalizeSingleStopKeepsName(t *testing.T) {
	got := Canonicalize([]any{map[string]any{"name": "HUB", "id": "h1", "lat": 3.5, "lon": 4.5}})
	if len(got) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(got))
	}
	if got[1].Name != "HUB-END" {
		t.Errorf("end name = %q, want HUB-END", got[1].Name)
	}
	if got[1].ID != "" {
		t.Errorf("end id = %q, want empty", got[1].ID)
	}
	if got[0].ID != "h1" {
		t.Errorf("first id = %q, want h1", got[0].ID)
	}
}

func TestCanonicalizeAnchorsAndMiddle(t *testing.T) {
	raw := []any{
		map[string]any{"lat": 0, "lon": 0, "is_depot": true},
		map[string]any{"lat": 5, "lon": 5, "is_start": true, "service_s": 300},
		map[string]any{"lat": 0, "lon": 0, "is_depot": true},
	}

	got := Canonicalize(raw)
	if len(got) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(got))
	}

	if !got[0].IsDepot || !got[0].IsStart || got[0].IsEnd {
		t.Errorf("first stop flags = %+v", got[0])
	}
	if !got[2].IsDepot || !got[2].IsEnd || got[2].ServiceS != 0 {
		t.Errorf("last stop flags = %+v", got[2])
	}

	mid := got[1]
	if mid.IsDepot || !mid.IsStart || mid.IsEnd {
		t.Errorf("middle stop flags changed: %+v", mid)
	}
	if mid.ServiceS != 300 {
		t.Errorf("middle service_s = %d, want 300", mid.ServiceS)
	}
}

func TestCanonicalizeOverridesRawFlags(t *testing.T) {
	raw := []any{
		map[string]any{"lat": 1, "lon": 1, "is_depot": false, "is_start": false},
		map[string]any{"lat": 2, "lon": 2, "is_depot": false, "is_end": false, "service_s": 900},
	}

	got := Canonicalize(raw)
	if !got[0].IsDepot || !got[0].IsStart {
		t.Errorf("first stop not forced to start depot: %+v", got[0])
	}
	last := got[len(got)-1]
	if !last.IsDepot || !last.IsEnd || last.ServiceS != 0 {
		t.Errorf("last stop not forced to end depot: %+v", last)
	}
}

func TestCanonicalizeInvariantOnAnyLength(t *testing.T) {
	for n := 1; n <= 6; n++ {
		raw := make([]any, 0, n)
		for i := 0; i < n; i++ {
			raw = append(raw, map[string]any{"lat": i, "lon": i, "service_s": 60, "is_end": i == 0})
		}

		got := Canonicalize(raw)
		if len(got) < 2 {
			t.Fatalf("n=%d: expected at least 2 stops, got %d", n, len(got))
		}
		if !got[0].IsDepot || !got[0].IsStart {
			t.Errorf("n=%d: first stop = %+v", n, got[0])
		}
		last := got[len(got)-1]
		if !last.IsDepot || !last.IsEnd || last.ServiceS != 0 {
			t.Errorf("n=%d: last stop = %+v", n, last)
		}
	}
}

func TestCanonicalizeParsedReportsPerRecord(t *testing.T) {
	stops, parsed := CanonicalizeParsed([]any{
		map[string]any{"lat": 1, "lon": 1},
		"not a stop",
	})
	if len(stops) != 2 || len(parsed) != 2 {
		t.Fatalf("got %d stops, %d reports, want 2 and 2", len(stops), len(parsed))
	}
	if parsed[0].Fallback {
		t.Errorf("first record should parse")
	}
	if !parsed[1].Fallback {
		t.Errorf("second record should fall back")
	}
}

func TestParseStopNestedLocation(t *testing.T) {
	p := ParseStop(map[string]any{
		"location": map[string]any{"lat": 48.85, "lon": 2.35},
		"name":     "Paris",
	})

	if p.Fallback {
		t.Fatalf("unexpected fallback")
	}
	if p.Stop.Lat != 48.85 || p.Stop.Lon != 2.35 {
		t.Errorf("location = (%v, %v), want (48.85, 2.35)", p.Stop.Lat, p.Stop.Lon)
	}
	if p.WasDefaulted(FieldLat) || p.WasDefaulted(FieldLon) {
		t.Errorf("lat/lon reported as defaulted: %v", p.Defaulted)
	}
}

func TestParseStopFlatFieldsWin(t *testing.T) {
	p := ParseStop(map[string]any{
		"lat":      "10.5",
		"location": map[string]any{"lat": 1, "lon": 2},
	})

	if p.Stop.Lat != 10.5 {
		t.Errorf("lat = %v, want 10.5", p.Stop.Lat)
	}
	if p.Stop.Lon != 2 {
		t.Errorf("lon = %v, want 2", p.Stop.Lon)
	}
}

func TestParseStopDefaults(t *testing.T) {
	p := ParseStop(map[string]any{"lat": 1.0, "lon": 2.0, "tw_start": "08:00"})

	want := domain.Stop{Type: "delivery", Lat: 1, Lon: 2, TWStart: "08:00"}
	if p.Stop != want {
		t.Errorf("stop = %+v, want %+v", p.Stop, want)
	}

	wantDefaulted := []string{FieldType, FieldIsDepot, FieldIsStart, FieldIsEnd, FieldServiceS, FieldName}
	if !slices.Equal(p.Defaulted, wantDefaulted) {
		t.Errorf("defaulted = %v, want %v", p.Defaulted, wantDefaulted)
	}
	if p.Stop.TWEnd != nil {
		t.Errorf("tw_end = %v, want absent", p.Stop.TWEnd)
	}
}

func TestParseStopDepotType(t *testing.T) {
	p := ParseStop(map[string]any{"type": "depot"})
	if !p.Stop.IsDepot {
		t.Errorf("depot type should default is_depot to true")
	}

	p = ParseStop(map[string]any{"type": "depot", "is_depot": false})
	if p.Stop.IsDepot {
		t.Errorf("explicit is_depot=false should win")
	}
}

func TestParseStopNegativeServiceTime(t *testing.T) {
	p := ParseStop(map[string]any{"service_s": -30})
	if p.Stop.ServiceS != 0 {
		t.Errorf("service_s = %d, want 0", p.Stop.ServiceS)
	}
	if !p.WasDefaulted(FieldServiceS) {
		t.Errorf("negative service_s should be reported as defaulted")
	}
}

func TestParseStopFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil record", raw: nil},
		{name: "nil raw stop pointer", raw: (*domain.RawStop)(nil)},
		{name: "unsupported record", raw: 42},
		{name: "non numeric lat", raw: map[string]any{"lat": "north", "lon": 1}},
		{name: "location not a mapping", raw: map[string]any{"location": "here"}},
		{name: "non numeric service", raw: map[string]any{"service_s": "long"}},
		{name: "infinite lon", raw: map[string]any{"lon": "Inf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseStop(tt.raw)
			if !p.Fallback {
				t.Fatalf("expected fallback for %v", tt.raw)
			}
			want := domain.Stop{Type: "delivery"}
			if p.Stop != want {
				t.Errorf("stop = %+v, want %+v", p.Stop, want)
			}
			if len(p.Defaulted) != 8 {
				t.Errorf("defaulted = %v, want every field", p.Defaulted)
			}
		})
	}
}

func TestParseStopRawStruct(t *testing.T) {
	depot := "depot"
	name := "Hub"
	service := 45

	p := ParseStop(&domain.RawStop{
		Type:     &depot,
		Location: &domain.Coordinates{Lat: 3, Lon: 4},
		Name:     &name,
		ServiceS: &service,
		TWEnd:    "18:00",
	})

	if p.Fallback {
		t.Fatalf("unexpected fallback")
	}
	want := domain.Stop{Type: "depot", Lat: 3, Lon: 4, IsDepot: true, ServiceS: 45, Name: "Hub", TWEnd: "18:00"}
	if p.Stop != want {
		t.Errorf("stop = %+v, want %+v", p.Stop, want)
	}
	if !p.WasDefaulted(FieldIsDepot) || p.WasDefaulted(FieldName) {
		t.Errorf("defaulted = %v", p.Defaulted)
	}
}

func TestParseStopFlagsByTruthiness(t *testing.T) {
	p := ParseStop(map[string]any{
		"lat":      48.1,
		"lon":      11.5,
		"name":     "Hub",
		"is_depot": "yes",
		"is_start": 0,
		"is_end":   []any{},
	})

	if p.Fallback {
		t.Fatalf("flags must never make the record unreadable")
	}
	if p.Stop.Lat != 48.1 || p.Stop.Lon != 11.5 || p.Stop.Name != "Hub" {
		t.Errorf("stop = %+v, want coordinates and name kept", p.Stop)
	}
	if !p.Stop.IsDepot || p.Stop.IsStart || p.Stop.IsEnd {
		t.Errorf("flags = depot:%v start:%v end:%v, want true false false", p.Stop.IsDepot, p.Stop.IsStart, p.Stop.IsEnd)
	}
	for _, f := range []string{FieldIsDepot, FieldIsStart, FieldIsEnd} {
		if p.WasDefaulted(f) {
			t.Errorf("%s reported as defaulted", f)
		}
	}
}
