package services

import (
	"encoding/json"
	"reflect"
	"route-pipeline-adapter/internal/domain"
	"testing"
	"time"
)

func TestToRoutePlanStopsProjection(t *testing.T) {
	canonical := []domain.Stop{
		{Type: "depot", Lat: 1, Lon: 2, IsDepot: true, IsStart: true, Name: "HUB"},
		{Type: "delivery", Lat: 3, Lon: 4, ServiceS: 60, Name: "A", ID: "pkg-1", TWStart: "09:00", TWEnd: "10:00"},
		{Type: "depot", Lat: 1, Lon: 2, IsDepot: true, IsEnd: true},
	}

	got := ToRoutePlanStops(canonical)
	want := []domain.RoutePlanStop{
		{ID: "HUB", Lat: 1, Lon: 2},
		{ID: "pkg-1", Lat: 3, Lon: 4, ServiceS: 60, TWStart: "09:00", TWEnd: "10:00"},
		{ID: "", Lat: 1, Lon: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ToRoutePlanStops = %+v, want %+v", got, want)
	}

	again := ToRoutePlanStops(canonical)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("projection is not stable: %+v vs %+v", got, again)
	}
	if canonical[1].Name != "A" || !canonical[0].IsStart {
		t.Errorf("input was modified: %+v", canonical)
	}
}

func TestInjectIntoConfig(t *testing.T) {
	now := time.Date(2024, 1, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600))
	cfg := map[string]any{"stops": "stale"}

	stops := []domain.RoutePlanStop{{ID: "A", Lat: 1, Lon: 1}, {ID: "A-END", Lat: 1, Lon: 1}}
	InjectIntoConfig(cfg, stops, now)

	if got := cfg[KeyStartTimeUTC]; got != "2024-01-01T00:00:00Z" {
		t.Errorf("start_time_utc = %v, want 2024-01-01T00:00:00Z", got)
	}

	list, ok := cfg[KeyStops].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("stops = %#v, want 2 entries", cfg[KeyStops])
	}
	if m := list[1].(map[string]any); m["id"] != "A-END" {
		t.Errorf("second stop id = %v, want A-END", m["id"])
	}

	// A second injection keeps the start time already set.
	InjectIntoConfig(cfg, stops, now.Add(48*time.Hour))
	if got := cfg[KeyStartTimeUTC]; got != "2024-01-01T00:00:00Z" {
		t.Errorf("start_time_utc changed to %v", got)
	}
}

func TestInjectIntoConfigReplacesEmptyStartTime(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 30, 15, 999, time.UTC)

	for _, existing := range []any{nil, ""} {
		cfg := map[string]any{KeyStartTimeUTC: existing}
		InjectIntoConfig(cfg, nil, now)
		if got := cfg[KeyStartTimeUTC]; got != "2025-06-30T12:30:15Z" {
			t.Errorf("existing %#v: start_time_utc = %v", existing, got)
		}
	}
}

func TestExtractVehicleStops(t *testing.T) {
	direct := []any{map[string]any{"lat": 1}}
	nested := []any{map[string]any{"lat": 2}}

	tests := []struct {
		name    string
		vehicle any
		want    []any
	}{
		{name: "direct stops", vehicle: map[string]any{"stops": direct}, want: direct},
		{name: "route stops", vehicle: map[string]any{"route": map[string]any{"stops": nested}}, want: nested},
		{
			name:    "direct wins",
			vehicle: map[string]any{"stops": direct, "route": map[string]any{"stops": nested}},
			want:    direct,
		},
		{
			name:    "non list stops falls through to route",
			vehicle: map[string]any{"stops": "x", "route": map[string]any{"stops": nested}},
			want:    nested,
		},
		{name: "no stops", vehicle: map[string]any{"id": "v1"}, want: nil},
		{name: "route not a mapping", vehicle: map[string]any{"route": "r"}, want: nil},
		{name: "vehicle not a mapping", vehicle: "v1", want: nil},
		{name: "nil vehicle", vehicle: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVehicleStops(tt.vehicle)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractVehicleStops = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRoutePlanStopsFromConfigRoundTrip(t *testing.T) {
	stops := []domain.RoutePlanStop{
		{ID: "HUB", Lat: 1.25, Lon: 2.5},
		{ID: "A", Lat: 3, Lon: 4, ServiceS: 90, TWStart: "09:00"},
		{ID: "HUB-END", Lat: 1.25, Lon: 2.5},
	}
	cfg := map[string]any{}
	InjectIntoConfig(cfg, stops, time.Now())

	got, err := RoutePlanStopsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, stops) {
		t.Fatalf("got %+v, want %+v", got, stops)
	}

	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, err = RoutePlanStopsFromConfig(decoded)
	if err != nil {
		t.Fatalf("unexpected error after json round trip: %v", err)
	}
	if !reflect.DeepEqual(got, stops) {
		t.Fatalf("after json round trip got %+v, want %+v", got, stops)
	}
}

func TestRoutePlanStopsFromConfigErrors(t *testing.T) {
	if got, err := RoutePlanStopsFromConfig(map[string]any{}); err != nil || got != nil {
		t.Errorf("missing stops: got %v, %v", got, err)
	}
	if _, err := RoutePlanStopsFromConfig(map[string]any{"stops": 3}); err == nil {
		t.Errorf("expected error for non list stops")
	}
	if _, err := RoutePlanStopsFromConfig(map[string]any{"stops": []any{"x"}}); err == nil {
		t.Errorf("expected error for non mapping stop")
	}
	if _, err := RoutePlanStopsFromConfig(map[string]any{"stops": []any{map[string]any{"lat": "n"}}}); err == nil {
		t.Errorf("expected error for non numeric lat")
	}
}

func TestDeepCopyConfigIsolation(t *testing.T) {
	orig := map[string]any{
		"vehicles": []any{
			map[string]any{"stops": []any{map[string]any{"lat": 1}}},
		},
		"tags":    []string{"a"},
		"weights": []int{1},
		"labels":  map[string]string{"k": "v"},
	}

	cp := DeepCopyConfig(orig)
	cp["vehicles"].([]any)[0].(map[string]any)["stops"].([]any)[0].(map[string]any)["lat"] = 99
	cp["tags"].([]string)[0] = "b"
	cp["new"] = true
	cp["weights"].([]int)[0] = 2
	cp["labels"].(map[string]string)["k"] = "changed"

	stop := orig["vehicles"].([]any)[0].(map[string]any)["stops"].([]any)[0].(map[string]any)
	if stop["lat"] != 1 {
		t.Errorf("original stop modified: %v", stop)
	}
	if orig["tags"].([]string)[0] != "a" {
		t.Errorf("original tags modified")
	}
	if orig["weights"].([]int)[0] != 1 || orig["labels"].(map[string]string)["k"] != "v" {
		t.Errorf("original typed collections modified: %v %v", orig["weights"], orig["labels"])
	}
	if _, ok := orig["new"]; ok {
		t.Errorf("original map gained a key")
	}
	if DeepCopyConfig(nil) != nil {
		t.Errorf("nil config should copy to nil")
	}
}
