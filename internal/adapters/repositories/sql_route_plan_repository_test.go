package repositories

import (
	"context"
	"database/sql"
	"testing"
)

func TestTimeWindowEncoding(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "absent", in: nil, want: nil},
		{name: "clock string", in: "08:30", want: "08:30"},
		{name: "seconds", in: 3600, want: float64(3600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := encodeTimeWindow(tt.in)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if ns.Valid != (tt.in != nil) {
				t.Fatalf("valid = %v for %v", ns.Valid, tt.in)
			}

			got, err := decodeTimeWindow(ns)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}

	if _, err := decodeTimeWindow(sql.NullString{String: "{", Valid: true}); err == nil {
		t.Errorf("expected error for malformed stored value")
	}
}

func TestRepositoryRequiresDB(t *testing.T) {
	repo := NewSQLRoutePlanRepository(nil)

	if err := repo.SaveRoutePlan(context.Background(), "r1", "p", nil); err == nil {
		t.Errorf("expected error for nil db")
	}
	if _, err := repo.ListRoutePlanStops(context.Background(), "r1"); err == nil {
		t.Errorf("expected error for nil db")
	}
	if err := InitSchema(nil); err == nil {
		t.Errorf("expected error for nil db")
	}
}
