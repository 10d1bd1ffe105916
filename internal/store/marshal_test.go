package store

import (
	"database/sql"
	"slices"
	"testing"
)

func TestMarshalInts(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want string
	}{
		{"nil", nil, "[]"},
		{"empty", []int{}, "[]"},
		{"values", []int{5, -3, 0}, "[5,-3,0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := marshalInts(tt.in)
			if err != nil {
				t.Fatalf("marshalInts() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("marshalInts() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnmarshalInts(t *testing.T) {
	got, err := unmarshalInts(sql.NullString{String: "[5,-3,0]", Valid: true})
	if err != nil {
		t.Fatalf("unmarshalInts() failed: %v", err)
	}
	if !slices.Equal(got, []int{5, -3, 0}) {
		t.Errorf("unmarshalInts() = %v", got)
	}

	got, err = unmarshalInts(sql.NullString{})
	if err != nil || got != nil {
		t.Errorf("NULL should read as nil, got %v, %v", got, err)
	}

	if _, err := unmarshalInts(sql.NullString{String: "[1.5]", Valid: true}); err == nil {
		t.Error("expected error for non-integer element")
	}
}
