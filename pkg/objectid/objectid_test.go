package objectid

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	id := New()
	if len(id) != Length {
		t.Fatalf("expected length %d, got %d (%s)", Length, len(id), id)
	}
	if !IsValid(id) {
		t.Errorf("expected %s to be valid", id)
	}

	other := New()
	if id == other {
		t.Errorf("expected distinct ids, got %s twice", id)
	}
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	id := NewAt(at)

	got, ok := Timestamp(id)
	if !ok {
		t.Fatalf("expected timestamp to be decoded from %s", id)
	}
	if !got.Equal(at) {
		t.Errorf("expected %v, got %v", at, got)
	}

	if id[:8] != "65e1ca48" {
		t.Errorf("unexpected timestamp prefix %s", id[:8])
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "generated", id: "65e1ca08a1b2c3d4e5f60718", want: true},
		{name: "empty", id: "", want: false},
		{name: "too short", id: "65e1ca08a1b2", want: false},
		{name: "not hex", id: "zzzzzzzzzzzzzzzzzzzzzzzz", want: false},
		{name: "too long", id: "65e1ca08a1b2c3d4e5f6071800", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.id); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
