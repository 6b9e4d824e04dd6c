package timegrid

import (
	"errors"
	"testing"
	"time"
)

// TestGridCount verifies count = floor((end-start)/step) + 1 across a
// range of window/step combinations, including non-multiple windows.
func TestGridCount(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		window  time.Duration
		stepSec float64
		want    int
	}{
		{"one hour at 60s", time.Hour, 60, 61},
		{"exact multiple", 100 * time.Second, 10, 11},
		{"non-multiple window", 95 * time.Second, 10, 10},
		{"single step window", 10 * time.Second, 10, 2},
		{"sub-step window", 5 * time.Second, 10, 1},
		{"fractional step", time.Minute, 7.5, 9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(start, start.Add(tc.window), tc.stepSec)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if g.Len() != tc.want {
				t.Errorf("Len() = %d, want %d", g.Len(), tc.want)
			}
			if !g.At(0).Equal(start) {
				t.Errorf("At(0) = %v, want %v", g.At(0), start)
			}
			if g.End().After(start.Add(tc.window)) {
				t.Errorf("End() = %v overshoots requested end %v", g.End(), start.Add(tc.window))
			}
		})
	}
}

func TestGridInvalidSpec(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if _, err := New(start, end, 0); !errors.Is(err, ErrInvalidTimeSpec) {
		t.Errorf("zero step: got %v, want ErrInvalidTimeSpec", err)
	}
	if _, err := New(start, end, -60); !errors.Is(err, ErrInvalidTimeSpec) {
		t.Errorf("negative step: got %v, want ErrInvalidTimeSpec", err)
	}
	if _, err := New(end, start, 60); !errors.Is(err, ErrInvalidTimeSpec) {
		t.Errorf("end before start: got %v, want ErrInvalidTimeSpec", err)
	}
	if _, err := New(start, start, 60); !errors.Is(err, ErrInvalidTimeSpec) {
		t.Errorf("end equals start: got %v, want ErrInvalidTimeSpec", err)
	}
}

func TestGridSpacing(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g, err := New(start, start.Add(10*time.Minute), 60)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	times := g.Times()
	if len(times) != g.Len() {
		t.Fatalf("Times() length %d != Len() %d", len(times), g.Len())
	}
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) != g.Step() {
			t.Errorf("spacing at %d = %v, want %v", i, times[i].Sub(times[i-1]), g.Step())
		}
		if !times[i].Equal(g.At(i)) {
			t.Errorf("Times()[%d] = %v, At(%d) = %v", i, times[i], i, g.At(i))
		}
	}
}
