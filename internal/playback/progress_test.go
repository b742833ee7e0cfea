// ABOUTME: Tests for progress computation
// ABOUTME: Tests duration resolution, clamping and NaN coercion
package playback

import (
	"math"
	"testing"
)

func TestResolveDurationStoredWins(t *testing.T) {
	if got := ResolveDuration(40, 38.5); got != 40 {
		t.Errorf("expected stored 40, got %f", got)
	}
}

func TestResolveDurationDecodedFallback(t *testing.T) {
	if got := ResolveDuration(0, 38.5); got != 38.5 {
		t.Errorf("expected decoded 38.5, got %f", got)
	}
}

func TestResolveDurationFloor(t *testing.T) {
	if got := ResolveDuration(0, 0); got != 1 {
		t.Errorf("expected floor 1, got %f", got)
	}
	if got := ResolveDuration(-3, -1); got != 1 {
		t.Errorf("expected floor 1 for negatives, got %f", got)
	}
	if got := ResolveDuration(math.Inf(1), 0); got != 1 {
		t.Errorf("expected floor 1 for infinite stored, got %f", got)
	}
}

func TestComputeFractionInRange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		duration float64
		expected float64
	}{
		{"zero", 0, 40, 0},
		{"half", 20, 40, 0.5},
		{"end", 40, 40, 1},
		{"overshoot", 45, 40, 1},
		{"negative", -5, 40, 0},
		{"zero duration", 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compute(tt.current, tt.duration)
			if d.Fraction != tt.expected {
				t.Errorf("expected fraction %f, got %f", tt.expected, d.Fraction)
			}
			if d.Fraction < 0 || d.Fraction > 1 {
				t.Errorf("fraction out of range: %f", d.Fraction)
			}
		})
	}
}

func TestComputeNaNCoercion(t *testing.T) {
	d := Compute(math.NaN(), math.NaN())
	if d.Fraction != 0 {
		t.Errorf("expected fraction 0 for NaN inputs, got %f", d.Fraction)
	}
	if d.Elapsed != 0 {
		t.Errorf("expected elapsed 0 for NaN inputs, got %f", d.Elapsed)
	}
	if math.IsNaN(d.Duration) {
		t.Error("duration must not be NaN")
	}
}

func TestComputeElapsedClamped(t *testing.T) {
	d := Compute(45, 40)
	if d.Elapsed != 40 {
		t.Errorf("expected elapsed clamped to 40, got %f", d.Elapsed)
	}
}

func TestComputeIdempotent(t *testing.T) {
	a := Compute(12.5, 40)
	b := Compute(12.5, 40)
	if a != b {
		t.Errorf("expected identical displays, got %+v and %+v", a, b)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59.9, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{3600, "60:00"},
		{-3, "0:00"},
		{math.NaN(), "0:00"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.expected {
			t.Errorf("FormatTime(%f): expected %q, got %q", tt.seconds, got, tt.expected)
		}
	}
}
