package utility

import (
	"math"
	"testing"
)

func TestClampParameter(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{"Within range", 5.0, 0.0, 10.0, 5.0},
		{"Below min", -5.0, 0.0, 10.0, 0.0},
		{"Above max", 15.0, 0.0, 10.0, 10.0},
		{"At min", 0.0, 0.0, 10.0, 0.0},
		{"At max", 10.0, 0.0, 10.0, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClampParameter(tt.value, tt.min, tt.max)
			if result != tt.expected {
				t.Errorf("ClampParameter(%f, %f, %f) = %f, want %f",
					tt.value, tt.min, tt.max, result, tt.expected)
			}
		})
	}
}

func TestSmoothParameter(t *testing.T) {
	smoother := NewSmoothParameter(0.01, 48000)

	smoother.SetImmediate(0.0)
	smoother.SetTarget(1.0)

	if !smoother.IsSmoothing() {
		t.Error("Expected parameter to be smoothing")
	}

	prev := smoother.GetCurrent()
	for i := 0; i < 100; i++ {
		current := smoother.Process()
		if current <= prev {
			t.Errorf("Expected smoothed value to increase: %f -> %f", prev, current)
		}
		prev = current
	}

	for i := 0; i < 10000; i++ {
		smoother.Process()
	}

	final := smoother.GetCurrent()
	if math.Abs(final-1.0) > 0.01 {
		t.Errorf("Expected smoothed value to reach near target: %f", final)
	}
}
