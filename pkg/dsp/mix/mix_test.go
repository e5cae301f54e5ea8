package mix

import (
	"math"
	"testing"
)

func TestDryWet(t *testing.T) {
	tests := []struct {
		name     string
		dry      float32
		wet      float32
		amount   float32
		expected float32
	}{
		{"100% dry", 1.0, 0.5, 0.0, 1.0},
		{"100% wet", 1.0, 0.5, 1.0, 0.5},
		{"50/50 mix", 1.0, 0.5, 0.5, 0.75},
		{"25% wet", 1.0, 0.0, 0.25, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DryWet(tt.dry, tt.wet, tt.amount)
			if math.Abs(float64(result-tt.expected)) > 0.001 {
				t.Errorf("DryWet(%f, %f, %f) = %f, want %f",
					tt.dry, tt.wet, tt.amount, result, tt.expected)
			}
		})
	}
}
