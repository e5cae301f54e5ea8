package filter

import (
	"math"
	"testing"
)

func TestToneInactiveBelowThreshold(t *testing.T) {
	tn := NewTone()
	tn.SetTone(0.005, 44100)
	for i := 0; i < 10; i++ {
		y := tn.Process(0.37, 0.005)
		if y != 0.37 {
			t.Errorf("tone below threshold should be transparent, got %v", y)
		}
	}
}

func TestToneDarkAndBrightBoundedOnUnitCircle(t *testing.T) {
	tn := NewTone()
	tn.SetTone(-1, 44100)
	var peak float64
	for i := 0; i < 4000; i++ {
		x := math.Sin(2 * math.Pi * 1000 * float64(i) / 44100)
		y := tn.Process(x, -1)
		if i > 2000 && math.Abs(y) > peak { // skip initial filter-settling transient
			peak = math.Abs(y)
		}
	}
	if peak > 1.01 {
		t.Errorf("dark branch should stay bounded by 1 in steady state, got peak %v", peak)
	}

	tn2 := NewTone()
	tn2.SetTone(1, 44100)
	peak = 0
	for i := 0; i < 4000; i++ {
		x := math.Sin(2 * math.Pi * 1000 * float64(i) / 44100)
		y := tn2.Process(x, 1)
		if i > 2000 && math.Abs(y) > peak {
			peak = math.Abs(y)
		}
	}
	if peak > 1.01 {
		t.Errorf("bright branch should stay bounded by 1 in steady state, got peak %v", peak)
	}
}
