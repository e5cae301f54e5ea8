package filter

import (
	"math"
	"testing"
)

func TestShelfDegenerateToScalarGain(t *testing.T) {
	s := NewShelf(44100)
	s.SetTargetGains(0.5, 0.5, 2000, 44100)
	s.Reset()

	for i := 0; i < 100; i++ {
		y := s.Process(1.0)
		if i == 99 && math.Abs(y-0.5) > 1e-6 {
			t.Errorf("expected settled output 0.5, got %v", y)
		}
	}
}

func TestShelfDCAndNyquistMagnitudes(t *testing.T) {
	s := NewShelf(44100)
	s.SetTargetGains(0.8, 0.2, 2000, 44100)
	s.Reset()

	var dc float64
	for i := 0; i < 2000; i++ {
		dc = s.Process(1.0)
	}
	if math.Abs(dc-0.8) > 1e-3 {
		t.Errorf("DC magnitude should approach gLow=0.8, got %v", dc)
	}

	s2 := NewShelf(44100)
	s2.SetTargetGains(0.8, 0.2, 2000, 44100)
	s2.Reset()
	var peak float64
	for i := 0; i < 2000; i++ {
		x := 1.0
		if i%2 == 1 {
			x = -1.0
		}
		y := s2.Process(x)
		if math.Abs(y) > peak {
			peak = math.Abs(y)
		}
	}
	if math.Abs(peak-0.2) > 0.05 {
		t.Errorf("Nyquist magnitude should approach gHigh=0.2, got %v", peak)
	}
}

func TestShelfClampsLoopGain(t *testing.T) {
	s := NewShelf(44100)
	s.SetTargetGains(1.5, -0.5, 2000, 44100)
	s.Reset()

	var dc float64
	for i := 0; i < 5000; i++ {
		dc = s.Process(1.0)
	}
	if dc > 0.9999+1e-6 {
		t.Errorf("gLow should clamp to 0.9999, settled DC response was %v", dc)
	}
}
