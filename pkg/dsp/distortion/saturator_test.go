package distortion

import (
	"math"
	"testing"
)

func TestSaturatorTransparentAtZeroAmount(t *testing.T) {
	s := NewSaturator(44100)
	s.SetAmount(0)
	s.SetDriveDb(12)

	for _, x := range []float64{0, 0.1, -0.3, 0.9, -0.9} {
		y := s.Process(x)
		if math.Abs(y-x) > 1e-6 {
			t.Errorf("amount=0 should be transparent, x=%v y=%v", x, y)
		}
	}
}

func TestSaturatorBoundedAtFullDrive(t *testing.T) {
	for _, typ := range []SatType{SatSoft, SatWarm, SatTape, SatTube} {
		s := NewSaturator(44100)
		s.Type = typ
		s.SetAmount(1.0)
		s.SetDriveDb(24)

		for i := -100; i <= 100; i++ {
			x := float64(i) / 100
			y := s.Process(x)
			if math.Abs(y) > 1.3 {
				t.Errorf("type=%v x=%v produced |y|=%v > 1.3", typ, x, math.Abs(y))
			}
		}
	}
}

func TestSaturatorResetPreseedsDCBlocker(t *testing.T) {
	s := NewSaturator(44100)
	s.SetAsymmetry(0.3)
	s.SetAmount(1.0)
	s.Reset()

	y := s.Process(0)
	if math.Abs(y) > 0.5 {
		t.Errorf("reset should preseed DC blocker so near-zero input doesn't spike, got %v", y)
	}
}
