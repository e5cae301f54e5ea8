package oversample

import (
	"math"
	"testing"
)

func TestHalfbandOffRatioIsPassthrough(t *testing.T) {
	h := NewHalfband()
	h.Initialize(1, int(Off), 44100, 64)

	block := make([]float32, 64)
	for i := range block {
		block[i] = float32(math.Sin(float64(i) * 0.1))
	}

	up := h.Up(0, block)
	if len(up) != len(block) {
		t.Fatalf("Off factor should not change block length, got %d want %d", len(up), len(block))
	}
	for i := range block {
		if up[i] != block[i] {
			t.Errorf("Off factor Up should pass through unchanged at %d: got %v want %v", i, up[i], block[i])
		}
	}

	out := make([]float32, 64)
	h.Down(0, up, out)
	for i := range block {
		if out[i] != block[i] {
			t.Errorf("Off factor Down should pass through unchanged at %d: got %v want %v", i, out[i], block[i])
		}
	}

	if h.LatencySamples() != 0 {
		t.Errorf("Off factor should report zero latency, got %d", h.LatencySamples())
	}
}

func TestHalfbandX2UpscalesLength(t *testing.T) {
	h := NewHalfband()
	h.Initialize(2, int(X2), 44100, 64)

	block := make([]float32, 64)
	block[0] = 1

	up := h.Up(0, block)
	if len(up) != 128 {
		t.Fatalf("x2 Up should double block length, got %d", len(up))
	}

	out := make([]float32, 64)
	h.Down(0, up, out)
	if len(out) != 64 {
		t.Fatalf("Down should restore the original block length, got %d", len(out))
	}

	if h.LatencySamples() <= 0 {
		t.Errorf("x2 factor should report nonzero latency")
	}
	if h.OversampledRate(44100) != 88200 {
		t.Errorf("x2 oversampled rate should be 88200, got %v", h.OversampledRate(44100))
	}
}

func TestHalfbandX4RatioMatchesFactor(t *testing.T) {
	h := NewHalfband()
	h.Initialize(1, int(X4), 44100, 32)

	block := make([]float32, 32)
	up := h.Up(0, block)
	if len(up) != 128 {
		t.Fatalf("x4 Up should quadruple block length, got %d", len(up))
	}
	if h.OversampledRate(44100) != 176400 {
		t.Errorf("x4 oversampled rate should be 176400, got %v", h.OversampledRate(44100))
	}
}

func TestHalfbandResetClearsFilterState(t *testing.T) {
	h := NewHalfband()
	h.Initialize(1, int(X2), 44100, 64)

	block := make([]float32, 64)
	for i := range block {
		block[i] = 1
	}
	h.Up(0, block)
	h.Reset()

	silent := make([]float32, 64)
	up := h.Up(0, silent)
	for i, v := range up {
		if v != 0 {
			t.Errorf("after Reset, silent input should stay silent at %d, got %v", i, v)
		}
	}
}
