package velvet

import (
	"math"
	"testing"
)

func TestEarlyReflectionsSilencePreservation(t *testing.T) {
	s := NewEarlyReflections(DefaultEarlyReflections(44100, 0xC0FFEE))
	in := make([]float32, 512)
	out := make([]float32, 512)

	for block := 0; block < 20; block++ {
		s.ProcessBlock(in, out)
		for _, v := range out {
			if v != 0 {
				t.Fatalf("silent input should produce silent output, got %v", v)
			}
		}
	}
}

func TestEarlyReflectionsSpreadsImpulse(t *testing.T) {
	s := NewEarlyReflections(DefaultEarlyReflections(44100, 0xC0FFEE))
	in := make([]float32, 2048)
	out := make([]float32, 2048)
	in[0] = 1

	s.ProcessBlock(in, out)

	nonZero := 0
	var peak float32
	for _, v := range out {
		if v != 0 {
			nonZero++
		}
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	if nonZero < 2 {
		t.Errorf("an impulse run through a velvet-noise sequence should excite several taps, saw %d", nonZero)
	}
	if peak == 0 {
		t.Errorf("expected a nonzero response to an impulse")
	}
}

func TestEarlyReflectionsResetClearsRing(t *testing.T) {
	s := NewEarlyReflections(DefaultEarlyReflections(44100, 0xC0FFEE))
	in := make([]float32, 256)
	out := make([]float32, 256)
	in[0] = 1
	s.ProcessBlock(in, out)

	s.Reset()
	in[0] = 0
	s.ProcessBlock(in, out)
	for _, v := range out {
		if v != 0 {
			t.Errorf("Reset should clear the ring buffer's carried history, got %v", v)
		}
	}
}

func TestDarkTailDecaysAcrossSequence(t *testing.T) {
	s := NewDarkTail(DefaultDarkTail(44100, 0xBEEF))
	in := make([]float32, 4096)
	out := make([]float32, 4096)
	in[0] = 1

	s.ProcessBlock(in, out)

	half := len(out) / 2
	firstHalfPeak := peakOf(out[:half])
	secondHalfPeak := peakOf(out[half:])
	if secondHalfPeak >= firstHalfPeak {
		t.Errorf("a decaying tail should have a smaller peak in its second half: first=%v second=%v", firstHalfPeak, secondHalfPeak)
	}
}

func TestDarkTailRefreshEnvelopeChangesDecay(t *testing.T) {
	p := DefaultDarkTail(44100, 0xBEEF)
	s := NewDarkTail(p)

	// Two seconds of the three-second sequence: coefficients are RMS-
	// normalised, so the two envelopes only separate well into the tail.
	const n = 2 * 44100
	in := make([]float32, n)
	shortOut := make([]float32, n)
	in[0] = 1
	s.ProcessBlock(in, shortOut)

	s.Reset()
	s.RefreshEnvelope(p.RT60*4, p.DecayShape)
	longOut := make([]float32, n)
	s.ProcessBlock(in, longOut)

	half := len(shortOut) / 2
	if peakOf(longOut[half:]) <= peakOf(shortOut[half:]) {
		t.Errorf("a longer RT60 should retain more energy late in the sequence")
	}
}

func TestDarkTailHonorsMaxPulseCount(t *testing.T) {
	p := DefaultDarkTail(44100, 0xBEEF)
	p.DensityHz = 100000
	p.MaxPulseCount = 37
	s := NewDarkTail(p)
	if len(s.pulses) != 37 {
		t.Errorf("expected pulse count clamped to MaxPulseCount=37, got %d", len(s.pulses))
	}
}

func TestLCGIsDeterministic(t *testing.T) {
	a := newLCG(42)
	b := newLCG(42)
	for i := 0; i < 100; i++ {
		if a.next() != b.next() {
			t.Fatalf("identical seeds should produce identical sequences")
		}
	}
}

func peakOf(buf []float32) float32 {
	var peak float32
	for _, v := range buf {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	return peak
}
