package filter

import (
	"math"
	"testing"
)

func TestBiquadLowpassAttenuatesHighFrequency(t *testing.T) {
	const sampleRate = 48000.0
	b := NewBiquad(1)
	b.SetLowpass(sampleRate, 200, 0.707)

	n := 4096
	low := make([]float32, n)
	high := make([]float32, n)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		low[i] = float32(math.Sin(2 * math.Pi * 100 * t))
		high[i] = float32(math.Sin(2 * math.Pi * 8000 * t))
	}

	b.Process(low, 0)
	bHigh := NewBiquad(1)
	bHigh.SetLowpass(sampleRate, 200, 0.707)
	bHigh.Process(high, 0)

	lowRMS := rms(low[n/2:])
	highRMS := rms(high[n/2:])
	if highRMS >= lowRMS {
		t.Errorf("expected 8kHz tone to be attenuated more than 100Hz tone through a 200Hz lowpass: low=%v high=%v", lowRMS, highRMS)
	}
}

func TestBiquadResetClearsState(t *testing.T) {
	b := NewBiquad(2)
	b.SetLowpass(48000, 1000, 0.707)
	buf := []float32{1, 1, 1, 1}
	b.Process(buf, 0)

	b.Reset()
	if b.x1[0] != 0 || b.x2[0] != 0 || b.y1[0] != 0 || b.y2[0] != 0 {
		t.Error("Reset should clear per-channel state")
	}
}

func rms(buf []float32) float64 {
	var sum float64
	for _, v := range buf {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(buf)))
}
