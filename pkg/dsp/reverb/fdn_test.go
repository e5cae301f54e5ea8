package reverb

import (
	"math"
	"testing"

	"github.com/duskwave/hollowverb/pkg/dsp/distortion"
	"github.com/duskwave/hollowverb/pkg/dsp/matrix"
)

func TestFDNCreation(t *testing.T) {
	fdn := New(44100, matrix.Hadamard)
	if fdn == nil {
		t.Fatal("New returned nil")
	}
	if len(fdn.mat) != numChannels*numChannels {
		t.Errorf("expected %dx%d feedback matrix, got %d entries", numChannels, numChannels, len(fdn.mat))
	}
}

func TestFDNSilencePreservation(t *testing.T) {
	fdn := New(44100, matrix.Hadamard)
	fdn.SetRoomSize(0.6)
	fdn.SetRT60(2.5, 1.4, 2000)

	var peak float32
	for block := 0; block < 20; block++ {
		for i := 0; i < 512; i++ {
			l, r := fdn.ProcessSample(0, 0)
			if math.Abs(float64(l)) > float64(peak) {
				peak = float32(math.Abs(float64(l)))
			}
			if math.Abs(float64(r)) > float64(peak) {
				peak = float32(math.Abs(float64(r)))
			}
		}
	}
	if peak >= 1e-3 {
		t.Errorf("silent input should decay below 1e-3, got peak %g", peak)
	}
}

func TestFDNBoundedOutput(t *testing.T) {
	fdn := New(44100, matrix.Hadamard)
	fdn.SetRoomSize(1.0)
	fdn.SetRT60(12, 8, 2000)
	fdn.SetDiffusion(1.0)
	fdn.SetSaturation(distortion.SatTube, 24, 0, 1.0)

	for i := 0; i < 44100*10; i++ {
		var in float32
		if i%7 == 0 {
			in = 1
		} else if i%11 == 0 {
			in = -1
		}
		l, r := fdn.ProcessSample(in, in)
		if math.IsNaN(float64(l)) || math.IsNaN(float64(r)) || math.IsInf(float64(l), 0) || math.IsInf(float64(r), 0) {
			t.Fatalf("NaN/Inf at sample %d: l=%v r=%v", i, l, r)
		}
		if math.Abs(float64(l)) > 10 || math.Abs(float64(r)) > 10 {
			t.Fatalf("output exceeded bound at sample %d: l=%v r=%v", i, l, r)
		}
	}
}

func TestFDNEnergyPreservingMatrix(t *testing.T) {
	m := matrix.Build(matrix.Hadamard, numChannels, 0)
	v := [numChannels]float64{1, -2, 3, 0.5, -1, 2, -0.5, 1.5}
	out := make([]float64, numChannels)
	matrix.Apply(m, v[:], out)

	var normIn, normOut float64
	for i := 0; i < numChannels; i++ {
		normIn += v[i] * v[i]
		normOut += out[i] * out[i]
	}
	if diff := math.Abs(normOut - normIn); diff > 1e-2*normIn {
		t.Errorf("matrix should preserve energy, in=%v out=%v", normIn, normOut)
	}
}

func TestFDNResetIdempotence(t *testing.T) {
	fdn := New(44100, matrix.Hadamard)
	fdn.SetRoomSize(0.6)
	fdn.SetRT60(2.5, 1.4, 2000)

	for i := 0; i < 1000; i++ {
		fdn.ProcessSample(0.3, -0.2)
	}
	fdn.Reset()

	l, r := fdn.ProcessSample(0, 0)
	if math.Abs(float64(l)) > 1e-5 || math.Abs(float64(r)) > 1e-5 {
		t.Errorf("reset should zero state, got l=%v r=%v", l, r)
	}
}
