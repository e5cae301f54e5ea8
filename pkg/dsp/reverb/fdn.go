// Package reverb implements the eight-channel feedback delay network that
// forms the mid-length reverb tail (spec §4.9).
package reverb

import (
	"math"

	"github.com/duskwave/hollowverb/pkg/dsp/delay"
	"github.com/duskwave/hollowverb/pkg/dsp/diffuser"
	"github.com/duskwave/hollowverb/pkg/dsp/distortion"
	"github.com/duskwave/hollowverb/pkg/dsp/filter"
	"github.com/duskwave/hollowverb/pkg/dsp/matrix"
)

const numChannels = 8

// maxModSamples bounds the LFO-driven delay-length modulation applied to
// each channel's read position.
const maxModSamples = 16

// BaseDelays are the mutually-coprime base lengths (samples at 44.1kHz)
// fixed by the specification's canonical example set.
var BaseDelays = [numChannels]int{887, 1151, 1559, 1907, 2467, 3109, 3907, 4787}

// diffuserSeed is the fixed LCG seed for the input diffuser's sign masks.
const diffuserSeed = 0xBAADF00D

// matrixSignInSeed and matrixSignOutSeed fix the feedback matrix's
// per-row input/output sign masks (spec §4.5).
const (
	matrixSignInSeed  = 0x5EED0001
	matrixSignOutSeed = 0x5EED0002
)

// FDN is the eight-channel feedback delay network. All state is owned
// exclusively by this struct and touched only from the audio thread; no
// buffer grows after Prepare.
type FDN struct {
	sampleRate float64

	lines [numChannels]*delay.Line

	baseDelay    [numChannels]float64 // target length in samples at the current room size
	smoothDelay  [numChannels]float64 // smoothed toward baseDelay, ~5ms time constant
	delayCoeff   float64

	shelves    [numChannels]*filter.Shelf
	saturators [numChannels]*distortion.Saturator
	tones      [numChannels]*filter.Tone

	matrixKind matrix.Kind
	mat        []float64
	signIn     []float64
	signOut    []float64
	mixScratch [numChannels]float64

	inputDiffuser *diffuser.Diffuser

	diffusion float64 // 0..1, the §4.9 step-5 blend amount

	modDepth float64 // 0..1
	modRate  float64 // Hz
	modPhase float64

	toneNorm float64 // satTone normalised to [-1,1]

	bypassAtten, bypassSaturation, bypassTone, bypassModulation bool

	// pre-sized scratch; no allocation inside ProcessSample.
	diffIn, diffOut                     [numChannels]float32
	readDelay, s, a, f, b, y            [numChannels]float64
}

// New builds an FDN at sampleRate (which should already be the
// oversampled rate in effect) with the canonical, unscaled base delays;
// SetRoomSize applies the roomSize * SR/44100 scale (spec §6).
func New(sampleRate float64, matrixKind matrix.Kind) *FDN {
	f := &FDN{
		sampleRate:    sampleRate,
		matrixKind:    matrixKind,
		mat:           matrix.Build(matrixKind, numChannels, 1),
		signIn:        matrix.SignMask(numChannels, matrixSignInSeed),
		signOut:       matrix.SignMask(numChannels, matrixSignOutSeed),
		inputDiffuser: diffuser.New(sampleRate, diffuserSeed),
		diffusion:     0.8,
		modDepth:      0.15,
		modRate:       0.5,
	}
	f.setDelaySmoothingTime(0.005)

	// SetRoomSize scales each base delay by roomSize*sampleRate/44100, and
	// roomSize never exceeds 1.0, so sampleRate/44100 alone bounds the
	// largest length any room-size target can ever request at this rate
	// (sampleRate is already the oversampled rate by the time New is
	// called). Round up and add headroom for modulation and smoothing
	// overshoot.
	rateScale := int(math.Ceil(sampleRate / 44100))
	if rateScale < 1 {
		rateScale = 1
	}

	for i := 0; i < numChannels; i++ {
		f.baseDelay[i] = float64(BaseDelays[i])
		f.smoothDelay[i] = f.baseDelay[i]
		f.lines[i] = delay.New(BaseDelays[i]*rateScale + maxModSamples + 128)
		f.shelves[i] = filter.NewShelf(sampleRate)
		f.saturators[i] = distortion.NewSaturator(sampleRate)
		f.tones[i] = filter.NewTone()
	}
	return f
}

func (f *FDN) setDelaySmoothingTime(seconds float64) {
	f.delayCoeff = 1 - math.Exp(-1/(seconds*f.sampleRate))
}

// Reset zeroes all delay-line and filter state and snaps smoothers to
// their current target.
func (f *FDN) Reset() {
	for i := 0; i < numChannels; i++ {
		f.lines[i].Reset()
		f.shelves[i].Reset()
		f.saturators[i].Reset()
		f.tones[i].Reset()
		f.smoothDelay[i] = f.baseDelay[i]
	}
	f.inputDiffuser.Reset()
	f.modPhase = 0
}

// SetRoomSize scales the base delay lengths by roomSize * SR/44100 per
// spec §6; targets are smoothed in, never applied instantaneously.
func (f *FDN) SetRoomSize(roomSize float64) {
	scale := roomSize * f.sampleRate / 44100
	for i := 0; i < numChannels; i++ {
		f.baseDelay[i] = float64(BaseDelays[i]) * scale
	}
}

// SetRT60 configures every channel's shelf from the given low/high RT60
// targets (seconds) and the hfDamping-derived crossover frequency (Hz),
// per spec §4.4 and §6.
func (f *FDN) SetRT60(lowRT60, highRT60, crossoverHz float64) {
	for i := 0; i < numChannels; i++ {
		l := f.baseDelay[i] // samples; RT60 formula operates on seconds of delay length
		lenSeconds := l / f.sampleRate
		gLow := math.Pow(10, -3*lenSeconds/lowRT60)
		gHigh := math.Pow(10, -3*lenSeconds/highRT60)
		f.shelves[i].SetTargetGains(gLow, gHigh, crossoverHz, f.sampleRate)
	}
}

// SetDiffusion sets the §4.9 step-5 feedback/identity blend, 0..1.
func (f *FDN) SetDiffusion(d float64) { f.diffusion = d }

// SetModulation sets the per-channel delay-modulation depth (0..1) and
// rate in Hz.
func (f *FDN) SetModulation(depth, rateHz float64) {
	f.modDepth = depth
	f.modRate = rateHz
}

// SetSaturation configures every channel's in-loop saturator.
func (f *FDN) SetSaturation(satType distortion.SatType, driveDb, asymmetry, amount float64) {
	for i := 0; i < numChannels; i++ {
		f.saturators[i].Type = satType
		f.saturators[i].SetDriveDb(driveDb)
		f.saturators[i].SetAsymmetry(asymmetry)
		f.saturators[i].SetAmount(amount)
	}
}

// SetTone sets the normalised ([-1,1]) tone control applied after the
// saturator in every channel.
func (f *FDN) SetTone(toneNorm float64) {
	f.toneNorm = toneNorm
	for i := 0; i < numChannels; i++ {
		f.tones[i].SetTone(toneNorm, f.sampleRate)
	}
}

// SetBypass toggles the optional per-sample stages.
func (f *FDN) SetBypass(atten, saturation, tone, modulation bool) {
	f.bypassAtten = atten
	f.bypassSaturation = saturation
	f.bypassTone = tone
	f.bypassModulation = modulation
}

// ProcessSample runs one frame through the network and returns the
// stereo output tap. No allocation occurs in this call.
func (f *FDN) ProcessSample(inL, inR float32) (float32, float32) {
	f.diffIn[0] = inL * 0.5
	f.diffIn[1] = inR * 0.5
	f.diffIn[2] = inL * 0.5
	f.diffIn[3] = inR * 0.5
	f.diffIn[4] = inL * 0.5
	f.diffIn[5] = inR * 0.5
	f.diffIn[6] = inL * 0.5
	f.diffIn[7] = inR * 0.5
	f.inputDiffuser.Process(&f.diffIn, &f.diffOut)

	for i := 0; i < numChannels; i++ {
		f.smoothDelay[i] += (f.baseDelay[i] - f.smoothDelay[i]) * f.delayCoeff
		d := f.smoothDelay[i]
		if !f.bypassModulation {
			d += f.modDepth * maxModSamples * math.Sin(f.modPhase+2*math.Pi*float64(i)/numChannels)
		}
		f.readDelay[i] = d
	}

	var outL, outR float64
	for i := 0; i < numChannels; i++ {
		f.s[i] = float64(f.lines[i].Read(f.readDelay[i]))
		if f.bypassAtten {
			f.a[i] = f.s[i]
		} else {
			f.a[i] = f.shelves[i].Process(f.s[i])
		}
		if i%2 == 0 {
			outL += f.a[i]
		} else {
			outR += f.a[i]
		}
	}
	outL *= 0.5
	outR *= 0.5

	matrix.ApplyWithSigns(f.mat, f.signIn, f.signOut, f.a[:], f.f[:], f.mixScratch[:])

	d := f.diffusion
	switch {
	case d < 0.001:
		f.b = f.a
	case d > 0.999:
		f.b = f.f
	default:
		var normA, normB float64
		for i := 0; i < numChannels; i++ {
			f.b[i] = (1-d)*f.a[i] + d*f.f[i]
			normA += f.a[i] * f.a[i]
			normB += f.b[i] * f.b[i]
		}
		if normB > 0 {
			scale := math.Sqrt(normA / normB)
			for i := 0; i < numChannels; i++ {
				f.b[i] *= scale
			}
		}
	}

	for i := 0; i < numChannels; i++ {
		y := f.b[i]
		if !f.bypassSaturation {
			y = f.saturators[i].Process(y)
		}
		if !f.bypassTone {
			y = f.tones[i].Process(y, f.toneNorm)
		}
		if math.Abs(y) > 2 {
			y = 2 * math.Tanh(y/2)
		}
		f.y[i] = y
	}

	for i := 0; i < numChannels; i++ {
		f.lines[i].Write(float32(f.diffOut[i]) + float32(f.y[i]))
	}

	if f.modRate != 0 {
		f.modPhase += 2 * math.Pi * f.modRate / f.sampleRate
		if f.modPhase > 2*math.Pi {
			f.modPhase -= 2 * math.Pi
		}
	}

	const denormalKill = 1e-18
	outL = (outL + denormalKill) - denormalKill
	outR = (outR + denormalKill) - denormalKill

	return float32(outL), float32(outR)
}
