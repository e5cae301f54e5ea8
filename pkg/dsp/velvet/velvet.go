// Package velvet generates deterministic sparse-FIR velvet-noise impulse
// responses and convolves audio blocks through them. It backs both the
// early-reflection layer (a short, dense, unit-gain pulse train) and the
// dark late tail (a longer, sparser train shaped by a double-exponential
// envelope).
package velvet

import (
	"math"

	"github.com/duskwave/hollowverb/pkg/dsp/delay"
)

// pulse is a single ±1 tap of the sparse impulse response.
type pulse struct {
	pos   int
	width int
	coeff float32
}

// lcg is the 32-bit linear congruential generator fixed by the engine's
// determinism invariant: identical seeds must produce bit-identical
// sequences across runs.
type lcg struct {
	state uint32
}

func newLCG(seed uint32) *lcg {
	return &lcg{state: seed}
}

// next advances the generator and returns the new state.
func (g *lcg) next() uint32 {
	g.state = 1664525*g.state + 1013904223
	return g.state
}

// sign returns ±1 derived from the top bit of x.
func sign(x uint32) float32 {
	if x&0x80000000 != 0 {
		return 1
	}
	return -1
}

// unit returns a uniform value in [0,1) derived from the low 31 bits of x.
func unit(x uint32) float64 {
	return float64(x&0x7fffffff) / float64(1<<31)
}

// Sequence is a ring-buffer convolver driven by a fixed set of pulses. It
// is built once at prepare time (its pulse positions, signs and widths
// never change). A dark-tail sequence from NewDarkTail can have its
// envelope/coefficients refreshed cheaply when decay parameters change;
// an early-reflection sequence has no refresh scratch space.
type Sequence struct {
	pulses     []pulse
	ring       *delay.Line
	sampleRate float64

	// envs/signs are scratch space for refreshEnvelope, preallocated to
	// len(pulses) so RT60/decay-shape automation can refresh envelopes
	// from the per-block path without allocating.
	envs  []float64
	signs []float32
}

// ringMargin is headroom added to the ring buffer so pulses positioned
// near the tail of the sequence still observe correctly delayed input
// across block boundaries.
const ringMargin = 128

// newSequence allocates the ring buffer for a sequence of the given length
// in samples (the longest pulse position plus its width must fit inside
// sequenceLength).
func newSequence(sequenceLength int, sampleRate float64) *Sequence {
	return &Sequence{ring: delay.New(sequenceLength + ringMargin), sampleRate: sampleRate}
}

// Reset clears the ring buffer. Pulse positions and coefficients are left
// untouched since they are deterministic functions of the seed, not of
// signal history.
func (s *Sequence) Reset() {
	s.ring.Reset()
}

// ProcessBlock convolves in through the sequence's sparse impulse
// response and writes the result to out. in and out may alias.
func (s *Sequence) ProcessBlock(in, out []float32) {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		s.ring.Write(in[i])
		var acc float32
		for _, p := range s.pulses {
			if p.width <= 1 {
				acc += p.coeff * s.ring.ReadInt(p.pos)
				continue
			}
			var sum float32
			for k := 0; k < p.width; k++ {
				sum += s.ring.ReadInt(p.pos + k)
			}
			acc += p.coeff * sum
		}
		out[i] = acc
	}
}

// EarlyReflectionsParams configures the L1 sparse-FIR early-reflection
// generator (spec §4.2).
type EarlyReflectionsParams struct {
	SampleRate float64
	Seed       uint32
	DensityHz  float64 // pulses per second
	DurationMs float64 // sequence length in milliseconds
}

// DefaultEarlyReflections returns the canonical L1 density/duration.
func DefaultEarlyReflections(sampleRate float64, seed uint32) EarlyReflectionsParams {
	return EarlyReflectionsParams{
		SampleRate: sampleRate,
		Seed:       seed,
		DensityHz:  2000,
		DurationMs: 30,
	}
}

// NewEarlyReflections builds the L1 pulse train: unit-width pulses on a
// jittered grid, each carrying a single exponential envelope that decays
// roughly 60 dB across the sequence, RMS-normalised to unit gain.
func NewEarlyReflections(p EarlyReflectionsParams) *Sequence {
	sequenceLength := int(p.DurationMs * 0.001 * p.SampleRate)
	if sequenceLength < 1 {
		sequenceLength = 1
	}
	cellSize := int(p.SampleRate / p.DensityHz)
	if cellSize < 1 {
		cellSize = 1
	}
	numPulses := sequenceLength / cellSize
	if numPulses < 1 {
		numPulses = 1
	}

	decayRate := 3.0 * math.Log(10) / float64(sequenceLength)

	s := newSequence(sequenceLength, p.SampleRate)
	s.pulses = make([]pulse, numPulses)

	rng := newLCG(p.Seed)
	sumSq := 0.0
	envs := make([]float64, numPulses)

	for i := 0; i < numPulses; i++ {
		draw := rng.next()
		jitter := unit(draw) * float64(cellSize)
		pos := i*cellSize + int(jitter)
		if pos >= sequenceLength {
			pos = sequenceLength - 1
		}
		env := math.Exp(-decayRate * float64(pos))
		envs[i] = env
		sumSq += env * env
		s.pulses[i].pos = pos
		s.pulses[i].width = 1
		s.pulses[i].coeff = sign(draw)
	}

	norm := 1.0
	if sumSq > 0 {
		norm = 1.0 / math.Sqrt(sumSq)
	}
	for i := range s.pulses {
		s.pulses[i].coeff *= float32(envs[i] * norm)
	}
	return s
}

// DarkTailParams configures the L3 dark velvet-noise tail (spec §4.3).
type DarkTailParams struct {
	SampleRate    float64
	Seed          uint32
	DensityHz     float64 // pulses per second
	RT60          float64 // seconds
	DecayShape    float64 // 0..1, blends the two exponentials
	MaxDurationS  float64 // hard ceiling on sequence length, e.g. 3s
	MaxPulseCount int     // worst-case CPU ceiling, e.g. 500
}

// DefaultDarkTail returns the canonical L3 density and bounds.
func DefaultDarkTail(sampleRate float64, seed uint32) DarkTailParams {
	return DarkTailParams{
		SampleRate:    sampleRate,
		Seed:          seed,
		DensityHz:     1800,
		RT60:          2.5,
		DecayShape:    0.4,
		MaxDurationS:  3,
		MaxPulseCount: 500,
	}
}

// NewDarkTail builds the L3 pulse train: pulses of width 1..4 samples on a
// jittered grid whose span covers min(3s, 2*RT60), shaped by a
// double-exponential envelope and RMS-normalised to unit gain.
func NewDarkTail(p DarkTailParams) *Sequence {
	if p.MaxPulseCount <= 0 {
		p.MaxPulseCount = 500
	}
	durationS := math.Min(p.MaxDurationS, 2*p.RT60)
	sequenceLength := int(durationS * p.SampleRate)
	if sequenceLength < 1 {
		sequenceLength = 1
	}

	desired := int(p.DensityHz * durationS)
	numPulses := desired
	if numPulses > p.MaxPulseCount {
		numPulses = p.MaxPulseCount
	}
	if numPulses < 1 {
		numPulses = 1
	}
	cellSize := sequenceLength / numPulses
	if cellSize < 1 {
		cellSize = 1
	}

	s := newSequence(sequenceLength+4, p.SampleRate)
	s.pulses = make([]pulse, numPulses)
	s.envs = make([]float64, numPulses)
	s.signs = make([]float32, numPulses)

	rng := newLCG(p.Seed)
	for i := 0; i < numPulses; i++ {
		draw := rng.next()
		jitter := unit(draw) * float64(cellSize)
		pos := i*cellSize + int(jitter)
		if pos >= sequenceLength {
			pos = sequenceLength - 1
		}
		widthDraw := rng.next()
		width := 1 + int(widthDraw%4)

		s.pulses[i].pos = pos
		s.pulses[i].width = width
		s.pulses[i].coeff = sign(draw)
	}

	s.refreshEnvelope(p.RT60, p.DecayShape)
	return s
}

// RefreshEnvelope recomputes per-pulse envelope coefficients in place when
// RT60 or decay shape changes. Safe to call from the audio thread: its
// scratch slices are preallocated by NewDarkTail, sized to len(pulses), so
// this never allocates. Leaves pulse positions, signs and widths
// untouched.
func (s *Sequence) RefreshEnvelope(rt60, decayShape float64) {
	s.refreshEnvelope(rt60, decayShape)
}

func (s *Sequence) refreshEnvelope(rt60, decayShape float64) {
	if rt60 <= 0 {
		rt60 = 0.001
	}
	if decayShape < 0 {
		decayShape = 0
	}
	if decayShape > 1 {
		decayShape = 1
	}
	tau1 := rt60 / 6.9078
	tau2 := 1.5 * rt60 / 6.9078

	sr := s.sampleRateHint()
	tau1Samples := tau1 * sr
	tau2Samples := tau2 * sr

	envs := s.envs
	signs := s.signs

	sumSq := 0.0
	for i, p := range s.pulses {
		signs[i] = signOf(p.coeff)
		env := (1-decayShape)*math.Exp(-float64(p.pos)/tau1Samples) + decayShape*math.Exp(-float64(p.pos)/tau2Samples)
		envs[i] = env
		w := float64(p.width)
		if w < 1 {
			w = 1
		}
		sumSq += env * env / w
	}
	norm := 1.0
	if sumSq > 0 {
		norm = 1.0 / math.Sqrt(sumSq)
	}
	for i := range s.pulses {
		w := float32(s.pulses[i].width)
		if w < 1 {
			w = 1
		}
		s.pulses[i].coeff = signs[i] * float32(envs[i]*norm) / w
	}
}

// sampleRateHint recovers an effective sample rate for envelope shaping.
// The sequence itself only stores positions in samples; NewDarkTail stores
// the sample rate on construction via this field.
func (s *Sequence) sampleRateHint() float64 {
	if s.sampleRate > 0 {
		return s.sampleRate
	}
	return 44100
}

func signOf(c float32) float32 {
	if c < 0 {
		return -1
	}
	return 1
}
