package oversample

import "github.com/duskwave/hollowverb/pkg/dsp/filter"

// stageCutoffRatio is the lowpass corner as a fraction of the
// pre-upsampling Nyquist frequency, used both to reject images on the way
// up and alias on the way down.
const stageCutoffRatio = 0.45

// cascadeDepth is how many biquads are cascaded per 2x stage to
// approximate a steep half-band response from a single-pole-pair
// building block.
const cascadeDepth = 4

// stageLatency is the fixed per-2x-stage group delay budget attributed to
// each cascade, used only to report a constant per-block latency figure
// to the caller; the IIR biquads themselves are not delay-compensated.
const stageLatency = 1

// Halfband is a reference Oversampler built from cascades of Biquad
// lowpass filters: one cascade per channel and direction, whatever the
// factor, run at the oversampled rate once going up (to reject spectral
// images introduced by zero-stuffing) and once going down (to reject
// aliasing before decimation). It satisfies the engine's
// Oversampler contract with a constant per-block latency and without
// allocating inside Up/Down.
type Halfband struct {
	channels int
	factor   Factor
	ratio    int
	sampleRate float64
	maxBlock int

	upStages   [][cascadeDepth]*filter.Biquad // one set of stages per channel, applied after each zero-stuffing step
	downStages [][cascadeDepth]*filter.Biquad

	scratch [][]float32 // per-channel oversampled scratch, length maxBlock*ratio
}

// NewHalfband constructs an uninitialized reference oversampler; call
// Initialize before use.
func NewHalfband() *Halfband {
	return &Halfband{}
}

// Initialize allocates per-channel filter cascades and scratch buffers
// sized for the given channel count, oversampling factor, sample rate and
// maximum block size. Safe to call again to re-prepare.
func (h *Halfband) Initialize(channels, factor int, sampleRate float64, maxBlock int) {
	h.channels = channels
	h.factor = Factor(factor)
	h.ratio = h.factor.Ratio()
	h.sampleRate = sampleRate
	h.maxBlock = maxBlock

	h.upStages = make([][cascadeDepth]*filter.Biquad, channels)
	h.downStages = make([][cascadeDepth]*filter.Biquad, channels)
	h.scratch = make([][]float32, channels)

	cutoff := sampleRate * stageCutoffRatio / 2
	for ch := 0; ch < channels; ch++ {
		for s := 0; s < cascadeDepth; s++ {
			up := filter.NewBiquad(1)
			up.SetLowpass(sampleRate*float64(h.ratio), cutoff, 0.707)
			h.upStages[ch][s] = up

			down := filter.NewBiquad(1)
			down.SetLowpass(sampleRate*float64(h.ratio), cutoff, 0.707)
			h.downStages[ch][s] = down
		}
		h.scratch[ch] = make([]float32, maxBlock*h.ratio)
	}
}

// Reset clears all filter state in every channel's cascades.
func (h *Halfband) Reset() {
	for ch := range h.upStages {
		for s := 0; s < cascadeDepth; s++ {
			h.upStages[ch][s].Reset()
			h.downStages[ch][s].Reset()
		}
	}
}

// Up zero-stuffs block to the oversampled rate and runs it through the
// anti-imaging cascade for channel, returning a slice of the internal
// scratch buffer (valid until the next Up/Down call on the same channel).
func (h *Halfband) Up(channel int, block []float32) []float32 {
	if h.ratio == 1 {
		n := len(block)
		out := h.scratch[channel][:n]
		copy(out, block)
		return out
	}

	n := len(block) * h.ratio
	out := h.scratch[channel][:n]
	for i := range out {
		out[i] = 0
	}
	for i, x := range block {
		out[i*h.ratio] = x * float32(h.ratio)
	}
	for s := 0; s < cascadeDepth; s++ {
		h.upStages[channel][s].Process(out, 0)
	}
	return out
}

// Down runs oversampled through the anti-aliasing cascade for channel and
// decimates the result into out.
func (h *Halfband) Down(channel int, oversampled []float32, out []float32) {
	if h.ratio == 1 {
		copy(out, oversampled)
		return
	}
	for s := 0; s < cascadeDepth; s++ {
		h.downStages[channel][s].Process(oversampled, 0)
	}
	n := len(out)
	if len(oversampled)/h.ratio < n {
		n = len(oversampled) / h.ratio
	}
	for i := 0; i < n; i++ {
		out[i] = oversampled[i*h.ratio]
	}
}

// LatencySamples returns the fixed per-block latency contributed by the
// up/down cascades; zero only when the factor is Off.
func (h *Halfband) LatencySamples() int {
	if h.ratio == 1 {
		return 0
	}
	return stageLatency * 2 // one budget for Up, one for Down
}

// OversampledRate returns base scaled by the active ratio.
func (h *Halfband) OversampledRate(base float64) float64 {
	return base * float64(h.ratio)
}
