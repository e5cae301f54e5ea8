// Package oversample defines the interface the engine uses to run its
// nonlinear feedback path at a multiple of the host sample rate, plus a
// reference IIR implementation that zero-stuffs and filters at the
// oversampled rate (not a polyphase structure) (spec §9, "Interface
// abstraction for oversampling"). The engine itself never depends on the
// implementation, only on the Oversampler interface, so this package's
// internals are explicitly out of scope for the surrounding spec.
package oversample

// Factor selects the oversampling ratio.
type Factor int

const (
	Off Factor = iota // 1x
	X2                // 2x
	X4                // 4x
)

// Ratio returns 2^factor.
func (f Factor) Ratio() int {
	switch f {
	case X2:
		return 2
	case X4:
		return 4
	default:
		return 1
	}
}

// Oversampler upsamples a block before the nonlinear feedback path runs
// and downsamples the result afterward. Implementations must use a
// constant, block-size-independent per-block latency and must not
// allocate inside Up/Down.
type Oversampler interface {
	Initialize(channels, factor int, sampleRate float64, maxBlock int)
	Up(channel int, block []float32) []float32
	Down(channel int, oversampled []float32, out []float32)
	LatencySamples() int
	OversampledRate(base float64) float64
	Reset()
}
