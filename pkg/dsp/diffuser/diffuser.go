// Package diffuser implements the cascaded multichannel diffuser used to
// spread a stereo pair into eight densely-echoing channels before they
// enter the feedback delay network (spec §4.8).
package diffuser

import (
	"github.com/duskwave/hollowverb/pkg/dsp/delay"
	"github.com/duskwave/hollowverb/pkg/dsp/matrix"
)

const numChannels = 8

// stepMaxMs are the per-stage maximum delays in milliseconds; cascading
// four stages of 8-way shuffles yields 8^4 = 4096 distinct echo paths
// from a single impulse.
var stepMaxMs = [4]float64{5, 10, 20, 40}

type stage struct {
	lines  [numChannels]*delay.Line
	delays [numChannels]int
	shuffle [numChannels]int
	signs  [numChannels]float32
}

// Diffuser is the four-stage cascade described in spec §4.8.
type Diffuser struct {
	stages [4]stage
	had    []float64 // flattened 8x8 normalised Hadamard matrix

	scratchA [numChannels]float32
	scratchB [numChannels]float32
	mixIn    [numChannels]float64
	mixOut   [numChannels]float64
}

// New builds a diffuser sized for sampleRate. seed drives the per-stage
// LCG sign vectors; the spec fixes this to 0xBAADF00D.
func New(sampleRate float64, seed uint32) *Diffuser {
	d := &Diffuser{had: matrix.Build(matrix.Hadamard, numChannels, 0)}

	rng := seed
	for step := 0; step < 4; step++ {
		st := &d.stages[step]
		stepMaxSamples := stepMaxMs[step] * 0.001 * sampleRate
		for ch := 0; ch < numChannels; ch++ {
			lo := stepMaxSamples * float64(ch) / numChannels
			hi := stepMaxSamples * float64(ch+1) / numChannels

			rng = 1664525*rng + 1013904223
			frac := float64(rng&0x7fffffff) / float64(1<<31)
			delaySamples := lo + frac*(hi-lo)

			size := int(delaySamples) + 4
			if size < 4 {
				size = 4
			}
			st.lines[ch] = delay.New(size)
			st.delays[ch] = int(delaySamples)
			st.shuffle[ch] = (ch + step + 1) % numChannels

			rng = 1664525*rng + 1013904223
			if rng&0x80000000 != 0 {
				st.signs[ch] = 1
			} else {
				st.signs[ch] = -1
			}
		}
	}
	return d
}

// Reset clears all internal delay-line state.
func (d *Diffuser) Reset() {
	for i := range d.stages {
		for _, l := range d.stages[i].lines {
			l.Reset()
		}
	}
}

// Process diffuses one frame of 8 input channels into out in place
// (in and out may be the same backing array).
func (d *Diffuser) Process(in *[numChannels]float32, out *[numChannels]float32) {
	cur := &d.scratchA
	nxt := &d.scratchB
	*cur = *in

	for step := 0; step < 4; step++ {
		st := &d.stages[step]
		var delayed [numChannels]float32
		for ch := 0; ch < numChannels; ch++ {
			delayed[ch] = st.lines[ch].ProcessInt(cur[ch], st.delays[ch])
		}

		var shuffled [numChannels]float32
		for ch := 0; ch < numChannels; ch++ {
			shuffled[st.shuffle[ch]] = delayed[ch] * st.signs[ch]
		}

		for ch := 0; ch < numChannels; ch++ {
			d.mixIn[ch] = float64(shuffled[ch])
		}
		matrix.Apply(d.had, d.mixIn[:], d.mixOut[:])
		for ch := 0; ch < numChannels; ch++ {
			nxt[ch] = float32(d.mixOut[ch])
		}

		cur, nxt = nxt, cur
	}
	*out = *cur
}
