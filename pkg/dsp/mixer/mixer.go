// Package mixer implements the final wet/dry, width and soft-clip stage
// that combines the early-reflection, FDN and dark-tail buses into the
// engine's stereo output (spec §4.11).
package mixer

import (
	"math"

	"github.com/duskwave/hollowverb/pkg/dsp/mix"
)

// Mix combines dry input with the early/late wet buses, applies
// mid/side width and a soft-clip safety limiter. The width step mirrors
// pan.Width's mid/side formula, generalised here to a per-sample width
// coefficient rather than a single buffer-wide one; the dry/wet blend
// is mix.DryWet applied per sample against the summed wet bus.
func Mix(dryL, dryR, earlyL, earlyR, lateL, lateR, dvnL, dvnR float32, earlyGain, lateGain, wetIn, width float32) (outL, outR float32) {
	wetL := earlyGain*earlyL + lateGain*(lateL+dvnL)
	wetR := earlyGain*earlyR + lateGain*(lateR+dvnR)

	mid := (wetL + wetR) * 0.5
	side := (wetL - wetR) * 0.5
	wetL = mid + side*width
	wetR = mid - side*width

	outL = softClip(mix.DryWet(dryL, wetL, wetIn))
	outR = softClip(mix.DryWet(dryR, wetR, wetIn))

	outL = killDenormal(outL)
	outR = killDenormal(outR)
	return outL, outR
}

// softClip implements y = x - x^3/6.75 for |x| <= 1.5, saturating to ±1
// beyond that range.
func softClip(x float32) float32 {
	if x > 1.5 {
		return 1
	}
	if x < -1.5 {
		return -1
	}
	return x - x*x*x/6.75
}

// killDenormal zeroes x if its IEEE-754 exponent field is all zeros
// (i.e. x is zero or subnormal), per the spec's bit-pattern denormal
// kill at the final mix stage.
func killDenormal(x float32) float32 {
	bits := math.Float32bits(x)
	exponent := (bits >> 23) & 0xff
	if exponent == 0 {
		return 0
	}
	return x
}
