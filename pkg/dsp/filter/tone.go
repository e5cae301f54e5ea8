package filter

import "math"

// Tone is the one-pole tilt filter placed after the saturator in each FDN
// feedback loop (spec §4.7). A single control darkens or brightens the
// signal; both branches are bounded by 1 in magnitude on the unit circle,
// which is why it can sit safely inside a feedback loop.
type Tone struct {
	lp float64

	coeff float64 // 2*pi*fc/SR mapped through w/(1+w)
}

// NewTone creates a tone filter with no tilt applied.
func NewTone() *Tone {
	return &Tone{}
}

// Reset zeroes the lowpass state.
func (t *Tone) Reset() {
	t.lp = 0
}

// SetTone configures the filter from a tone control normalised to
// [-1,+1] and the sample rate. Negative values sweep a dark lowpass
// corner from 1kHz to 8kHz as the magnitude increases; positive values
// sweep a bright lowpass corner from 4kHz to 8kHz used as a treble-cut
// reference.
func (t *Tone) SetTone(tone, sampleRate float64) {
	mag := math.Abs(tone)
	if mag > 1 {
		mag = 1
	}
	var fc float64
	if tone < 0 {
		fc = 1000 + mag*(8000-1000)
	} else {
		fc = 4000 + mag*(8000-4000)
	}
	w := 2 * math.Pi * fc / sampleRate
	t.coeff = w / (1 + w)
}

// Process runs one sample through the tilt filter. tone, normalised to
// [-1,+1], is re-supplied each call purely to decide which branch to
// take and how strongly to blend; coefficients are set separately via
// SetTone so they can be smoothed independently.
func (t *Tone) Process(x, tone float64) float64 {
	if math.Abs(tone) <= 0.01 {
		return x
	}
	t.lp += t.coeff * (x - t.lp)
	mag := math.Abs(tone)
	if mag > 1 {
		mag = 1
	}
	if tone < 0 {
		return (1-mag)*x + mag*t.lp
	}
	return x - mag*t.lp
}
