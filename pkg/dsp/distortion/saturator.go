// Package distortion implements the reverb's in-loop saturator: a
// tagged-variant nonlinearity (no virtual dispatch on the hot path),
// an asymmetry-triggered DC blocker, and a wet/dry blend.
package distortion

import (
	"math"

	"github.com/duskwave/hollowverb/pkg/dsp/utility"
)

// SatType selects the saturator's transfer curve.
type SatType int

const (
	SatSoft SatType = iota
	SatWarm
	SatTape
	SatTube
)

// dcBlockerCutoffHz is the corner frequency of the saturator's in-loop DC
// blocker (spec §4.6).
const dcBlockerCutoffHz = 10.0

// Saturator is the FDN in-loop nonlinearity (spec §4.6). Curve dispatch
// is a switch on Type rather than an interface, so the hot path never
// pays for a virtual call.
type Saturator struct {
	Type SatType

	drive      float64 // linear gain applied before the curve
	asymOffset float64
	amount     float64 // wet/dry blend, 0..1

	dcBlocker *utility.SimpleDCBlocker
}

// NewSaturator creates a saturator with unity drive, no asymmetry and no
// wet signal (fully transparent), matching satAmount = 0 by default.
func NewSaturator(sampleRate float64) *Saturator {
	return &Saturator{
		Type:      SatWarm,
		drive:     1,
		dcBlocker: utility.NewSimpleDCBlocker(dcBlockerCutoffHz, sampleRate),
	}
}

// SetDriveDb sets the pre-curve drive in decibels.
func (s *Saturator) SetDriveDb(db float64) {
	s.drive = math.Pow(10, db/20)
}

// SetAsymmetry sets the DC offset injected before the curve, 0..1.
// Asymmetry above 1e-6 in magnitude activates the DC blocker.
func (s *Saturator) SetAsymmetry(asym float64) {
	s.asymOffset = asym
}

// SetAmount sets the wet/dry blend, 0..1.
func (s *Saturator) SetAmount(amount float64) {
	s.amount = amount
}

// Reset zeroes the saturator's DC-blocker state, pre-seeding it to the
// steady-state response to asymOffset alone so that zero input yields
// zero output immediately rather than ramping in.
func (s *Saturator) Reset() {
	if math.Abs(s.asymOffset) <= 1e-6 {
		s.dcBlocker.Reset()
		return
	}
	driven := s.asymOffset
	curved := s.curve(driven)
	// Steady state of y[n] = x[n] - x[n-1] + a*y[n-1] for constant x is
	// y = x*(1-1)/(1-a) + ... ; with x[n]==x[n-1]==curved, y settles at
	// curved*(1-1)/(1-a) == 0 only if curved==x1; solve for the fixed
	// point directly: y = curved - curved + a*y => y*(1-a) = 0, so the
	// true fixed point is 0. Seed x1 to curved so the first real sample
	// (which differs from curved) doesn't see a spurious transient.
	s.dcBlocker.Seed(float32(curved), 0)
}

func (s *Saturator) curve(x float64) float64 {
	switch s.Type {
	case SatSoft:
		c := x
		if c > 1 {
			c = 1
		}
		if c < -1 {
			c = -1
		}
		return 1.5*c - 0.5*c*c*c
	case SatTape:
		if x >= 0 {
			return math.Tanh(x)
		}
		return 1.25 * math.Tanh(0.8*x)
	case SatTube:
		if x >= 0 {
			return math.Tanh(1.2 * x)
		}
		return math.Tanh(0.8 * x)
	default: // SatWarm
		return math.Tanh(x)
	}
}

// Process runs one sample through the saturator.
func (s *Saturator) Process(x float64) float64 {
	driven := s.drive*x + s.asymOffset
	curved := s.curve(driven)

	y := curved
	if math.Abs(s.asymOffset) > 1e-6 {
		y = float64(s.dcBlocker.Process(float32(curved)))
	}

	return x*(1-s.amount) + y*s.amount
}
