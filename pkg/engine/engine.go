// Package engine implements the reverb's per-block driver (spec §4.10):
// pre-delay, the early-reflection convolver, the oversampled FDN, the
// dark tail, and the final mix, wired together behind the four-call
// lifecycle (Prepare/Reset/SetParameterSnapshot/ProcessBlock) the rest of
// the system depends on.
package engine

import (
	"math"
	"os"

	"github.com/duskwave/hollowverb/pkg/dsp/delay"
	"github.com/duskwave/hollowverb/pkg/dsp/distortion"
	"github.com/duskwave/hollowverb/pkg/dsp/gain"
	"github.com/duskwave/hollowverb/pkg/dsp/matrix"
	"github.com/duskwave/hollowverb/pkg/dsp/mixer"
	"github.com/duskwave/hollowverb/pkg/dsp/oversample"
	"github.com/duskwave/hollowverb/pkg/dsp/reverb"
	"github.com/duskwave/hollowverb/pkg/dsp/utility"
	"github.com/duskwave/hollowverb/pkg/dsp/velvet"
	"github.com/duskwave/hollowverb/pkg/framework/debug"
	"github.com/duskwave/hollowverb/pkg/framework/param"
	"github.com/duskwave/hollowverb/pkg/framework/process"
)

// log carries only prepare-time and reconfiguration diagnostics; it is
// never touched from the per-sample path in ProcessBlock.
var log = debug.New(os.Stderr, "engine", debug.FlagLevel|debug.FlagPrefix)

const preDelaySmoothingSeconds = 0.005
const paramSmoothingSeconds = 0.010

// Engine is the top-level per-block driver described in spec §4.10.
type Engine struct {
	sampleRate   float64
	maxBlockSize int

	snapshot param.ReverbSnapshot

	oversampler   oversample.Oversampler
	activeFactor  oversample.Factor

	preDelayL, preDelayR *delay.Line
	preDelaySmoother     *utility.SmoothParameter

	earlyL, earlyR *velvet.Sequence
	dvnL, dvnR     *velvet.Sequence

	fdn *reverb.FDN

	block *process.Block

	// per-sample mix smoothers: one-pole, ~10ms time constant (an
	// exponential approach to the target, not a linear ramp)
	dryWetSmoother     *utility.SmoothParameter
	earlyLevelSmoother *utility.SmoothParameter
	lateLevelSmoother  *utility.SmoothParameter
	widthSmoother      *utility.SmoothParameter

	fdnOutOversampledL, fdnOutOversampledR []float32

	// last RT60/decay-shape the DVN envelopes were refreshed for, so
	// ProcessBlock only recomputes them when those params actually move.
	lastDVNLowRT60    float64
	lastDVNDecayShape float64
}

// New constructs an unprepared Engine. Call Prepare before processing.
func New() *Engine {
	e := &Engine{
		oversampler:        oversample.NewHalfband(),
		preDelayL:          delay.New(4),
		preDelayR:          delay.New(4),
		preDelaySmoother:   utility.NewSmoothParameter(preDelaySmoothingSeconds, 44100),
		dryWetSmoother:     utility.NewSmoothParameter(paramSmoothingSeconds, 44100),
		earlyLevelSmoother: utility.NewSmoothParameter(paramSmoothingSeconds, 44100),
		lateLevelSmoother:  utility.NewSmoothParameter(paramSmoothingSeconds, 44100),
		widthSmoother:      utility.NewSmoothParameter(paramSmoothingSeconds, 44100),
		earlyL:             velvet.NewEarlyReflections(velvet.DefaultEarlyReflections(44100, 0xE6E6E6E1)),
		earlyR:             velvet.NewEarlyReflections(velvet.DefaultEarlyReflections(44100, 0xE6E6E6E2)),
		dvnL:               velvet.NewDarkTail(velvet.DefaultDarkTail(44100, 0xDA6E7A11)),
		dvnR:               velvet.NewDarkTail(velvet.DefaultDarkTail(44100, 0xDA6E7A12)),
		fdn:                reverb.New(44100, matrix.Hadamard),
		block:              process.NewBlock(512),
	}
	snap := param.NewReverbParams().Snapshot()
	e.snapshot = snap
	e.applySnapshotTargets()
	return e
}

// Prepare (re)allocates every scratch buffer and velvet sequence for the
// given sample rate and maximum block size, and snaps smoothers to their
// current targets. Idempotent.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) {
	log.Info("prepare: sampleRate=%.0f maxBlockSize=%d", sampleRate, maxBlockSize)
	e.sampleRate = sampleRate
	e.maxBlockSize = maxBlockSize

	maxPreDelaySamples := int(0.1*sampleRate) + 8 // 100ms max pre-delay headroom
	e.preDelayL = delay.New(maxPreDelaySamples)
	e.preDelayR = delay.New(maxPreDelaySamples)
	e.preDelaySmoother = utility.NewSmoothParameter(preDelaySmoothingSeconds, sampleRate)
	e.dryWetSmoother = utility.NewSmoothParameter(paramSmoothingSeconds, sampleRate)
	e.earlyLevelSmoother = utility.NewSmoothParameter(paramSmoothingSeconds, sampleRate)
	e.lateLevelSmoother = utility.NewSmoothParameter(paramSmoothingSeconds, sampleRate)
	e.widthSmoother = utility.NewSmoothParameter(paramSmoothingSeconds, sampleRate)

	e.earlyL = velvet.NewEarlyReflections(velvet.DefaultEarlyReflections(sampleRate, 0xE6E6E6E1))
	e.earlyR = velvet.NewEarlyReflections(velvet.DefaultEarlyReflections(sampleRate, 0xE6E6E6E2))

	e.block.Prepare(maxBlockSize)

	factor := factorForOversampling(e.snapshot.Oversampling)
	e.prepareOversampling(factor, maxBlockSize)
	e.rebuildDVN()

	e.snapToTargets()
}

func (e *Engine) prepareOversampling(factor oversample.Factor, maxBlockSize int) {
	e.activeFactor = factor
	e.oversampler.Initialize(2, int(factor), e.sampleRate, maxBlockSize)
	ratio := factor.Ratio()
	e.fdnOutOversampledL = make([]float32, maxBlockSize*ratio)
	e.fdnOutOversampledR = make([]float32, maxBlockSize*ratio)
	e.fdn = reverb.New(e.oversampler.OversampledRate(e.sampleRate), matrix.Hadamard)
	e.applyFDNParams()
}

func (e *Engine) rebuildDVN() {
	e.dvnL = velvet.NewDarkTail(dvnParams(e.sampleRate, e.snapshot, 0xDA6E7A11))
	e.dvnR = velvet.NewDarkTail(dvnParams(e.sampleRate, e.snapshot, 0xDA6E7A12))
	e.lastDVNLowRT60 = e.snapshot.LowRT60
	e.lastDVNDecayShape = e.snapshot.DecayShape
}

// maybeRefreshDVNEnvelope re-shapes the dark-tail envelope in place when
// lowRT60 or decayShape has moved since the last block, so automating
// either tracks the late tail the way the FDN's own RT60 already does via
// applyFDNParams. Pulse positions, signs and widths are untouched.
func (e *Engine) maybeRefreshDVNEnvelope() {
	if e.snapshot.LowRT60 == e.lastDVNLowRT60 && e.snapshot.DecayShape == e.lastDVNDecayShape {
		return
	}
	e.lastDVNLowRT60 = e.snapshot.LowRT60
	e.lastDVNDecayShape = e.snapshot.DecayShape
	decayShape := e.lastDVNDecayShape / 100
	e.dvnL.RefreshEnvelope(e.lastDVNLowRT60, decayShape)
	e.dvnR.RefreshEnvelope(e.lastDVNLowRT60, decayShape)
}

func dvnParams(sampleRate float64, s param.ReverbSnapshot, seed uint32) velvet.DarkTailParams {
	p := velvet.DefaultDarkTail(sampleRate, seed)
	p.RT60 = s.LowRT60
	p.DecayShape = s.DecayShape / 100
	return p
}

func factorForOversampling(o param.Oversampling) oversample.Factor {
	switch o {
	case param.OversamplingX2:
		return oversample.X2
	case param.OversamplingX4:
		return oversample.X4
	default:
		return oversample.Off
	}
}

// Reset zeroes all state and snaps every smoother to its current target.
func (e *Engine) Reset() {
	e.preDelayL.Reset()
	e.preDelayR.Reset()
	e.earlyL.Reset()
	e.earlyR.Reset()
	e.dvnL.Reset()
	e.dvnR.Reset()
	e.fdn.Reset()
	e.oversampler.Reset()
	e.snapToTargets()
}

func (e *Engine) snapToTargets() {
	e.preDelaySmoother.SetImmediate(e.preDelayTargetSamples())
	e.dryWetSmoother.SetImmediate(e.snapshot.DryWet / 100)
	e.earlyLevelSmoother.SetImmediate(gain.DbToLinear(e.snapshot.EarlyLevel))
	e.lateLevelSmoother.SetImmediate(gain.DbToLinear(e.snapshot.LateLevel))
	e.widthSmoother.SetImmediate(e.snapshot.StereoWidth / 100)
}

func (e *Engine) preDelayTargetSamples() float64 {
	samples := e.snapshot.PreDelay * 0.001 * e.sampleRate
	return utility.ClampParameter(samples, 0, 0.1*e.sampleRate)
}

// SetParameterSnapshot installs an atomically-captured parameter vector
// (spec §6 set_parameter_snapshot).
func (e *Engine) SetParameterSnapshot(s param.ReverbSnapshot) {
	e.snapshot = s
}

func (e *Engine) applyFDNParams() {
	e.fdn.SetRoomSize(e.snapshot.RoomSize)
	crossoverHz := 20000 * math.Pow(500.0/20000.0, e.snapshot.HfDamping/100)
	e.fdn.SetRT60(e.snapshot.LowRT60, e.snapshot.HighRT60, crossoverHz)
	e.fdn.SetDiffusion(e.snapshot.Diffusion / 100)
	e.fdn.SetModulation(e.snapshot.ModDepth/100, e.snapshot.ModRate)
	e.fdn.SetSaturation(mapSatType(e.snapshot.SatType), e.snapshot.SatDrive, e.snapshot.SatAsymmetry/100, e.snapshot.SatAmount/100)
	e.fdn.SetTone(e.snapshot.SatTone / 100)
	e.fdn.SetBypass(e.snapshot.BypassAttenFilter, e.snapshot.BypassSaturation, e.snapshot.BypassToneFilter, e.snapshot.BypassModulation)
}

func (e *Engine) applySnapshotTargets() {
	if e.fdn != nil {
		e.applyFDNParams()
	}
}

func mapSatType(t param.SatType) distortion.SatType {
	switch t {
	case param.SatSoft:
		return distortion.SatSoft
	case param.SatTape:
		return distortion.SatTape
	case param.SatTube:
		return distortion.SatTube
	default:
		return distortion.SatWarm
	}
}

// ProcessBlock runs one block of io in place, per spec §4.10. io may have
// 1 or 2 channels (additional channels are zeroed); fewer than
// maxBlockSize samples per channel is fine.
func (e *Engine) ProcessBlock(io [][]float32) {
	n := process.NumSamples(io)
	if n == 0 {
		return
	}
	process.ZeroUnusedOutputs(io, n)

	mono := len(io) == 1
	var l, r []float32
	if mono {
		l = io[0]
		r = io[0]
	} else {
		l, r = io[0], io[1]
	}

	e.maybeReprepareOversampling()
	e.applyFDNParams()
	e.maybeRefreshDVNEnvelope()

	b := e.block
	e.preDelaySmoother.SetTarget(e.preDelayTargetSamples())
	for i := 0; i < n; i++ {
		dryL, dryR := l[i], r[i]
		b.DryL[i] = dryL
		b.DryR[i] = dryR

		smoothPD := e.preDelaySmoother.Process()
		pdL := e.preDelayL.Process(dryL, smoothPD)
		pdR := e.preDelayR.Process(dryR, smoothPD)

		b.FDNInL[i] = pdL
		b.FDNInR[i] = pdR
	}

	if e.snapshot.BypassEarly {
		for i := 0; i < n; i++ {
			b.EarlyL[i] = 0
			b.EarlyR[i] = 0
		}
	} else {
		e.earlyL.ProcessBlock(b.FDNInL[:n], b.EarlyL[:n])
		e.earlyR.ProcessBlock(b.FDNInR[:n], b.EarlyR[:n])
	}

	if e.snapshot.BypassFDN {
		for i := 0; i < n; i++ {
			b.FDNOutL[i] = 0
			b.FDNOutR[i] = 0
		}
	} else {
		e.processFDNOversampled(b.FDNInL[:n], b.FDNInR[:n], b.FDNOutL[:n], b.FDNOutR[:n])
	}

	if e.snapshot.BypassDVN {
		for i := 0; i < n; i++ {
			b.DVNL[i] = 0
			b.DVNR[i] = 0
		}
	} else {
		// L3 extends the FDN's own tail, so it reads the post-FDN signal
		// (already zeroed above when BypassFDN is set), not the dry
		// pre-delayed input.
		e.dvnL.ProcessBlock(b.FDNOutL[:n], b.DVNL[:n])
		e.dvnR.ProcessBlock(b.FDNOutR[:n], b.DVNR[:n])
	}

	e.dryWetSmoother.SetTarget(e.snapshot.DryWet / 100)
	e.earlyLevelSmoother.SetTarget(gain.DbToLinear(e.snapshot.EarlyLevel))
	e.lateLevelSmoother.SetTarget(gain.DbToLinear(e.snapshot.LateLevel))
	e.widthSmoother.SetTarget(e.snapshot.StereoWidth / 100)

	for i := 0; i < n; i++ {
		curDryWet := e.dryWetSmoother.Process()
		curEarlyLevel := e.earlyLevelSmoother.Process()
		curLateLevel := e.lateLevelSmoother.Process()
		curWidth := e.widthSmoother.Process()

		outL, outR := mixer.Mix(
			b.DryL[i], b.DryR[i],
			b.EarlyL[i], b.EarlyR[i],
			b.FDNOutL[i], b.FDNOutR[i],
			b.DVNL[i], b.DVNR[i],
			float32(curEarlyLevel), float32(curLateLevel),
			float32(curDryWet),
			float32(curWidth),
		)
		l[i] = outL
		if mono {
			continue
		}
		r[i] = outR
	}
}

func (e *Engine) processFDNOversampled(inL, inR, outL, outR []float32) {
	n := len(inL)
	upL := e.oversampler.Up(0, inL)
	upR := e.oversampler.Up(1, inR)
	ratio := e.activeFactor.Ratio()

	osOutL := e.fdnOutOversampledL[:n*ratio]
	osOutR := e.fdnOutOversampledR[:n*ratio]
	for i := range osOutL {
		osOutL[i], osOutR[i] = e.fdn.ProcessSample(upL[i], upR[i])
	}

	e.oversampler.Down(0, osOutL, outL)
	e.oversampler.Down(1, osOutR, outR)
}

func (e *Engine) maybeReprepareOversampling() {
	factor := factorForOversampling(e.snapshot.Oversampling)
	if factor == e.activeFactor {
		return
	}
	log.Info("oversampling factor change: %v -> %v, re-preparing at block boundary", e.activeFactor, factor)
	e.prepareOversampling(factor, e.maxBlockSize)
	e.fdn.Reset()
	e.oversampler.Reset()
}
