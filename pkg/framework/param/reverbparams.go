package param

import "sync/atomic"

// SatType mirrors distortion.SatType's values without importing that
// package, keeping this parameter layer free of a DSP dependency.
type SatType int32

const (
	SatSoft SatType = iota
	SatWarm
	SatTape
	SatTube
)

// Oversampling mirrors oversample.Factor's values for the same reason.
type Oversampling int32

const (
	OversamplingOff Oversampling = iota
	OversamplingX2
	OversamplingX4
)

// ReverbParams holds every engine-facing parameter (spec §6) as
// lock-free atomic cells. Any thread may call the Set* methods; only the
// audio thread calls Snapshot, once per block, to read a plain-value copy
// via one relaxed load per field.
type ReverbParams struct {
	dryWet       uint64
	preDelay     uint64
	earlyLevel   uint64
	lateLevel    uint64
	roomSize     uint64
	stereoWidth  uint64
	oversampling int32
	lowRT60      uint64
	highRT60     uint64
	hfDamping    uint64
	diffusion    uint64
	decayShape   uint64
	satAmount    uint64
	satDrive     uint64
	satType      int32
	satTone      uint64
	satAsymmetry uint64
	modDepth     uint64
	modRate      uint64

	bypassEarly      int32
	bypassFDN        int32
	bypassDVN        int32
	bypassSaturation int32
	bypassToneFilter int32
	bypassAttenFilter int32
	bypassModulation int32
}

// ReverbSnapshot is a plain-value copy of ReverbParams captured field by
// field, with one atomic load each, at the start of a block (spec §5). It carries no atomics of its own so
// it can be freely copied and read per-sample inside the audio thread.
type ReverbSnapshot struct {
	DryWet       float64
	PreDelay     float64
	EarlyLevel   float64
	LateLevel    float64
	RoomSize     float64
	StereoWidth  float64
	Oversampling Oversampling
	LowRT60      float64
	HighRT60     float64
	HfDamping    float64
	Diffusion    float64
	DecayShape   float64
	SatAmount    float64
	SatDrive     float64
	SatType      SatType
	SatTone      float64
	SatAsymmetry float64
	ModDepth     float64
	ModRate      float64

	BypassEarly       bool
	BypassFDN         bool
	BypassDVN         bool
	BypassSaturation  bool
	BypassToneFilter  bool
	BypassAttenFilter bool
	BypassModulation  bool
}

// NewReverbParams returns a ReverbParams initialised to the spec's
// defaults.
func NewReverbParams() *ReverbParams {
	p := &ReverbParams{}
	p.SetDryWet(30)
	p.SetPreDelay(12)
	p.SetEarlyLevel(-3)
	p.SetLateLevel(-6)
	p.SetRoomSize(0.6)
	p.SetStereoWidth(70)
	p.SetOversampling(OversamplingX2)
	p.SetLowRT60(2.5)
	p.SetHighRT60(1.4)
	p.SetHfDamping(65)
	p.SetDiffusion(80)
	p.SetDecayShape(40)
	p.SetSatAmount(0)
	p.SetSatDrive(6)
	p.SetSatType(SatWarm)
	p.SetSatTone(0)
	p.SetSatAsymmetry(0)
	p.SetModDepth(15)
	p.SetModRate(0.5)
	return p
}

func storeF64(addr *uint64, v float64) { atomic.StoreUint64(addr, float64bits(v)) }
func loadF64(addr *uint64) float64     { return float64frombits(atomic.LoadUint64(addr)) }
func storeBool(addr *int32, v bool) {
	if v {
		atomic.StoreInt32(addr, 1)
	} else {
		atomic.StoreInt32(addr, 0)
	}
}
func loadBool(addr *int32) bool { return atomic.LoadInt32(addr) != 0 }

func (p *ReverbParams) SetDryWet(v float64)       { storeF64(&p.dryWet, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetPreDelay(v float64)     { storeF64(&p.preDelay, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetEarlyLevel(v float64)   { storeF64(&p.earlyLevel, clampRange(v, -24, 6)) }
func (p *ReverbParams) SetLateLevel(v float64)    { storeF64(&p.lateLevel, clampRange(v, -24, 6)) }
func (p *ReverbParams) SetRoomSize(v float64)     { storeF64(&p.roomSize, clampRange(v, 0.1, 1.0)) }
func (p *ReverbParams) SetStereoWidth(v float64)  { storeF64(&p.stereoWidth, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetOversampling(v Oversampling) { atomic.StoreInt32(&p.oversampling, int32(v)) }
func (p *ReverbParams) SetLowRT60(v float64)      { storeF64(&p.lowRT60, clampRange(v, 0.2, 12.0)) }
func (p *ReverbParams) SetHighRT60(v float64)     { storeF64(&p.highRT60, clampRange(v, 0.1, 8.0)) }
func (p *ReverbParams) SetHfDamping(v float64)    { storeF64(&p.hfDamping, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetDiffusion(v float64)    { storeF64(&p.diffusion, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetDecayShape(v float64)   { storeF64(&p.decayShape, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetSatAmount(v float64)    { storeF64(&p.satAmount, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetSatDrive(v float64)     { storeF64(&p.satDrive, clampRange(v, 0, 24)) }
func (p *ReverbParams) SetSatType(v SatType)      { atomic.StoreInt32(&p.satType, int32(v)) }
func (p *ReverbParams) SetSatTone(v float64)      { storeF64(&p.satTone, clampRange(v, -100, 100)) }
func (p *ReverbParams) SetSatAsymmetry(v float64) { storeF64(&p.satAsymmetry, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetModDepth(v float64)     { storeF64(&p.modDepth, clampRange(v, 0, 100)) }
func (p *ReverbParams) SetModRate(v float64)      { storeF64(&p.modRate, clampRange(v, 0.1, 5.0)) }

func (p *ReverbParams) SetBypassEarly(v bool)       { storeBool(&p.bypassEarly, v) }
func (p *ReverbParams) SetBypassFDN(v bool)         { storeBool(&p.bypassFDN, v) }
func (p *ReverbParams) SetBypassDVN(v bool)         { storeBool(&p.bypassDVN, v) }
func (p *ReverbParams) SetBypassSaturation(v bool)  { storeBool(&p.bypassSaturation, v) }
func (p *ReverbParams) SetBypassToneFilter(v bool)  { storeBool(&p.bypassToneFilter, v) }
func (p *ReverbParams) SetBypassAttenFilter(v bool) { storeBool(&p.bypassAttenFilter, v) }
func (p *ReverbParams) SetBypassModulation(v bool)  { storeBool(&p.bypassModulation, v) }

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Snapshot captures every field with a single relaxed load per field. No
// cross-field consistency is guaranteed or required (spec §5).
func (p *ReverbParams) Snapshot() ReverbSnapshot {
	return ReverbSnapshot{
		DryWet:       loadF64(&p.dryWet),
		PreDelay:     loadF64(&p.preDelay),
		EarlyLevel:   loadF64(&p.earlyLevel),
		LateLevel:    loadF64(&p.lateLevel),
		RoomSize:     loadF64(&p.roomSize),
		StereoWidth:  loadF64(&p.stereoWidth),
		Oversampling: Oversampling(atomic.LoadInt32(&p.oversampling)),
		LowRT60:      loadF64(&p.lowRT60),
		HighRT60:     loadF64(&p.highRT60),
		HfDamping:    loadF64(&p.hfDamping),
		Diffusion:    loadF64(&p.diffusion),
		DecayShape:   loadF64(&p.decayShape),
		SatAmount:    loadF64(&p.satAmount),
		SatDrive:     loadF64(&p.satDrive),
		SatType:      SatType(atomic.LoadInt32(&p.satType)),
		SatTone:      loadF64(&p.satTone),
		SatAsymmetry: loadF64(&p.satAsymmetry),
		ModDepth:     loadF64(&p.modDepth),
		ModRate:      loadF64(&p.modRate),

		BypassEarly:       loadBool(&p.bypassEarly),
		BypassFDN:         loadBool(&p.bypassFDN),
		BypassDVN:         loadBool(&p.bypassDVN),
		BypassSaturation:  loadBool(&p.bypassSaturation),
		BypassToneFilter:  loadBool(&p.bypassToneFilter),
		BypassAttenFilter: loadBool(&p.bypassAttenFilter),
		BypassModulation:  loadBool(&p.bypassModulation),
	}
}
