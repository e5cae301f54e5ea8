package param

// Parameter IDs for the reverb's external parameter vector (spec §6).
// Stable across versions: a host persists automation and state keyed by
// these values, not by index.
const (
	IDDryWet uint32 = iota
	IDPreDelay
	IDEarlyLevel
	IDLateLevel
	IDRoomSize
	IDStereoWidth
	IDOversampling
	IDLowRT60
	IDHighRT60
	IDHfDamping
	IDDiffusion
	IDDecayShape
	IDSatAmount
	IDSatDrive
	IDSatType
	IDSatTone
	IDSatAsymmetry
	IDModDepth
	IDModRate
	IDBypassEarly
	IDBypassFDN
	IDBypassDVN
	IDBypassSaturation
	IDBypassToneFilter
	IDBypassAttenFilter
	IDBypassModulation
)

// NewReverbRegistry builds the metadata registry for the reverb's
// parameter vector: every scalar from spec §6 with its range, default,
// unit and (where applicable) enum formatter. This registry describes
// parameters for host automation and state display; the real-time
// engine reads values from a ReverbParams/ReverbSnapshot instead.
func NewReverbRegistry() *Registry {
	r := NewRegistry()
	r.Add(
		MixParameter(IDDryWet, "Dry/Wet").Default(30).Build(),
		TimeParameter(IDPreDelay, "Pre-Delay", 0, 100, 12).Build(),
		New(IDEarlyLevel, "Early Level").Range(-24, 6).Default(-3).Unit("dB").Build(),
		New(IDLateLevel, "Late Level").Range(-24, 6).Default(-6).Unit("dB").Build(),
		New(IDRoomSize, "Room Size").Range(0.1, 1.0).Default(0.6).Build(),
		New(IDStereoWidth, "Stereo Width").Range(0, 100).Default(70).Unit("%").Build(),
		New(IDOversampling, "Oversampling").Range(0, 2).Default(1).Steps(2).
			Formatter(OversamplingFormatter, OversamplingParser).Build(),
		New(IDLowRT60, "Low RT60").Range(0.2, 12.0).Default(2.5).Unit("s").Build(),
		New(IDHighRT60, "High RT60").Range(0.1, 8.0).Default(1.4).Unit("s").Build(),
		New(IDHfDamping, "HF Damping").Range(0, 100).Default(65).Unit("%").Build(),
		FeedbackParameter(IDDiffusion, "Diffusion").Default(80).Build(),
		New(IDDecayShape, "Decay Shape").Range(0, 100).Default(40).Unit("%").Build(),
		DriveParameter(IDSatAmount, "Saturation Amount").Default(0).Build(),
		New(IDSatDrive, "Saturation Drive").Range(0, 24).Default(6).Unit("dB").Build(),
		New(IDSatType, "Saturation Type").Range(0, 3).Default(1).Steps(3).
			Formatter(SatTypeFormatter, SatTypeParser).Build(),
		New(IDSatTone, "Saturation Tone").Range(-100, 100).Default(0).Unit("%").Build(),
		New(IDSatAsymmetry, "Saturation Asymmetry").Range(0, 100).Default(0).Unit("%").Build(),
		DepthParameter(IDModDepth, "Modulation Depth").Default(15).Build(),
		RateParameter(IDModRate, "Modulation Rate", 0.1, 5.0, 0.5).Build(),
		BypassParameter(IDBypassEarly, "Bypass Early").Build(),
		BypassParameter(IDBypassFDN, "Bypass FDN").Build(),
		BypassParameter(IDBypassDVN, "Bypass DVN").Build(),
		BypassParameter(IDBypassSaturation, "Bypass Saturation").Build(),
		BypassParameter(IDBypassToneFilter, "Bypass Tone Filter").Build(),
		BypassParameter(IDBypassAttenFilter, "Bypass Atten Filter").Build(),
		BypassParameter(IDBypassModulation, "Bypass Modulation").Build(),
	)
	return r
}
