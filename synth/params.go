package synth

// Params holds the tunable engine parameters. The zero value is not usable;
// start from NewDefaultParams and override fields (presets do this through
// the preset package).
type Params struct {
	// Gain is the master output gain applied after voice normalization.
	Gain float32
	// ReferencePitch is the frequency of A4 in Hz.
	ReferencePitch float32
	// OctaveShift transposes all incoming notes by whole octaves.
	OctaveShift int

	// ADSR times in seconds and the sustain level in [0, 1].
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32

	// Per-voice tone filter. Cutoff in Hz, Q around 0.707 for flat response.
	FilterCutoff    float32
	FilterResonance float32

	// Glide is the mono-mode portamento time in seconds. Zero retunes
	// instantly.
	Glide float32

	// Master effects chain (applied after the voice mix).
	ChorusEnabled bool
	ChorusMix     float64
	ChorusDepth   float64
	ChorusSpeedHz float64
	ChorusStages  int

	ReverbEnabled  bool
	ReverbWet      float64
	ReverbDry      float64
	ReverbRoomSize float64
	ReverbDamp     float64
	ReverbGain     float64
}

// NewDefaultParams returns the baseline parameter set.
func NewDefaultParams() *Params {
	return &Params{
		Gain:           0.8,
		ReferencePitch: 440.0,
		OctaveShift:    0,

		Attack:  0.005,
		Decay:   0.12,
		Sustain: 0.75,
		Release: 0.25,

		FilterCutoff:    9000.0,
		FilterResonance: 0.707,

		Glide: 0.04,

		ChorusEnabled: false,
		ChorusMix:     0.18,
		ChorusDepth:   0.003,
		ChorusSpeedHz: 0.35,
		ChorusStages:  3,

		ReverbEnabled:  false,
		ReverbWet:      0.22,
		ReverbDry:      1.0,
		ReverbRoomSize: 0.72,
		ReverbDamp:     0.45,
		ReverbGain:     0.015,
	}
}
