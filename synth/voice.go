package synth

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp"
)

// Voice is one slot of the fixed pool: a phase accumulator, an ADSR, an
// amplitude smoother, and a private algorithm bank. All per-note state lives
// here so voices never interact except through the output mix.
type Voice struct {
	sampleRate int

	active          bool
	note            int
	velocity        float32
	frequency       float32
	targetFrequency float32
	glideCoef       float32
	phase           float32
	age             int

	env   Envelope
	amp   dsp.OnePole
	level float32

	bank [NumModes]Algorithm
	tone *biquad.Section
}

// NewVoice creates an inactive voice with its own algorithm bank.
func NewVoice(sampleRate int, seed int64, params *Params) *Voice {
	v := &Voice{
		sampleRate: sampleRate,
		note:       -1,
		bank:       newAlgorithmBank(sampleRate, seed),
	}
	v.Configure(params)
	return v
}

// Configure applies envelope, glide, and tone-filter parameters. Called at
// construction and again from Prepare; never on the per-sample path.
func (v *Voice) Configure(params *Params) {
	attack := float32(0.005)
	decay := float32(0.12)
	sustain := float32(0.75)
	release := float32(0.25)
	glide := float32(0.0)
	cutoff := float32(9000.0)
	resonance := float32(0.707)
	if params != nil {
		attack = params.Attack
		decay = params.Decay
		sustain = params.Sustain
		release = params.Release
		glide = params.Glide
		if params.FilterCutoff > 0 {
			cutoff = params.FilterCutoff
		}
		if params.FilterResonance > 0 {
			resonance = params.FilterResonance
		}
	}
	v.env.Configure(attack, decay, sustain, release, v.sampleRate)
	v.glideCoef = rateCoef(glide, v.sampleRate)
	v.amp.SetTime(0.002, v.sampleRate)

	nyquist := 0.49 * float32(v.sampleRate)
	cutoff = minf(cutoff, nyquist)
	coeffs := design.Lowpass(float64(cutoff), float64(resonance), float64(v.sampleRate))
	v.tone = biquad.NewSection(coeffs)
}

// Start begins a fresh note on this slot. The current mode's algorithm is
// reset so no state from the previous note bleeds through.
func (v *Voice) Start(note int, frequency, velocity float32, mode Mode) {
	v.active = true
	v.note = note
	v.velocity = velocity
	v.frequency = frequency
	v.targetFrequency = frequency
	v.phase = 0
	v.age = 0
	v.level = 0
	v.amp.Snap(0)
	v.env.Trigger()
	if mode.Valid() {
		v.bank[mode].Reset()
	}
}

// Retrigger restarts the same note on an already sounding voice: the phase
// resets and the current amplitude is halved rather than zeroed, softening
// the discontinuity of the repeated attack.
func (v *Voice) Retrigger(velocity float32, mode Mode) {
	v.velocity = velocity
	v.phase = 0
	v.age = 0
	v.amp.Snap(v.amp.Value() * 0.5)
	v.env.Trigger()
	if mode.Valid() {
		v.bank[mode].Reset()
	}
}

// Retune moves the voice to a new note without retriggering the envelope.
// With glide enabled the frequency slews; otherwise it snaps.
func (v *Voice) Retune(note int, frequency float32, glide bool) {
	v.note = note
	v.targetFrequency = frequency
	if !glide || v.glideCoef == 0 {
		v.frequency = frequency
	}
}

// Release moves the envelope into its release stage. The voice stays active
// until the release tail decays.
func (v *Voice) Release() {
	v.env.Release()
}

// Releasing reports whether the voice is in its release tail.
func (v *Voice) Releasing() bool {
	return v.env.Releasing()
}

// Reset silences and frees the voice immediately.
func (v *Voice) Reset() {
	v.active = false
	v.note = -1
	v.phase = 0
	v.level = 0
	v.age = 0
	v.env.Reset()
	v.amp.Snap(0)
}

// Active reports whether the voice occupies its slot.
func (v *Voice) Active() bool {
	return v.active
}

// Note returns the MIDI note the voice is sounding, or -1.
func (v *Voice) Note() int {
	return v.note
}

// Frequency returns the current (possibly gliding) frequency in Hz.
func (v *Voice) Frequency() float32 {
	return v.frequency
}

// Level returns the last rendered envelope*amplitude product. The pool uses
// it as the steal metric.
func (v *Voice) Level() float32 {
	return v.level
}

// Age returns samples since the last (re)trigger.
func (v *Voice) Age() int {
	return v.age
}

// NextSample renders one sample for the given mode and advances the voice.
func (v *Voice) NextSample(mode Mode) float32 {
	if !v.active {
		return 0
	}

	if v.frequency != v.targetFrequency {
		v.frequency = v.targetFrequency + (v.frequency-v.targetFrequency)*v.glideCoef
		if absf(v.frequency-v.targetFrequency) < 0.01 {
			v.frequency = v.targetFrequency
		}
	}
	freq := clampFrequency(v.frequency)

	sample := v.bank[mode].Generate(v.phase, freq)
	if !isFinite(sample) {
		sample = 0
		v.bank[mode].Reset()
	}

	envLevel := v.env.Next()
	ampLevel := v.amp.Process(v.velocity)
	v.level = envLevel * ampLevel
	out := sample * v.level

	out = float32(v.tone.ProcessSample(float64(out)))

	v.phase += freq / float32(v.sampleRate)
	if v.phase >= 1.0 {
		v.phase -= 1.0
	}
	v.age++

	if !v.env.Active() {
		v.active = false
		v.note = -1
		v.level = 0
	}
	return out
}
