package synth

import "github.com/cwbudde/algo-synth/dsp"

// resonator is a Karplus-Strong string: a noise burst at note start feeds a
// feedback delay tuned to the fundamental, damped by a two-point average,
// with a second fixed line providing sympathetic resonance. The string line
// is preallocated for the lowest representable note and retuned by length
// so retuning never allocates.
type resonator struct {
	sampleRate  float32
	line        *dsp.DelayLine
	sympathetic *dsp.DelayLine
	last        float32
	noise       noiseSource
}

func newResonator(sampleRate int, seed int64) *resonator {
	maxLen := int(float32(sampleRate) / MinFrequency)
	sympLen := 2048 * sampleRate / 44100
	return &resonator{
		sampleRate:  float32(sampleRate),
		line:        dsp.NewDelayLine(maxLen, 0.95),
		sympathetic: dsp.NewDelayLine(sympLen, 0.5),
		noise:       newNoiseSource(seed),
	}
}

func (r *resonator) Generate(phase, frequency float32) float32 {
	// Excite only at the start of the note.
	var excitation float32
	if phase < 0.01 {
		excitation = r.noise.next() * 0.5
	}

	r.line.SetLength(int(r.sampleRate / clampFrequency(frequency)))
	delayed := r.line.Process(excitation)

	// Damping: averaging lowpass with loop loss.
	filtered := (delayed + r.last) * 0.5 * 0.995
	r.last = delayed

	symp := r.sympathetic.Process(filtered * 0.2)

	out := filtered + symp*0.3
	out += sinf(tau*phase*2.0) * 0.1

	return dsp.SoftClip(out * 0.7)
}

func (r *resonator) Reset() {
	r.line.Reset()
	r.sympathetic.Reset()
	r.last = 0
	r.noise.reset()
}
