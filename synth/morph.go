package synth

import "github.com/cwbudde/algo-synth/dsp"

// morpheus is a four-corner vector oscillator (sine, saw, square, noise)
// whose morph position tracks the note frequency, shaped by a resonant
// bandpass and a slow amplitude LFO.
type morpheus struct {
	sampleRate float32
	filter     dsp.StateVariableFilter
	noise      noiseSource
	morphX     float32
	morphY     float32
}

func newMorpheus(sampleRate int, seed int64) *morpheus {
	return &morpheus{
		sampleRate: float32(sampleRate),
		noise:      newNoiseSource(seed),
	}
}

func (m *morpheus) updateMorphPosition(frequency float32) {
	m.morphX = sinf(frequency*0.01)*0.5 + 0.5
	m.morphY = cosf(frequency*0.007)*0.5 + 0.5
}

func (m *morpheus) Generate(phase, frequency float32) float32 {
	sine := sinf(tau * phase)
	saw := 2.0*phase - 1.0
	square := float32(-1.0)
	if phase < 0.5 {
		square = 1.0
	}
	noise := m.noise.next() * 0.3

	m.updateMorphPosition(frequency)

	// Bilinear interpolation across the four corners.
	top := sine*(1.0-m.morphX) + saw*m.morphX
	bottom := square*(1.0-m.morphX) + noise*m.morphX
	out := top*(1.0-m.morphY) + bottom*m.morphY

	m.filter.SetParams(frequency*3.0, 5.0, m.sampleRate)
	out = m.filter.ProcessBandpass(out)

	lfo := sinf(tau * phase * 0.1)
	out *= 1.0 + lfo*0.2

	return out * 0.5
}

func (m *morpheus) Reset() {
	m.morphX = 0
	m.morphY = 0
	m.filter.Reset()
	m.noise.reset()
}
