package synth

import "github.com/cwbudde/algo-synth/dsp"

// analogBeast is a virtual-analog supersaw: the caller-driven saw plus two
// internally advanced detuned saws, a sub-octave sine, a resonant lowpass,
// and a slow random drift feeding soft saturation.
type analogBeast struct {
	sampleRate float32
	phase2     float32
	phase3     float32
	subPhase   float32
	drift      float32
	filter     dsp.StateVariableFilter
	noise      noiseSource
}

func newAnalogBeast(sampleRate int, seed int64) *analogBeast {
	return &analogBeast{
		sampleRate: float32(sampleRate),
		noise:      newNoiseSource(seed),
	}
}

func (a *analogBeast) Generate(phase, frequency float32) float32 {
	const detune1 = 0.997
	const detune2 = 1.003

	a.drift += a.noise.next() * 0.0001
	a.drift *= 0.999

	saw1 := 2.0*phase - 1.0

	a.phase2 += (frequency * detune1) / a.sampleRate
	if a.phase2 >= 1.0 {
		a.phase2 -= 1.0
	}
	saw2 := 2.0*a.phase2 - 1.0

	a.phase3 += (frequency * detune2) / a.sampleRate
	if a.phase3 >= 1.0 {
		a.phase3 -= 1.0
	}
	saw3 := 2.0*a.phase3 - 1.0

	// Sub oscillator one octave down.
	a.subPhase += (frequency * 0.5) / a.sampleRate
	if a.subPhase >= 1.0 {
		a.subPhase -= 1.0
	}
	sub := sinf(tau * a.subPhase)

	out := (saw1+saw2*0.7+saw3*0.7)*0.3 + sub*0.4

	a.filter.SetParams(2000.0+frequency*2.0, 2.0, a.sampleRate)
	out = a.filter.ProcessLowpass(out)

	return tanhf(out*1.5+a.drift) * 0.6
}

func (a *analogBeast) Reset() {
	a.phase2 = 0
	a.phase3 = 0
	a.subPhase = 0
	a.drift = 0
	a.filter.Reset()
	a.noise.reset()
}
