package synth

import "github.com/cwbudde/algo-synth/dsp"

// nebula is the hybrid mode: a wavetable foundation layered with its own
// grain cloud, an FM shimmer operator, filtered noise for atmosphere, and a
// four-tap delay wash standing in for reverb.
type nebula struct {
	sampleRate float32
	wt         *wavetableOscillator
	cloud      *grainCloud
	counter    int
	shimmer    fmOperator
	filter     dsp.StateVariableFilter
	delays     [4]*dsp.DelayLine
	noise      noiseSource
}

func newNebula(sampleRate int, seed int64) *nebula {
	n := &nebula{
		sampleRate: float32(sampleRate),
		wt:         newWavetableOscillator(),
		cloud:      newGrainCloud(sampleRate),
		shimmer:    fmOperator{ratio: 1.0, amplitude: 1.0},
		noise:      newNoiseSource(seed),
	}
	baseLen := 2048 * sampleRate / 44100
	for i := range n.delays {
		// Slightly different lengths per tap to diffuse the wash.
		n.delays[i] = dsp.NewDelayLine(baseLen+i*311, 0.5)
	}
	return n
}

func (n *nebula) Generate(phase, frequency float32) float32 {
	n.wt.setMorphFromFrequency(frequency)
	wavetableOut := n.wt.generate(phase) * 0.3

	// Keep the grain layer alive at a slow, frequency-independent rate.
	n.counter++
	if n.counter > int(n.sampleRate*0.02) {
		n.counter = 0
		n.cloud.trigger(&n.noise)
	}
	granularOut := n.cloud.process() * 0.3

	n.shimmer.advance(frequency, n.sampleRate)
	fmMod := n.shimmer.generate(0) * 5.0
	fmOut := sinf(tau*phase*(1.0+fmMod)) * 0.2

	noise := n.noise.next() * 0.1
	n.filter.SetParams(frequency*8.0, 4.0, n.sampleRate)
	filteredNoise := n.filter.ProcessBandpass(noise)

	mixFactor := frequency / 1000.0
	out := wavetableOut*(1.0-mixFactor*0.5) +
		granularOut*0.5 +
		fmOut*mixFactor +
		filteredNoise*0.3

	var wash float32
	for i := range n.delays {
		wash += n.delays[i].Process(out*0.2) * 0.25
	}
	out = out*0.7 + wash*0.3

	lfo1 := sinf(tau * phase * 0.13)
	lfo2 := sinf(tau * phase * 0.37)
	out *= 1.0 + lfo1*0.1 + lfo2*0.05

	return dsp.SoftClip(out * 0.6)
}

func (n *nebula) Reset() {
	n.wt.reset()
	n.cloud.reset()
	n.counter = 0
	n.shimmer.phase = 0
	n.filter.Reset()
	for i := range n.delays {
		n.delays[i].Reset()
	}
	n.noise.reset()
}
