package synth

import "github.com/cwbudde/algo-synth/dsp"

// voxFormantFreqs holds five formant center frequencies for the vowels
// A, E, I, O, U.
var voxFormantFreqs = [5][5]float32{
	{800, 1150, 2900, 3900, 4950},
	{350, 2000, 2800, 3600, 4950},
	{270, 2140, 2950, 3900, 4950},
	{450, 800, 2830, 3800, 4950},
	{325, 700, 2700, 3800, 4950},
}

// vox shapes a cubed glottal pulse through a bank of formant bandpasses,
// cycling vowels with frequency, plus breath noise and vibrato.
type vox struct {
	sampleRate float32
	formants   [5]dsp.StateVariableFilter
	noise      noiseSource
}

func newVox(sampleRate int, seed int64) *vox {
	return &vox{
		sampleRate: float32(sampleRate),
		noise:      newNoiseSource(seed),
	}
}

func (v *vox) Generate(phase, frequency float32) float32 {
	excitation := sinf(tau * phase)
	excitation = excitation * excitation * excitation

	vowel := int(frequency/100.0) % 5
	if vowel < 0 {
		vowel = 0
	}

	var out float32
	for i := 0; i < 5; i++ {
		v.formants[i].SetParams(voxFormantFreqs[vowel][i], 10.0+float32(i)*5.0, v.sampleRate)
		formant := v.formants[i].ProcessBandpass(excitation)
		out += formant / float32(i+1)
	}

	breath := v.noise.next() * 0.05
	out = out*0.9 + breath*0.1

	vibrato := sinf(tau*phase*5.0) * 0.02
	out *= 1.0 + vibrato

	return dsp.SoftClip(out * 0.4)
}

func (v *vox) Reset() {
	for i := range v.formants {
		v.formants[i].Reset()
	}
	v.noise.reset()
}
