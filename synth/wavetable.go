package synth

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp"
)

const (
	wavetableCount = 4
	wavetableSize  = 2048
)

// wavetableOscillator morphs between a small set of precomputed tables of
// increasing harmonic complexity. Tables are immutable after construction;
// only the morph position is mutable state.
type wavetableOscillator struct {
	tables [wavetableCount][wavetableSize]float32
	morph  float32
}

func newWavetableOscillator() *wavetableOscillator {
	w := &wavetableOscillator{}
	for table := 0; table < wavetableCount; table++ {
		numHarmonics := 1 + table*2
		for i := 0; i < wavetableSize; i++ {
			phase := float64(i) / wavetableSize
			var sample float64
			for h := 1; h <= numHarmonics; h++ {
				amplitude := 1.0 / (float64(h) + float64(table)*0.5)
				// Slight inharmonicity for metallic character.
				frequency := float64(h) * (1.0 + float64(table)*0.01*float64(h-1))
				sample += math.Sin(2.0*math.Pi*phase*frequency) * amplitude
			}
			w.tables[table][i] = float32(sample * 0.5 / float64(numHarmonics))
		}
	}
	return w
}

// setMorphFromFrequency maps frequency onto the cyclic morph position.
func (w *wavetableOscillator) setMorphFromFrequency(frequency float32) {
	m := frequency / 100.0
	w.morph = m - float32(int(m/wavetableCount))*wavetableCount
}

func (w *wavetableOscillator) generate(phase float32) float32 {
	tableA := int(w.morph) % wavetableCount
	if tableA < 0 {
		tableA = 0
	}
	tableB := (tableA + 1) % wavetableCount
	blend := w.morph - float32(tableA)

	floatIndex := phase * wavetableSize
	index := int(floatIndex) % wavetableSize
	if index < 0 {
		index = 0
	}
	nextIndex := (index + 1) % wavetableSize
	frac := floatIndex - float32(int(floatIndex))

	sampleA := w.tables[tableA][index]*(1.0-frac) + w.tables[tableA][nextIndex]*frac
	sampleB := w.tables[tableB][index]*(1.0-frac) + w.tables[tableB][nextIndex]*frac
	return sampleA*(1.0-blend) + sampleB*blend
}

func (w *wavetableOscillator) reset() {
	w.morph = 0
}

// crystalline layers the morphing wavetable with inharmonic bell partials,
// a comb delay for shimmer, and gentle ring modulation.
type crystalline struct {
	wt   *wavetableOscillator
	comb *dsp.DelayLine
}

func newCrystalline(sampleRate int) *crystalline {
	combLen := 2048 * sampleRate / 44100
	return &crystalline{
		wt:   newWavetableOscillator(),
		comb: dsp.NewDelayLine(combLen, 0.5),
	}
}

func (c *crystalline) Generate(phase, frequency float32) float32 {
	c.wt.setMorphFromFrequency(frequency)
	out := c.wt.generate(phase)

	// Inharmonic partials for bell-like quality.
	out += sinf(tau*phase*2.76) * 0.15
	out += sinf(tau*phase*5.4) * 0.1
	out += sinf(tau*phase*8.93) * 0.05

	delayed := c.comb.Process(out * 0.3)
	out = out*0.7 + delayed

	ring := sinf(tau * phase * 13.0)
	out *= 1.0 + ring*0.1

	return dsp.SoftClip(out * 0.5)
}

func (c *crystalline) Reset() {
	c.wt.reset()
	c.comb.Reset()
}
