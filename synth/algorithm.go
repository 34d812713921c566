package synth

import "math/rand"

// Algorithm is one synthesis mode's signal generator. Generate maps the
// caller-advanced phase in [0, 1) and the clamped frequency in Hz to one
// output sample; stateful algorithms advance their internal state as a side
// effect. Reset restores the state a freshly-constructed instance would have.
type Algorithm interface {
	Generate(phase, frequency float32) float32
	Reset()
}

// newAlgorithmBank builds one instance of every mode. Each voice owns a
// bank so that delay lines, filters, and chaos state never leak between
// simultaneously sounding notes. The seed keeps noise-based modes
// deterministic, which matters for Reset and for tests.
func newAlgorithmBank(sampleRate int, seed int64) [NumModes]Algorithm {
	var bank [NumModes]Algorithm
	bank[ModeCrystalline] = newCrystalline(sampleRate)
	bank[ModeAnalogBeast] = newAnalogBeast(sampleRate, seed)
	bank[ModeResonator] = newResonator(sampleRate, seed+1)
	bank[ModeMorpheus] = newMorpheus(sampleRate, seed+2)
	bank[ModeVox] = newVox(sampleRate, seed+3)
	bank[ModeTexture] = newTexture(sampleRate, seed+4)
	bank[ModeSpectral] = newSpectral()
	bank[ModeDX7] = newDX7(sampleRate)
	bank[ModeLiving] = newLiving(sampleRate)
	bank[ModeNebula] = newNebula(sampleRate, seed+5)
	return bank
}

// noiseSource is the shared RNG wrapper for noise-based algorithms. Reset
// reseeds so a reset algorithm replays the same noise sequence.
type noiseSource struct {
	seed int64
	rng  *rand.Rand
}

func newNoiseSource(seed int64) noiseSource {
	return noiseSource{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// next returns uniform noise in [-1, 1).
func (n *noiseSource) next() float32 {
	return n.rng.Float32()*2.0 - 1.0
}

func (n *noiseSource) reset() {
	n.rng.Seed(n.seed)
}
