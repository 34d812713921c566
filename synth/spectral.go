package synth

import (
	"math"

	pdefd "github.com/cwbudde/algo-pde/fd"
	pdepoisson "github.com/cwbudde/algo-pde/poisson"
	"github.com/cwbudde/algo-synth/dsp"
)

const (
	spectralHarmonics    = 32
	spectralPlatePartial = 8
)

// spectral is additive synthesis: 32 harmonics under a formant-flavored
// spectral envelope, plus a quiet layer of inharmonic plate partials whose
// ratios come from a discrete Laplacian eigenspectrum. The plate layer gives
// the organ tone the slight metallic sheen of a vibrating plate.
type spectral struct {
	plateRatios [spectralPlatePartial]float32
}

func newSpectral() *spectral {
	s := &spectral{}
	const n = 32
	const h = 1.0 / 32.0
	eig := pdefd.Eigenvalues(n, h, pdepoisson.Dirichlet)
	if len(eig) > 0 && eig[0] > 0 {
		for i := 0; i < spectralPlatePartial && i < len(eig); i++ {
			s.plateRatios[i] = float32(math.Sqrt(eig[i] / eig[0]))
		}
	}
	for i := range s.plateRatios {
		if s.plateRatios[i] <= 0 {
			s.plateRatios[i] = float32(i + 1)
		}
	}
	return s
}

func (s *spectral) Generate(phase, frequency float32) float32 {
	var out float32
	for h := 1; h <= spectralHarmonics; h++ {
		amplitude := 1.0 / float32(h)

		// Formant-like peaks.
		if h%3 == 0 {
			amplitude *= 2.0
		}
		if h%7 == 0 {
			amplitude *= 1.5
		}

		// Frequency-dependent rolloff of upper harmonics.
		cutoff := 20.0 - frequency/100.0
		if float32(h) > cutoff {
			amplitude *= float32(math.Exp(float64(-(float32(h) - cutoff) * 0.2)))
		}

		detune := 1.0 + float32(h)*0.001*sinf(phase*float32(h))
		out += sinf(tau*phase*float32(h)*detune) * amplitude
	}
	out *= 0.1

	// Inharmonic plate partials, fading out toward the treble.
	plateGain := clampf(1.0-frequency/2000.0, 0, 1) * 0.05
	if plateGain > 0 {
		for i, r := range s.plateRatios {
			out += sinf(tau*phase*r) * plateGain / float32(i+1)
		}
	}

	shift := sinf(tau*phase*0.3) * 0.1
	out *= 1.0 + shift

	return dsp.SoftClip(out * 0.6)
}

func (s *spectral) Reset() {}
