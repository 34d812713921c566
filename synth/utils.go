package synth

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

const tau = 2.0 * math.Pi

const (
	// MinFrequency and MaxFrequency bound every frequency before it is
	// used as a phase increment or a filter cutoff.
	MinFrequency = 20.0
	MaxFrequency = 20000.0
)

// noteToFrequency converts a MIDI note number to frequency in Hz using equal
// temperament around the reference pitch (A4).
func noteToFrequency(note int, octaveShift int, referencePitch float32) float32 {
	const a4Note = 69
	if referencePitch <= 0 {
		referencePitch = 440.0
	}
	exponent := float32(note+octaveShift*12-a4Note) / 12.0
	return referencePitch * pow2Approx(exponent)
}

func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

func clampFrequency(f float32) float32 {
	return minf(maxf(f, MinFrequency), MaxFrequency)
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func tanhf(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

func isFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

func maxf(a float32, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a float32, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
