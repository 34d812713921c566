// Package dsp provides small single-sample DSP kernels shared by the
// synthesis algorithms: a feedback delay line, a state-variable filter, a
// DC blocker, a one-pole smoother, and a soft clipper.
//
// None of the Process methods allocate; all per-call state lives in the
// receiver so the kernels are safe to run on an audio callback.
package dsp

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// flush kills denormals in feedback state so long tails do not fall into
// slow subnormal arithmetic.
func flush(x float32) float32 {
	return float32(dspcore.FlushDenormals(float64(x)))
}

// DelayLine is a feedback delay ring. The backing buffer is allocated once
// at construction; SetLength changes the audible delay without reallocating,
// which keeps Process allocation-free even under per-note retuning.
type DelayLine struct {
	buffer   []float32
	length   int
	writePos int
	feedback float32
}

// NewDelayLine creates a delay line with the given maximum length in samples.
func NewDelayLine(maxLength int, feedback float32) *DelayLine {
	if maxLength < 1 {
		maxLength = 1
	}
	return &DelayLine{
		buffer:   make([]float32, maxLength),
		length:   maxLength,
		feedback: feedback,
	}
}

// SetLength sets the active delay length, clamped to [1, capacity].
func (d *DelayLine) SetLength(n int) {
	if n < 1 {
		n = 1
	}
	if n > len(d.buffer) {
		n = len(d.buffer)
	}
	if n != d.length {
		d.length = n
		if d.writePos >= n {
			d.writePos = 0
		}
	}
}

// Length reports the active delay length in samples.
func (d *DelayLine) Length() int {
	return d.length
}

// SetFeedback sets the feedback amount applied when writing.
func (d *DelayLine) SetFeedback(fb float32) {
	d.feedback = fb
}

// Process reads the delayed sample, writes input plus feedback, and advances.
func (d *DelayLine) Process(input float32) float32 {
	out := d.buffer[d.writePos]
	d.buffer[d.writePos] = flush(input + out*d.feedback)
	d.writePos++
	if d.writePos >= d.length {
		d.writePos = 0
	}
	return out
}

// Reset clears the buffer contents and the write position.
func (d *DelayLine) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// StateVariableFilter is a zero-delay-feedback SVF providing simultaneous
// lowpass, bandpass, and highpass responses from shared integrator state.
// The topology stays stable for any cutoff below the Nyquist clamp, which
// matters because some callers sweep the cutoff with the note frequency.
type StateVariableFilter struct {
	g     float32
	k     float32
	ic1eq float32
	ic2eq float32
}

// SetParams tunes the filter. The cutoff is clamped below 0.49*sampleRate;
// resonance below 0.5 is clamped up.
func (s *StateVariableFilter) SetParams(frequency, resonance, sampleRate float32) {
	maxFreq := sampleRate * 0.49
	if frequency > maxFreq {
		frequency = maxFreq
	}
	if frequency < 1 {
		frequency = 1
	}
	if resonance < 0.5 {
		resonance = 0.5
	}
	s.g = float32(math.Tan(math.Pi * float64(frequency/sampleRate)))
	s.k = 1.0 / resonance
}

// step advances the two integrators and returns (low, band, high).
func (s *StateVariableFilter) step(input float32) (float32, float32, float32) {
	a1 := 1.0 / (1.0 + s.g*(s.g+s.k))
	a2 := s.g * a1
	a3 := s.g * a2

	v3 := input - s.ic2eq
	v1 := a1*s.ic1eq + a2*v3
	v2 := s.ic2eq + a2*s.ic1eq + a3*v3

	s.ic1eq = flush(2.0*v1 - s.ic1eq)
	s.ic2eq = flush(2.0*v2 - s.ic2eq)

	return v2, v1, input - s.k*v1 - v2
}

// ProcessLowpass advances the filter and returns the lowpass output.
func (s *StateVariableFilter) ProcessLowpass(input float32) float32 {
	low, _, _ := s.step(input)
	return low
}

// ProcessBandpass advances the filter and returns the bandpass output.
func (s *StateVariableFilter) ProcessBandpass(input float32) float32 {
	_, band, _ := s.step(input)
	return band
}

// ProcessHighpass advances the filter and returns the highpass output.
func (s *StateVariableFilter) ProcessHighpass(input float32) float32 {
	_, _, high := s.step(input)
	return high
}

// Reset clears the integrator state but keeps the tuning.
func (s *StateVariableFilter) Reset() {
	s.ic1eq = 0
	s.ic2eq = 0
}

// DCBlocker removes DC offset with a first-order highpass,
// y[n] = x[n] - x[n-1] + r*y[n-1].
type DCBlocker struct {
	r  float32
	x1 float32
	y1 float32
}

// NewDCBlocker creates a DC blocker. r close to 1 moves the corner lower;
// 0.995 sits a few hertz up at 44.1 kHz.
func NewDCBlocker(r float32) *DCBlocker {
	if r <= 0 || r >= 1 {
		r = 0.995
	}
	return &DCBlocker{r: r}
}

// Process filters one sample.
func (b *DCBlocker) Process(x float32) float32 {
	y := x - b.x1 + b.r*b.y1
	b.x1 = x
	b.y1 = flush(y)
	return y
}

// Reset clears the filter state.
func (b *DCBlocker) Reset() {
	b.x1 = 0
	b.y1 = 0
}

// OnePole is a one-pole parameter smoother running toward a target value.
type OnePole struct {
	coeff float32
	state float32
}

// SetTime configures the smoothing time constant in seconds.
func (p *OnePole) SetTime(seconds float32, sampleRate int) {
	if seconds <= 0 || sampleRate <= 0 {
		p.coeff = 0
		return
	}
	p.coeff = float32(math.Exp(-1.0 / (float64(seconds) * float64(sampleRate))))
}

// Snap forces the smoother to a value immediately.
func (p *OnePole) Snap(value float32) {
	p.state = value
}

// Value reports the current smoothed value without advancing.
func (p *OnePole) Value() float32 {
	return p.state
}

// Process advances one sample toward target and returns the smoothed value.
func (p *OnePole) Process(target float32) float32 {
	p.state = flush(target + (p.state-target)*p.coeff)
	return p.state
}

// SoftClip passes signals below 0.7 untouched and folds the rest through a
// scaled tanh, bounding the output near ±0.7.
func SoftClip(x float32) float32 {
	if x > -0.7 && x < 0.7 {
		return x
	}
	return float32(math.Tanh(float64(x)*1.5)) * 0.7
}
