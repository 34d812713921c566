// Package analysis measures how close two rendered signals are. It drives
// the parameter fitter and doubles as an offline inspection tool: band
// energies for eyeballing a render, and a combined distance score for
// optimization.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
)

// Band is a named frequency range.
type Band struct {
	Name string
	LoHz float64
	HiHz float64
}

// DefaultBands covers the audible range in seven coarse bands.
var DefaultBands = []Band{
	{"sub-bass", 20, 100},
	{"bass", 100, 300},
	{"low-mid", 300, 1000},
	{"mid", 1000, 3000},
	{"hi-mid", 3000, 6000},
	{"high", 6000, 12000},
	{"air", 12000, 20000},
}

// Analyzer computes averaged STFT magnitude spectra with a Hann window.
type Analyzer struct {
	sampleRate int
	fftSize    int
	hop        int
	win        []float64
}

// NewAnalyzer builds an analyzer. fftSize must be a power of two accepted
// by the FFT plan.
func NewAnalyzer(sampleRate, fftSize int) (*Analyzer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %d", sampleRate)
	}
	if fftSize < 64 {
		return nil, fmt.Errorf("fft size too small: %d", fftSize)
	}
	if _, err := algofft.NewPlanReal64(fftSize); err != nil {
		return nil, err
	}
	win := window.Generate(window.TypeHann, fftSize, window.WithPeriodic())
	if len(win) != fftSize {
		return nil, fmt.Errorf("invalid window size: %d", fftSize)
	}
	return &Analyzer{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		hop:        fftSize / 2,
		win:        win,
	}, nil
}

// Spectrum returns the magnitude spectrum averaged over all full STFT
// frames of x. The result has fftSize/2 bins; bin k is centered at
// k*sampleRate/fftSize Hz.
func (a *Analyzer) Spectrum(x []float64) []float64 {
	plan, err := algofft.NewPlanReal64(a.fftSize)
	if err != nil {
		return make([]float64, a.fftSize/2)
	}
	spec := make([]complex128, a.fftSize/2+1)
	buf := make([]float64, a.fftSize)

	nBins := a.fftSize / 2
	avg := make([]float64, nBins)
	frames := 0
	for pos := 0; pos+a.fftSize <= len(x); pos += a.hop {
		for i := 0; i < a.fftSize; i++ {
			buf[i] = x[pos+i] * a.win[i]
		}
		plan.Forward(spec, buf)
		for k := 1; k < nBins; k++ {
			avg[k] += cmplx.Abs(spec[k])
		}
		frames++
	}
	if frames == 0 && len(x) > 0 {
		// Shorter than one frame: zero-pad a single frame.
		for i := 0; i < len(x) && i < a.fftSize; i++ {
			buf[i] = x[i] * a.win[i]
		}
		plan.Forward(spec, buf)
		for k := 1; k < nBins; k++ {
			avg[k] = cmplx.Abs(spec[k])
		}
		frames = 1
	}
	if frames > 1 {
		scale := 1.0 / float64(frames)
		for k := range avg {
			avg[k] *= scale
		}
	}
	return avg
}

// BandEnergiesDB folds a magnitude spectrum into per-band mean power in dB.
func (a *Analyzer) BandEnergiesDB(spectrum []float64, bands []Band) []float64 {
	binHz := float64(a.sampleRate) / float64(a.fftSize)
	out := make([]float64, len(bands))
	for i, b := range bands {
		loK := int(b.LoHz / binHz)
		hiK := int(b.HiHz / binHz)
		if loK < 1 {
			loK = 1
		}
		if hiK >= len(spectrum) {
			hiK = len(spectrum) - 1
		}
		if loK > hiK {
			out[i] = -240
			continue
		}
		var pow float64
		for k := loK; k <= hiK; k++ {
			pow += spectrum[k] * spectrum[k]
		}
		out[i] = 10 * math.Log10(math.Max(pow/float64(hiK-loK+1), 1e-24))
	}
	return out
}

// Metrics reports the sub-distances and the combined score in [0, 1]
// (0 = identical).
type Metrics struct {
	SampleRate      int     `json:"sample_rate"`
	ReferenceFrames int     `json:"reference_frames"`
	CandidateFrames int     `json:"candidate_frames"`
	SpectralRMSEDB  float64 `json:"spectral_rmse_db"`
	EnvelopeRMSEDB  float64 `json:"envelope_rmse_db"`
	Score           float64 `json:"score"`
}

// Compare measures spectral and envelope distance between two signals after
// RMS normalization, returning a combined score for the optimizer.
func (a *Analyzer) Compare(reference, candidate []float64) Metrics {
	m := Metrics{
		SampleRate:      a.sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
	}
	if len(reference) == 0 || len(candidate) == 0 {
		m.Score = 1.0
		return m
	}

	ref := normalizeRMS(reference, 0.1)
	cand := normalizeRMS(candidate, 0.1)

	specRef := a.Spectrum(ref)
	specCand := a.Spectrum(cand)
	var sum float64
	n := 0
	for k := 1; k < len(specRef) && k < len(specCand); k++ {
		d := linToDB(specRef[k]) - linToDB(specCand[k])
		sum += d * d
		n++
	}
	if n > 0 {
		m.SpectralRMSEDB = math.Sqrt(sum / float64(n))
	}

	refEnv := rmsEnvelope(ref, 256, 128)
	candEnv := rmsEnvelope(cand, 256, 128)
	envN := len(refEnv)
	if len(candEnv) < envN {
		envN = len(candEnv)
	}
	if envN > 0 {
		var esum float64
		for i := 0; i < envN; i++ {
			d := linToDB(refEnv[i]) - linToDB(candEnv[i])
			esum += d * d
		}
		m.EnvelopeRMSEDB = math.Sqrt(esum / float64(envN))
	}

	specNorm := clamp01(m.SpectralRMSEDB / 30.0)
	envNorm := clamp01(m.EnvelopeRMSEDB / 30.0)
	m.Score = clamp01(0.6*specNorm + 0.4*envNorm)
	return m
}

func normalizeRMS(x []float64, target float64) []float64 {
	out := make([]float64, len(x))
	r := rms(x)
	if r <= 1e-12 {
		copy(out, x)
		return out
	}
	g := target / r
	for i := range x {
		out[i] = x[i] * g
	}
	return out
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func rmsEnvelope(x []float64, frame, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = rms(x[start : start+frame])
	}
	return out
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
