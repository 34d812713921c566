package analysis

import (
	"math"
	"testing"
)

func sine(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestSpectrumPeakAtSineFrequency(t *testing.T) {
	const sampleRate = 48000
	const fftSize = 1024
	a, err := NewAnalyzer(sampleRate, fftSize)
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}

	const freq = 1000.0
	spec := a.Spectrum(sine(freq, sampleRate, sampleRate))
	if len(spec) != fftSize/2 {
		t.Fatalf("unexpected spectrum size: got=%d want=%d", len(spec), fftSize/2)
	}

	peak := 1
	for k := 2; k < len(spec); k++ {
		if spec[k] > spec[peak] {
			peak = k
		}
	}
	binFrac := freq * float64(fftSize) / float64(sampleRate)
	wantBin := int(binFrac)
	if peak < wantBin-1 || peak > wantBin+1 {
		t.Fatalf("spectral peak at bin %d, want near %d", peak, wantBin)
	}
}

func TestBandEnergiesLocalizeSine(t *testing.T) {
	const sampleRate = 48000
	a, err := NewAnalyzer(sampleRate, 2048)
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}

	spec := a.Spectrum(sine(2000, sampleRate, sampleRate))
	energies := a.BandEnergiesDB(spec, DefaultBands)
	if len(energies) != len(DefaultBands) {
		t.Fatalf("unexpected band count: got=%d want=%d", len(energies), len(DefaultBands))
	}

	best := 0
	for i := 1; i < len(energies); i++ {
		if energies[i] > energies[best] {
			best = i
		}
	}
	if DefaultBands[best].Name != "mid" {
		t.Fatalf("expected 2 kHz sine to peak in the mid band, got %q", DefaultBands[best].Name)
	}
}

func TestCompareIdenticalSignalsScoresZero(t *testing.T) {
	const sampleRate = 48000
	a, err := NewAnalyzer(sampleRate, 1024)
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}

	x := sine(440, sampleRate, sampleRate)
	m := a.Compare(x, x)
	if m.Score != 0 {
		t.Fatalf("expected zero self-distance, got %f", m.Score)
	}
	if m.SpectralRMSEDB != 0 || m.EnvelopeRMSEDB != 0 {
		t.Fatalf("expected zero sub-distances, got spectral=%f envelope=%f", m.SpectralRMSEDB, m.EnvelopeRMSEDB)
	}
}

func TestCompareDistinguishesFrequencies(t *testing.T) {
	const sampleRate = 48000
	a, err := NewAnalyzer(sampleRate, 1024)
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}

	ref := sine(440, sampleRate, sampleRate)
	near := sine(445, sampleRate, sampleRate)
	far := sine(3520, sampleRate, sampleRate)

	dNear := a.Compare(ref, near).Score
	dFar := a.Compare(ref, far).Score
	if dFar <= dNear {
		t.Fatalf("expected far frequency to score worse: near=%f far=%f", dNear, dFar)
	}
}

func TestCompareIgnoresLevelDifferences(t *testing.T) {
	const sampleRate = 48000
	a, err := NewAnalyzer(sampleRate, 1024)
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}

	ref := sine(440, sampleRate, sampleRate)
	quiet := make([]float64, len(ref))
	for i := range ref {
		quiet[i] = ref[i] * 0.1
	}
	m := a.Compare(ref, quiet)
	if m.Score > 1e-3 {
		t.Fatalf("expected RMS normalization to cancel level difference, score %f", m.Score)
	}
}

func TestCompareEmptySignalScoresWorst(t *testing.T) {
	a, err := NewAnalyzer(48000, 1024)
	if err != nil {
		t.Fatalf("NewAnalyzer error: %v", err)
	}
	if got := a.Compare(nil, sine(440, 48000, 1000)).Score; got != 1 {
		t.Fatalf("expected worst score for empty reference, got %f", got)
	}
}

func TestNewAnalyzerRejectsBadArguments(t *testing.T) {
	if _, err := NewAnalyzer(0, 1024); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
	if _, err := NewAnalyzer(48000, 8); err == nil {
		t.Fatalf("expected error for tiny fft size")
	}
}
