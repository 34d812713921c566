package synth

import (
	"math"
	"math/rand"
	"testing"
)

func newTestEngine(t *testing.T, params *Params) *Engine {
	t.Helper()
	e, err := New(48000, params)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return e
}

func TestLongRenderHasNoNaNOrInf(t *testing.T) {
	params := NewDefaultParams()
	params.ChorusEnabled = true
	params.ReverbEnabled = true
	e := newTestEngine(t, params)
	e.NoteOn(48, 80)
	e.NoteOn(60, 90)
	e.NoteOn(72, 110)

	const numBlocks = 300
	const blockSize = 128
	left := make([]float32, blockSize)
	right := make([]float32, blockSize)
	out := [][]float32{left, right}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < numBlocks; i++ {
		if i == 100 {
			e.NoteOff(60)
		}
		if i%37 == 0 {
			e.NoteOn(36+rng.Intn(60), 1+rng.Intn(127))
		}
		e.Process(out)
		for ch := range out {
			for j, s := range out[ch] {
				if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
					t.Fatalf("non-finite sample at block %d ch %d sample %d: %v", i, ch, j, s)
				}
			}
		}
	}
}

func TestProcessWritesSameSignalToAllChannels(t *testing.T) {
	e := newTestEngine(t, nil)
	e.NoteOn(60, 100)

	left := make([]float32, 256)
	right := make([]float32, 256)
	e.Process([][]float32{left, right})
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("channel mismatch at sample %d: left=%f right=%f", i, left[i], right[i])
		}
	}
}

func renderPeak(t *testing.T, notes []int, blocks int) float32 {
	t.Helper()
	e := newTestEngine(t, nil)
	for _, n := range notes {
		e.NoteOn(n, 100)
	}
	buf := make([]float32, 128)
	out := [][]float32{buf}
	var peak float32
	for i := 0; i < blocks; i++ {
		e.Process(out)
		for _, s := range buf {
			if a := absf(s); a > peak {
				peak = a
			}
		}
	}
	return peak
}

func TestChordPeakStaysUnderNormalizedVoiceSum(t *testing.T) {
	notes := []int{60, 64, 67, 72}
	var sum float32
	for _, n := range notes {
		sum += renderPeak(t, []int{n}, 200)
	}
	chord := renderPeak(t, notes, 200)

	// Four voices are scaled by 1/sqrt(4), so the chord peak cannot exceed
	// half the summed single-note peaks.
	limit := sum*0.5 + 1e-3
	if chord > limit {
		t.Fatalf("chord peak %f exceeds normalized limit %f", chord, limit)
	}
	if chord < 1e-4 {
		t.Fatalf("chord rendered silence")
	}
}

func TestNoteOnZeroVelocityReleases(t *testing.T) {
	e := newTestEngine(t, nil)
	e.NoteOn(60, 100)
	buf := [][]float32{make([]float32, 128)}
	e.Process(buf)

	e.NoteOn(60, 0)
	v := e.pool.FindNote(60)
	if v == nil || !v.Releasing() {
		t.Fatalf("expected zero-velocity note on to act as note off")
	}
}

func TestAllNotesOffStopsImmediately(t *testing.T) {
	e := newTestEngine(t, nil)
	e.NoteOn(60, 100)
	e.NoteOn(64, 100)
	buf := [][]float32{make([]float32, 128)}
	e.Process(buf)

	e.AllNotesOff()
	if got := e.ActiveVoices(); got != 0 {
		t.Fatalf("expected no active voices after all notes off, got %d", got)
	}
}

func TestReleaseAllKeepsTails(t *testing.T) {
	e := newTestEngine(t, nil)
	e.NoteOn(60, 100)
	e.NoteOn(64, 100)
	buf := [][]float32{make([]float32, 128)}
	e.Process(buf)

	e.ReleaseAll()
	if got := e.ActiveVoices(); got != 2 {
		t.Fatalf("expected voices fading through release, got %d", got)
	}
	for _, n := range []int{60, 64} {
		if v := e.pool.FindNote(n); v == nil || !v.Releasing() {
			t.Fatalf("expected note %d in its release tail", n)
		}
	}
}

func TestSetModeSilencesAndSwitches(t *testing.T) {
	e := newTestEngine(t, nil)
	e.NoteOn(60, 100)
	e.SetMode(ModeDX7)
	if e.Mode() != ModeDX7 {
		t.Fatalf("expected mode switch to DX7, got %s", e.Mode())
	}
	if got := e.ActiveVoices(); got != 0 {
		t.Fatalf("expected mode switch to silence voices, got %d", got)
	}

	e.SetMode(Mode(99))
	if e.Mode() != ModeDX7 {
		t.Fatalf("expected invalid mode rejected, got %s", e.Mode())
	}
}

func TestSnapshotAccessors(t *testing.T) {
	e := newTestEngine(t, nil)
	if got := e.CurrentFrequency(); got != 0 {
		t.Fatalf("expected zero frequency before first block, got %f", got)
	}

	e.NoteOn(60, 100)
	e.NoteOn(64, 100)
	buf := [][]float32{make([]float32, 256)}
	e.Process(buf)

	freqs := e.ActiveFrequencies(nil)
	if len(freqs) != 2 {
		t.Fatalf("expected 2 active frequencies, got %d", len(freqs))
	}
	dom := e.CurrentFrequency()
	if dom != freqs[0] && dom != freqs[1] {
		t.Fatalf("expected dominant frequency among active ones, got %f (%v)", dom, freqs)
	}

	e.AllNotesOff()
	e.Process(buf)
	if got := e.ActiveFrequencies(freqs); len(got) != 0 {
		t.Fatalf("expected no active frequencies after all notes off, got %d", len(got))
	}
}

func TestPrepareKeepsDispatchModeAcrossRateChange(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SetDispatchMode(DispatchMono)
	if err := e.Prepare(44100, 256); err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	if e.SampleRate() != 44100 {
		t.Fatalf("expected sample rate 44100, got %d", e.SampleRate())
	}
	if e.DispatchMode() != DispatchMono {
		t.Fatalf("expected dispatch mode preserved across rate change")
	}
}

func TestPrepareRejectsBadArguments(t *testing.T) {
	e := newTestEngine(t, nil)
	if err := e.Prepare(0, 128); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
	if err := e.Prepare(48000, 0); err == nil {
		t.Fatalf("expected error for zero block size")
	}
}

func TestNewRejectsBadSampleRate(t *testing.T) {
	if _, err := New(0, nil); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
}

func TestProcessHandlesEmptyOutput(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Process(nil)
	e.Process([][]float32{{}})
}
