package synth

import (
	"math"
	"testing"
)

func TestNoteToFrequencyReference(t *testing.T) {
	got := noteToFrequency(69, 0, 440)
	if relErr(float64(got), 440) > 0.02 {
		t.Fatalf("unexpected A4 frequency: got=%f want=440", got)
	}
}

func TestNoteToFrequencyOctaves(t *testing.T) {
	cases := []struct {
		note  int
		shift int
		want  float64
	}{
		{57, 0, 220},
		{81, 0, 880},
		{69, 1, 880},
		{69, -1, 220},
		{60, 0, 261.63},
	}
	for _, c := range cases {
		got := noteToFrequency(c.note, c.shift, 440)
		if relErr(float64(got), c.want) > 0.02 {
			t.Fatalf("note %d shift %d: got=%f want=%f", c.note, c.shift, got, c.want)
		}
	}
}

func TestNoteToFrequencyReferencePitch(t *testing.T) {
	got := noteToFrequency(69, 0, 432)
	if relErr(float64(got), 432) > 0.02 {
		t.Fatalf("unexpected retuned A4: got=%f want=432", got)
	}
	fallback := noteToFrequency(69, 0, 0)
	if relErr(float64(fallback), 440) > 0.02 {
		t.Fatalf("expected non-positive reference pitch to fall back to 440, got %f", fallback)
	}
}

func TestClampFrequencyBounds(t *testing.T) {
	if got := clampFrequency(5); got != MinFrequency {
		t.Fatalf("expected low clamp to %g, got %f", float64(MinFrequency), got)
	}
	if got := clampFrequency(30000); got != MaxFrequency {
		t.Fatalf("expected high clamp to %g, got %f", float64(MaxFrequency), got)
	}
	if got := clampFrequency(440); got != 440 {
		t.Fatalf("expected in-range frequency untouched, got %f", got)
	}
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}
